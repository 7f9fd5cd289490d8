// Package storage is the storefront's durable key-value store. Sessions,
// roles and carts are mirrored here so a restarted process can pick them
// back up; writes are best-effort and callers log rather than fail.
package storage

import "context"

type KV interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Well-known key prefixes, kept from the original storage contract.
const (
	KeyCurrentUser = "currentUser"
	KeyUserRole    = "userRole"
	KeyCart        = "cart"
)

// Key scopes a well-known prefix to one storefront client.
func Key(prefix, clientID string) string {
	return prefix + ":" + clientID
}
