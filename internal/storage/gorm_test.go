package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *GormKV {
	t.Helper()
	kv, err := Open(context.Background(), "", ":memory:")
	require.NoError(t, err)
	return kv
}

func TestGormKVSetGet(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, kv.Set(ctx, "currentUser:client-1", `{"email":"jamie@uni.edu"}`))

	v, ok, err := kv.Get(ctx, "currentUser:client-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"email":"jamie@uni.edu"}`, v)
}

func TestGormKVSetOverwrites(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "userRole:client-1", "user"))
	require.NoError(t, kv.Set(ctx, "userRole:client-1", "admin"))

	v, ok, err := kv.Get(ctx, "userRole:client-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "admin", v)
}

func TestGormKVDelete(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "currentUser:client-1", "a"))
	require.NoError(t, kv.Set(ctx, "userRole:client-1", "user"))

	require.NoError(t, kv.Delete(ctx, "currentUser:client-1", "userRole:client-1"))

	_, ok, err := kv.Get(ctx, "currentUser:client-1")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = kv.Get(ctx, "userRole:client-1")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting nothing, or a key that is already gone, is fine.
	require.NoError(t, kv.Delete(ctx))
	require.NoError(t, kv.Delete(ctx, "currentUser:client-1"))
}

func TestKeyComposition(t *testing.T) {
	require.Equal(t, "currentUser:client-1", Key(KeyCurrentUser, "client-1"))
	require.Equal(t, "userRole:client-1", Key(KeyUserRole, "client-1"))
	require.Equal(t, "cart:client-1", Key(KeyCart, "client-1"))
}
