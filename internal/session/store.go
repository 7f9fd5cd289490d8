// Package session holds the authenticated identity for each storefront
// client: login and registration against the remote backend, logout, and
// restoration from durable storage after a restart.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/unimarket/storefront/internal/backend"
	"github.com/unimarket/storefront/internal/events"
	"github.com/unimarket/storefront/internal/models"
	"github.com/unimarket/storefront/internal/notify"
	"github.com/unimarket/storefront/internal/storage"
	"github.com/unimarket/storefront/pkg/logging"
)

var ErrMalformedResponse = errors.New("invalid response from server")

// Subscriber is called after every session change. sess is nil when the
// client logged out.
type Subscriber func(clientID string, sess *models.Session)

type Store struct {
	Backend *backend.Client
	KV      storage.KV
	Notices *notify.Bus
	Events  *events.Producer

	mu       sync.RWMutex
	sessions map[string]*models.Session
	subs     []Subscriber
}

func NewStore(b *backend.Client, kv storage.KV, notices *notify.Bus, producer *events.Producer) *Store {
	return &Store{
		Backend:  b,
		KV:       kv,
		Notices:  notices,
		Events:   producer,
		sessions: make(map[string]*models.Session),
	}
}

func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notifySubs(clientID string, sess *models.Session) {
	s.mu.RLock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(clientID, sess)
	}
}

// Current returns the in-memory session without touching storage.
func (s *Store) Current(clientID string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[clientID]
	return sess, ok
}

// Restore brings a persisted session back into memory. Malformed or
// half-present data is discarded silently, the same as the original UI
// dropping unreadable localStorage entries.
func (s *Store) Restore(ctx context.Context, clientID string) *models.Session {
	if sess, ok := s.Current(clientID); ok {
		return sess
	}

	l := logging.FromContext(ctx)

	rawUser, okUser, err := s.KV.Get(ctx, storage.Key(storage.KeyCurrentUser, clientID))
	if err != nil {
		l.Error("session restore read failed", "error", err)
		return nil
	}
	rawRole, okRole, err := s.KV.Get(ctx, storage.Key(storage.KeyUserRole, clientID))
	if err != nil {
		l.Error("session restore read failed", "error", err)
		return nil
	}
	if !okUser || !okRole {
		if okUser || okRole {
			s.discard(ctx, clientID)
		}
		return nil
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(rawUser), &sess); err != nil {
		s.discard(ctx, clientID)
		return nil
	}
	role, err := models.ParseRole(rawRole)
	if err != nil || sess.Email == "" {
		s.discard(ctx, clientID)
		return nil
	}
	sess.Role = role

	s.mu.Lock()
	s.sessions[clientID] = &sess
	s.mu.Unlock()
	s.notifySubs(clientID, &sess)

	return &sess
}

// Login authenticates against the role-appropriate backend endpoint. On
// failure the session is left untouched and no storage write happens.
func (s *Store) Login(ctx context.Context, clientID, email, password string, roleHint models.Role) (*models.Session, error) {
	cred := models.Credential{Email: email, Password: password}

	var (
		resp *backend.AuthResponse
		err  error
	)
	if roleHint == models.RoleAdmin || roleHint == models.RoleSuperadmin {
		resp, err = s.Backend.LoginAdmin(ctx, cred)
	} else {
		roleHint = models.RoleUser
		resp, err = s.Backend.LoginCustomer(ctx, cred)
	}
	if err != nil {
		s.Notices.Push(clientID, notify.LevelError,
			backend.UserMessage(err, "Login failed. Please check your credentials."))
		return nil, err
	}
	if !resp.Authenticated() {
		s.Notices.Push(clientID, notify.LevelError, ErrMalformedResponse.Error())
		return nil, ErrMalformedResponse
	}

	sess := sessionFromResponse(resp, email, roleHint)

	s.mu.Lock()
	s.sessions[clientID] = sess
	s.mu.Unlock()

	s.persist(ctx, clientID, sess)
	s.notifySubs(clientID, sess)

	s.Notices.Push(clientID, notify.LevelSuccess, fmt.Sprintf("Welcome back, %s!", sess.DisplayName))
	s.publish(ctx, clientID, map[string]any{
		"type":  "user_logged_in",
		"email": sess.Email,
		"role":  sess.Role.String(),
	})

	return sess, nil
}

// Register creates the account but does not log the client in.
func (s *Store) Register(ctx context.Context, clientID, name, email, password string, roleHint models.Role) error {
	first, last := splitName(name)

	var err error
	if roleHint == models.RoleAdmin || roleHint == models.RoleSuperadmin {
		_, err = s.Backend.RegisterAdmin(ctx, backend.Admin{
			FirstName: first, LastName: last, Email: email, Password: password,
		})
	} else {
		_, err = s.Backend.CreateCustomer(ctx, backend.Customer{
			FirstName: first, LastName: last, Email: email, Password: password,
		})
	}
	if err != nil {
		s.Notices.Push(clientID, notify.LevelError,
			backend.UserMessage(err, "Registration failed. Please try again."))
		return err
	}

	s.Notices.Push(clientID, notify.LevelSuccess, "Registration successful! Please log in.")
	s.publish(ctx, clientID, map[string]any{
		"type":  "user_registered",
		"email": email,
	})
	return nil
}

// Logout clears memory and durable storage unconditionally; it cannot
// fail from the caller's point of view.
func (s *Store) Logout(ctx context.Context, clientID string) {
	s.mu.Lock()
	delete(s.sessions, clientID)
	s.mu.Unlock()

	s.discard(ctx, clientID)
	s.notifySubs(clientID, nil)

	s.Notices.Push(clientID, notify.LevelSuccess, "Logged out successfully")
	s.publish(ctx, clientID, map[string]any{"type": "user_logged_out"})
}

func (s *Store) persist(ctx context.Context, clientID string, sess *models.Session) {
	l := logging.FromContext(ctx)
	data, err := json.Marshal(sess)
	if err != nil {
		l.Error("session persist failed", "error", err)
		return
	}
	if err := s.KV.Set(ctx, storage.Key(storage.KeyCurrentUser, clientID), string(data)); err != nil {
		l.Error("session persist failed", "key", storage.KeyCurrentUser, "error", err)
	}
	if err := s.KV.Set(ctx, storage.Key(storage.KeyUserRole, clientID), sess.Role.String()); err != nil {
		l.Error("session persist failed", "key", storage.KeyUserRole, "error", err)
	}
}

func (s *Store) discard(ctx context.Context, clientID string) {
	if err := s.KV.Delete(ctx,
		storage.Key(storage.KeyCurrentUser, clientID),
		storage.Key(storage.KeyUserRole, clientID),
	); err != nil {
		logging.FromContext(ctx).Error("session discard failed", "error", err)
	}
}

func (s *Store) publish(ctx context.Context, clientID string, event map[string]any) {
	if err := s.Events.Publish(ctx, events.TopicUserEvents, clientID, event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "error", err)
	}
}

func sessionFromResponse(resp *backend.AuthResponse, email string, role models.Role) *models.Session {
	id := resp.IdentityID()
	if id == "" {
		id = email
	}

	respEmail := resp.Email
	if respEmail == "" {
		respEmail = email
	}

	name := resp.Name
	if name == "" {
		name = strings.TrimSpace(resp.FirstName + " " + resp.LastName)
	}
	if name == "" {
		name = "User"
	}

	return &models.Session{
		ID:          id,
		Email:       respEmail,
		DisplayName: name,
		Role:        role,
	}
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
