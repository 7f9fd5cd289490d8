package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unimarket/storefront/internal/backend"
	"github.com/unimarket/storefront/internal/models"
	"github.com/unimarket/storefront/internal/notify"
	"github.com/unimarket/storefront/internal/storage"
)

type testEnv struct {
	store   *Store
	kv      *storage.GormKV
	notices *notify.Bus
}

// newTestEnv stands up a fake marketplace backend and a store wired to
// in-memory storage. handler receives every backend request.
func newTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	kv, err := storage.Open(context.Background(), "", ":memory:")
	require.NoError(t, err)

	notices := notify.NewBus()
	return &testEnv{
		store:   NewStore(backend.NewClient(ts.URL), kv, notices, nil),
		kv:      kv,
		notices: notices,
	}
}

func customerLoginOK(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/customer/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"id":        "cust-42",
			"email":     "jamie@uni.edu",
			"firstName": "Jamie",
			"lastName":  "Lee",
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t, customerLoginOK(t))
	ctx := context.Background()

	sess, err := env.store.Login(ctx, "client-1", "jamie@uni.edu", "secret", models.RoleUser)
	require.NoError(t, err)
	require.Equal(t, "cust-42", sess.ID)
	require.Equal(t, "jamie@uni.edu", sess.Email)
	require.Equal(t, "Jamie Lee", sess.DisplayName)
	require.Equal(t, models.RoleUser, sess.Role)

	// Both durable keys written.
	_, ok, err := env.kv.Get(ctx, storage.Key(storage.KeyCurrentUser, "client-1"))
	require.NoError(t, err)
	require.True(t, ok)
	role, ok, err := env.kv.Get(ctx, storage.Key(storage.KeyUserRole, "client-1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "user", role)

	notices := env.notices.Drain("client-1")
	require.Len(t, notices, 1)
	require.Equal(t, notify.LevelSuccess, notices[0].Level)
	require.Equal(t, "Welcome back, Jamie Lee!", notices[0].Text)
}

func TestLoginFailureLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	})
	ctx := context.Background()

	sess, err := env.store.Login(ctx, "client-1", "jamie@uni.edu", "wrong", models.RoleUser)
	require.Error(t, err)
	require.ErrorIs(t, err, backend.ErrUnauthorized)
	require.Nil(t, sess)

	_, ok := env.store.Current("client-1")
	require.False(t, ok)

	// No storage write on failure.
	_, ok, kvErr := env.kv.Get(ctx, storage.Key(storage.KeyCurrentUser, "client-1"))
	require.NoError(t, kvErr)
	require.False(t, ok)
	_, ok, kvErr = env.kv.Get(ctx, storage.Key(storage.KeyUserRole, "client-1"))
	require.NoError(t, kvErr)
	require.False(t, ok)

	notices := env.notices.Drain("client-1")
	require.Len(t, notices, 1)
	require.Equal(t, notify.LevelError, notices[0].Level)
	require.Equal(t, "Invalid credentials", notices[0].Text)
}

func TestLoginAdminHitsAdminEndpoint(t *testing.T) {
	var gotPath string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "id": 7, "email": "boss@uni.edu"})
	})

	sess, err := env.store.Login(context.Background(), "client-1", "boss@uni.edu", "secret", models.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, "/admins/login", gotPath)
	require.Equal(t, "7", sess.ID)
	require.Equal(t, models.RoleAdmin, sess.Role)
}

func TestLoginMalformedResponse(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})

	sess, err := env.store.Login(context.Background(), "client-1", "jamie@uni.edu", "secret", models.RoleUser)
	require.ErrorIs(t, err, ErrMalformedResponse)
	require.Nil(t, sess)
}

func TestRestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t, customerLoginOK(t))
	ctx := context.Background()

	logged, err := env.store.Login(ctx, "client-1", "jamie@uni.edu", "secret", models.RoleUser)
	require.NoError(t, err)

	// Fresh store over the same storage, as after a restart.
	restarted := NewStore(env.store.Backend, env.kv, env.notices, nil)
	restored := restarted.Restore(ctx, "client-1")
	require.NotNil(t, restored)
	require.Equal(t, logged, restored)
}

func TestRestoreNothingPersisted(t *testing.T) {
	env := newTestEnv(t, customerLoginOK(t))
	require.Nil(t, env.store.Restore(context.Background(), "client-1"))
}

func TestRestoreDiscardsMalformedData(t *testing.T) {
	env := newTestEnv(t, customerLoginOK(t))
	ctx := context.Background()

	require.NoError(t, env.kv.Set(ctx, storage.Key(storage.KeyCurrentUser, "client-1"), "{not json"))
	require.NoError(t, env.kv.Set(ctx, storage.Key(storage.KeyUserRole, "client-1"), "user"))

	require.Nil(t, env.store.Restore(ctx, "client-1"))

	// Both keys are deleted, not left half-broken.
	_, ok, err := env.kv.Get(ctx, storage.Key(storage.KeyCurrentUser, "client-1"))
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = env.kv.Get(ctx, storage.Key(storage.KeyUserRole, "client-1"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRestoreDiscardsUnknownRole(t *testing.T) {
	env := newTestEnv(t, customerLoginOK(t))
	ctx := context.Background()

	require.NoError(t, env.kv.Set(ctx, storage.Key(storage.KeyCurrentUser, "client-1"),
		`{"id":"cust-42","email":"jamie@uni.edu","displayName":"Jamie","role":"user"}`))
	require.NoError(t, env.kv.Set(ctx, storage.Key(storage.KeyUserRole, "client-1"), "overlord"))

	require.Nil(t, env.store.Restore(ctx, "client-1"))
}

func TestRestoreDiscardsHalfPresentData(t *testing.T) {
	env := newTestEnv(t, customerLoginOK(t))
	ctx := context.Background()

	require.NoError(t, env.kv.Set(ctx, storage.Key(storage.KeyUserRole, "client-1"), "user"))

	require.Nil(t, env.store.Restore(ctx, "client-1"))

	_, ok, err := env.kv.Get(ctx, storage.Key(storage.KeyUserRole, "client-1"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLogoutClearsEverything(t *testing.T) {
	env := newTestEnv(t, customerLoginOK(t))
	ctx := context.Background()

	_, err := env.store.Login(ctx, "client-1", "jamie@uni.edu", "secret", models.RoleUser)
	require.NoError(t, err)
	env.notices.Drain("client-1")

	env.store.Logout(ctx, "client-1")

	_, ok := env.store.Current("client-1")
	require.False(t, ok)
	require.Nil(t, env.store.Restore(ctx, "client-1"))

	notices := env.notices.Drain("client-1")
	require.Len(t, notices, 1)
	require.Equal(t, "Logged out successfully", notices[0].Text)
}

func TestLogoutWithoutSessionIsSafe(t *testing.T) {
	env := newTestEnv(t, customerLoginOK(t))
	env.store.Logout(context.Background(), "nobody")
}

func TestRegisterDoesNotLogIn(t *testing.T) {
	var got struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/customer/create", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "id": "cust-43"})
	})
	ctx := context.Background()

	err := env.store.Register(ctx, "client-1", "Jamie Anne Lee", "jamie@uni.edu", "secret", models.RoleUser)
	require.NoError(t, err)
	require.Equal(t, "Jamie", got.FirstName)
	require.Equal(t, "Anne Lee", got.LastName)
	require.Equal(t, "jamie@uni.edu", got.Email)

	_, ok := env.store.Current("client-1")
	require.False(t, ok)

	notices := env.notices.Drain("client-1")
	require.Len(t, notices, 1)
	require.Equal(t, "Registration successful! Please log in.", notices[0].Text)
}

// brokenKV fails every write; reads behave as an empty store.
type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (brokenKV) Set(context.Context, string, string) error {
	return errors.New("disk full")
}
func (brokenKV) Delete(context.Context, ...string) error { return errors.New("disk full") }

func TestLoginSurvivesStorageFailure(t *testing.T) {
	ts := httptest.NewServer(customerLoginOK(t))
	t.Cleanup(ts.Close)

	store := NewStore(backend.NewClient(ts.URL), brokenKV{}, notify.NewBus(), nil)

	sess, err := store.Login(context.Background(), "client-1", "jamie@uni.edu", "secret", models.RoleUser)
	require.NoError(t, err)
	require.NotNil(t, sess)

	current, ok := store.Current("client-1")
	require.True(t, ok)
	require.Equal(t, sess, current)
}

func TestSubscribersFireOnLoginAndLogout(t *testing.T) {
	env := newTestEnv(t, customerLoginOK(t))
	ctx := context.Background()

	var events []string
	env.store.Subscribe(func(clientID string, sess *models.Session) {
		if sess == nil {
			events = append(events, clientID+":out")
		} else {
			events = append(events, clientID+":in")
		}
	})

	_, err := env.store.Login(ctx, "client-1", "jamie@uni.edu", "secret", models.RoleUser)
	require.NoError(t, err)
	env.store.Logout(ctx, "client-1")

	require.Equal(t, []string{"client-1:in", "client-1:out"}, events)
}
