// Package authz gates protected routes on the client's session role.
// There is one shared check; handlers never compare role strings
// themselves.
package authz

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/unimarket/storefront/internal/models"
	"github.com/unimarket/storefront/internal/session"
)

const (
	CtxClientID = "client_id"
	CtxSession  = "session"
)

// SessionSource resolves a client's live session, restoring it from
// durable storage if the process restarted. *session.Store satisfies it.
type SessionSource interface {
	Restore(ctx context.Context, clientID string) *models.Session
}

type Guard struct {
	Sessions  SessionSource
	JWTSecret []byte
}

func NewGuard(sessions SessionSource, secret []byte) *Guard {
	return &Guard{Sessions: sessions, JWTSecret: secret}
}

// Identify resolves the client token cookie, minting one for first-time
// visitors. It runs on every route so public pages share the same client
// identity as guarded ones.
func (g *Guard) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
			if claims, err := session.ClientClaimsFromToken(cookie.Value, g.JWTSecret); err == nil {
				c.Set(CtxClientID, claims.Subject)
				return next(c)
			}
		}

		clientID := uuid.NewString()
		token, err := session.SignClientToken(clientID, g.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot issue client token")
		}
		c.SetCookie(session.CreateCookie(session.CookieName, token, "/", cookieExpiry()))
		c.Set(CtxClientID, clientID)
		return next(c)
	}
}

// RequireRole allows the request iff a live session exists and its role
// is in the allowed set. Anonymous clients get 401 with the originally
// requested path so the UI can return after login; wrong roles get 403.
// The session store is consulted on every request, so a logout elsewhere
// revokes access immediately.
func (g *Guard) RequireRole(allowed ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := ClientID(c)
			if clientID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing client identity")
			}

			sess := g.Sessions.Restore(c.Request().Context(), clientID)
			if sess == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Please log in to access this page",
					"login": "/login",
					"next":  c.Request().URL.Path,
				})
			}

			if !slices.Contains(allowed, sess.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights to see this page")
			}

			c.Set(CtxSession, sess)
			return next(c)
		}
	}
}

func ClientID(c echo.Context) string {
	id, _ := c.Get(CtxClientID).(string)
	return id
}

func SessionFromContext(c echo.Context) *models.Session {
	sess, _ := c.Get(CtxSession).(*models.Session)
	return sess
}

func cookieExpiry() time.Time { return time.Now().Add(30 * 24 * time.Hour) }
