package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unimarket/storefront/internal/authz"
	"github.com/unimarket/storefront/internal/models"
	"github.com/unimarket/storefront/internal/notify"
	"github.com/unimarket/storefront/internal/session"
	"github.com/unimarket/storefront/pkg/logging"
)

type AuthHTTP struct {
	Sessions *session.Store
	Notices  *notify.Bus
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		l.Warn("login_error", "status", 400, "reason", "missing credentials")
		return echo.NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	roleHint := models.RoleUser
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			l.Warn("login_error", "status", 400, "reason", "unknown role hint")
			return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
		}
		roleHint = parsed
	}

	clientID := authz.ClientID(c)
	sess, err := h.Sessions.Login(ctx, clientID, req.Email, req.Password, roleHint)
	if err != nil {
		code := statusOf(err)
		l.Warn("login_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Login failed. Please check your credentials."))
	}

	l.Info("login_successful", "role", sess.Role.String())
	return c.JSON(http.StatusOK, echo.Map{
		"session":  sess,
		"is_admin": sess.Role == models.RoleAdmin || sess.Role == models.RoleSuperadmin,
	})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		l.Warn("register_error", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password required")
	}

	roleHint := models.RoleUser
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			l.Warn("register_error", "status", 400, "reason", "unknown role hint")
			return echo.NewHTTPError(http.StatusBadRequest, "unknown role")
		}
		roleHint = parsed
	}

	clientID := authz.ClientID(c)
	if err := h.Sessions.Register(ctx, clientID, req.Name, req.Email, req.Password, roleHint); err != nil {
		code := statusOf(err)
		l.Warn("register_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Registration failed. Please try again."))
	}

	l.Info("register_successful")
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful! Please log in.",
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	h.Sessions.Logout(ctx, authz.ClientID(c))

	l.Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Session lets the UI ask who it is after a reload; restoration from
// durable storage happens here.
func (h *AuthHTTP) Session(c echo.Context) error {
	ctx := c.Request().Context()

	sess := h.Sessions.Restore(ctx, authz.ClientID(c))
	if sess == nil {
		return c.JSON(http.StatusOK, echo.Map{"session": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"session": sess})
}

// Notifications drains the client's pending transient notices.
func (h *AuthHTTP) Notifications(c echo.Context) error {
	notices := h.Notices.Drain(authz.ClientID(c))
	if notices == nil {
		notices = []notify.Notice{}
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notices})
}
