package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unimarket/storefront/internal/authz"
	"github.com/unimarket/storefront/internal/backend"
	"github.com/unimarket/storefront/internal/notify"
	"github.com/unimarket/storefront/internal/session"
	"github.com/unimarket/storefront/pkg/logging"
)

type ProfileHTTP struct {
	Backend  *backend.Client
	Sessions *session.Store
	Notices  *notify.Bus
}

func (h *ProfileHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.get")

	profile, err := h.Backend.Profile(ctx)
	if err != nil {
		code := statusOf(err)
		l.Warn("profile_fetch_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Failed to load profile."))
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": profile})
}

func (h *ProfileHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.update")

	var req backend.Profile
	if err := c.Bind(&req); err != nil {
		l.Warn("profile_update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" {
		l.Warn("profile_update_error", "status", 400, "reason", "missing email")
		return echo.NewHTTPError(http.StatusBadRequest, "email required")
	}

	if err := h.Backend.UpdateProfile(ctx, req); err != nil {
		code := statusOf(err)
		l.Warn("profile_update_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Failed to update profile."))
	}

	h.Notices.Push(authz.ClientID(c), notify.LevelSuccess, "Profile updated successfully!")
	l.Info("profile_updated")
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

func (h *ProfileHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.change_password")

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("password_change_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		l.Warn("password_change_error", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "old and new passwords required")
	}

	if err := h.Backend.ChangePassword(ctx, req.OldPassword, req.NewPassword); err != nil {
		code := statusOf(err)
		l.Warn("password_change_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Password change failed."))
	}

	h.Notices.Push(authz.ClientID(c), notify.LevelSuccess, "Password changed successfully!")
	l.Info("password_changed")
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// DeleteAccount removes the account on the backend and then logs the
// client out locally so no stale session survives the deletion.
func (h *ProfileHTTP) DeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.delete")

	if err := h.Backend.DeleteAccount(ctx); err != nil {
		code := statusOf(err)
		l.Warn("account_delete_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Account deletion failed."))
	}

	h.Sessions.Logout(ctx, authz.ClientID(c))

	l.Info("account_deleted")
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}
