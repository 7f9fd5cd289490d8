package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/unimarket/storefront/internal/backend"
	"github.com/unimarket/storefront/internal/catalog"
	"github.com/unimarket/storefront/pkg/logging"
)

type AdminHTTP struct {
	Backend *backend.Client
	Catalog *catalog.Catalog
}

// Dashboard aggregates the numbers the admin landing page shows. Catalog
// counts are real; order and revenue figures are placeholders until the
// backend grows reporting endpoints.
func (h *AdminHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	backendUp := true
	if err := h.Backend.Ping(ctx); err != nil {
		backendUp = false
		l.Warn("backend_ping_failed", "error", err)
	}

	customerCount := 0
	if customers, err := h.Backend.Customers(ctx); err == nil {
		customerCount = len(customers)
	} else {
		l.Warn("customer_count_unavailable", "error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"backend_up":      backendUp,
		"total_products":  len(h.Catalog.Products()),
		"categories":      len(h.Catalog.Categories()),
		"total_customers": customerCount,
		"total_orders":    156,
		"revenue":         12450.75,
	})
}

func (h *AdminHTTP) Ping(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Backend.Ping(ctx); err != nil {
		code := statusOf(err)
		logging.FromContext(ctx).Warn("backend_ping_failed", "handler", "admin.ping", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Backend is not responding"))
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *AdminHTTP) Customers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.customers")

	if pm := c.QueryParam("payment_method"); pm != "" {
		customers, err := h.Backend.CustomersByPaymentMethod(ctx, pm)
		if err != nil {
			code := statusOf(err)
			l.Warn("customer_search_failed", "status", code, "error", err)
			return echo.NewHTTPError(code, userMessage(err, "Failed to find customers by payment method"))
		}
		return c.JSON(http.StatusOK, echo.Map{"customers": customers})
	}

	customers, err := h.Backend.Customers(ctx)
	if err != nil {
		code := statusOf(err)
		l.Warn("customer_list_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Failed to fetch customers"))
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}

func (h *AdminHTTP) Customer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.customer")

	customer, err := h.Backend.Customer(ctx, c.Param("id"))
	if err != nil {
		code := statusOf(err)
		l.Warn("customer_fetch_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Failed to fetch customer"))
	}
	return c.JSON(http.StatusOK, echo.Map{"customer": customer})
}

func (h *AdminHTTP) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_customer")

	if err := h.Backend.DeleteCustomer(ctx, c.Param("id")); err != nil {
		code := statusOf(err)
		l.Warn("customer_delete_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Failed to delete customer"))
	}

	l.Info("customer_deleted", "id", c.Param("id"))
	return c.JSON(http.StatusOK, echo.Map{"message": "customer deleted"})
}

func (h *AdminHTTP) Admins(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.admins")

	admins, err := h.Backend.Admins(ctx)
	if err != nil {
		code := statusOf(err)
		l.Warn("admin_list_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Failed to fetch admins"))
	}
	return c.JSON(http.StatusOK, echo.Map{"admins": admins})
}

func (h *AdminHTTP) Admin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.admin")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("admin_fetch_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid admin id")
	}

	admin, err := h.Backend.Admin(ctx, id)
	if err != nil {
		code := statusOf(err)
		l.Warn("admin_fetch_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Failed to fetch admin"))
	}
	return c.JSON(http.StatusOK, echo.Map{"admin": admin})
}

func (h *AdminHTTP) RegisterAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.register")

	var req backend.Admin
	if err := c.Bind(&req); err != nil {
		l.Warn("admin_register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		l.Warn("admin_register_error", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	resp, err := h.Backend.RegisterAdmin(ctx, req)
	if err != nil {
		code := statusOf(err)
		l.Warn("admin_register_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Registration failed. Please try again."))
	}

	l.Info("admin_registered", "id", resp.IdentityID())
	return c.JSON(http.StatusCreated, echo.Map{"message": "admin registered", "id": resp.IdentityID()})
}

func (h *AdminHTTP) UpdateAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update")

	var req backend.Admin
	if err := c.Bind(&req); err != nil {
		l.Warn("admin_update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ID == 0 {
		l.Warn("admin_update_error", "status", 400, "reason", "missing id")
		return echo.NewHTTPError(http.StatusBadRequest, "admin id required")
	}

	if err := h.Backend.UpdateAdmin(ctx, req); err != nil {
		code := statusOf(err)
		l.Warn("admin_update_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Failed to update admin"))
	}

	l.Info("admin_updated", "id", req.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "admin updated"})
}

func (h *AdminHTTP) DeleteAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("admin_delete_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid admin id")
	}

	if err := h.Backend.DeleteAdmin(ctx, id); err != nil {
		code := statusOf(err)
		l.Warn("admin_delete_failed", "status", code, "error", err)
		return echo.NewHTTPError(code, userMessage(err, "Failed to delete admin"))
	}

	l.Info("admin_deleted", "id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "admin deleted"})
}
