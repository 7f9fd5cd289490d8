package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/unimarket/storefront/internal/authz"
	"github.com/unimarket/storefront/internal/cart"
	"github.com/unimarket/storefront/internal/catalog"
	"github.com/unimarket/storefront/internal/events"
	"github.com/unimarket/storefront/internal/notify"
	"github.com/unimarket/storefront/pkg/logging"
)

type CartHTTP struct {
	Carts   *cart.Store
	Catalog *catalog.Catalog
	Notices *notify.Bus
	Events  *events.Producer
}

func (h *CartHTTP) cartPayload(c echo.Context) echo.Map {
	ctx := c.Request().Context()
	clientID := authz.ClientID(c)
	return echo.Map{
		"lines":      h.Carts.Lines(ctx, clientID),
		"item_count": h.Carts.ItemCount(ctx, clientID),
		"subtotal":   h.Carts.Subtotal(ctx, clientID),
	}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cartPayload(c))
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == "" {
		l.Warn("add_error", "status", 400, "reason", "missing product id")
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	product, ok := h.Catalog.ByID(req.ProductID)
	if !ok {
		l.Warn("add_error", "status", 404, "product_id", req.ProductID)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	qty := uint(1)
	if req.Quantity > 0 {
		qty = uint(req.Quantity)
	}

	clientID := authz.ClientID(c)
	line := h.Carts.Add(ctx, clientID, product, qty)
	h.Notices.Push(clientID, notify.LevelSuccess, product.Name+" added to cart")

	l.Info("item_added", "product_id", product.ID, "quantity", line.Quantity)
	return c.JSON(http.StatusCreated, echo.Map{
		"line":       line,
		"item_count": h.Carts.ItemCount(ctx, clientID),
		"subtotal":   h.Carts.Subtotal(ctx, clientID),
	})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	productID := c.Param("id")
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	h.Carts.UpdateQuantity(ctx, authz.ClientID(c), productID, req.Quantity)

	l.Info("quantity_updated", "product_id", productID, "quantity", req.Quantity)
	return c.JSON(http.StatusOK, h.cartPayload(c))
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	productID := c.Param("id")

	h.Carts.Remove(ctx, authz.ClientID(c), productID)

	logging.FromContext(ctx).Info("item_removed", "handler", "cart.remove", "product_id", productID)
	return c.JSON(http.StatusOK, h.cartPayload(c))
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	h.Carts.Clear(ctx, authz.ClientID(c))

	logging.FromContext(ctx).Info("cart_cleared", "handler", "cart.clear")
	return c.JSON(http.StatusOK, h.cartPayload(c))
}

// Checkout turns the current cart into an order summary and empties the
// cart. Totals are snapshotted before the clear so the response reflects
// what was actually bought.
func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")
	clientID := authz.ClientID(c)

	lines := h.Carts.Lines(ctx, clientID)
	if len(lines) == 0 {
		l.Warn("checkout_error", "status", 400, "reason", "empty cart")
		return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
	}

	order := echo.Map{
		"order_ref":  uuid.NewString(),
		"lines":      lines,
		"item_count": h.Carts.ItemCount(ctx, clientID),
		"subtotal":   h.Carts.Subtotal(ctx, clientID),
		"status":     "new",
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}

	h.Carts.Clear(ctx, clientID)
	h.Notices.Push(clientID, notify.LevelSuccess, "Order placed successfully!")
	if err := h.Events.Publish(ctx, events.TopicCartEvents, clientID, map[string]any{
		"type":      "order_placed",
		"order_ref": order["order_ref"],
	}); err != nil {
		l.Error("event publish failed", "error", err)
	}

	l.Info("checkout_successful", "order_ref", order["order_ref"])
	return c.JSON(http.StatusCreated, echo.Map{"order": order})
}
