package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unimarket/storefront/internal/authz"
	"github.com/unimarket/storefront/internal/models"
)

type Deps struct {
	Guard       *authz.Guard
	AuthHandler *AuthHTTP
	Catalog     *CatalogHTTP
	Cart        *CartHTTP
	Profile     *ProfileHTTP
	Admin       *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1", d.Guard.Identify)

	// Public storefront surface.
	v1.GET("/home", d.Catalog.Home)
	v1.GET("/products", d.Catalog.Products)
	v1.GET("/products/:id", d.Catalog.Product)
	v1.GET("/designer", Designer)

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.GET("/session", d.AuthHandler.Session)
	v1.GET("/notifications", d.AuthHandler.Notifications)

	// Anything below needs a live session.
	private := v1.Group("", d.Guard.RequireRole(models.RoleUser, models.RoleAdmin, models.RoleSuperadmin))

	private.GET("/cart", d.Cart.GetCart)
	private.POST("/cart", d.Cart.AddToCart)
	private.PATCH("/cart/items/:id", d.Cart.UpdateQuantity)
	private.DELETE("/cart/items/:id", d.Cart.RemoveItem)
	private.DELETE("/cart", d.Cart.ClearCart)
	private.POST("/checkout", d.Cart.Checkout)

	private.GET("/profile", d.Profile.Get)
	private.PUT("/profile", d.Profile.Update)
	private.POST("/profile/change-password", d.Profile.ChangePassword)
	private.DELETE("/profile", d.Profile.DeleteAccount)

	admin := v1.Group("/admin", d.Guard.RequireRole(models.RoleAdmin, models.RoleSuperadmin))

	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.GET("/ping", d.Admin.Ping)
	admin.GET("/customers", d.Admin.Customers)
	admin.GET("/customers/:id", d.Admin.Customer)
	admin.DELETE("/customers/:id", d.Admin.DeleteCustomer)
	admin.GET("/admins", d.Admin.Admins)
	admin.GET("/admins/:id", d.Admin.Admin)
	admin.POST("/admins", d.Admin.RegisterAdmin)
	admin.POST("/admins/update", d.Admin.UpdateAdmin)
	admin.DELETE("/admins/:id", d.Admin.DeleteAdmin)
}
