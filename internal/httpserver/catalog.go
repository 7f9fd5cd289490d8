package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unimarket/storefront/internal/catalog"
	"github.com/unimarket/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Catalog *catalog.Catalog
}

func (h *CatalogHTTP) Home(c echo.Context) error {
	products := catalog.Filter(h.Catalog.Products(), catalog.Query{Sort: catalog.SortName})
	featured := products
	if len(featured) > 4 {
		featured = featured[:4]
	}

	return c.JSON(http.StatusOK, echo.Map{
		"featured":   featured,
		"categories": h.Catalog.Categories(),
	})
}

// Products filters and sorts the static dataset. Everything happens in
// memory; there is no pagination.
func (h *CatalogHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.products")

	q := catalog.Query{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		MinPrice: parseFloatDefault(c.QueryParam("min_price"), 0),
		MaxPrice: parseFloatDefault(c.QueryParam("max_price"), 0),
		Sort:     catalog.Sort(c.QueryParam("sort")),
	}
	if q.Category != "" {
		if _, ok := h.Catalog.Category(q.Category); !ok {
			l.Warn("products_error", "status", 404, "reason", "unknown category")
			return echo.NewHTTPError(http.StatusNotFound, "unknown category")
		}
	}

	items := catalog.Filter(h.Catalog.Products(), q)

	l.Info("products_success", "total", len(items))
	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": echo.Map{
			"total":    len(items),
			"category": q.Category,
		},
	})
}

func (h *CatalogHTTP) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product")

	p, ok := h.Catalog.ByID(c.Param("id"))
	if !ok {
		l.Warn("product_error", "status", 404, "reason", "product not found")
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, p)
}
