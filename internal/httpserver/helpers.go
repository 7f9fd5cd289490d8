package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/unimarket/storefront/internal/backend"
)

// statusOf maps a backend failure class to the status the storefront
// surfaces for it. Anything unclassified reads as a bad gateway: the
// storefront itself is fine, the backend is not.
func statusOf(err error) int {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, backend.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, backend.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func userMessage(err error, fallback string) string {
	return backend.UserMessage(err, fallback)
}

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}
