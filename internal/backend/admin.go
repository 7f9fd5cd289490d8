package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/unimarket/storefront/internal/models"
)

type Admin struct {
	ID        int    `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
}

func (c *Client) RegisterAdmin(ctx context.Context, admin Admin) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/admins/register", admin, &out,
		"admins.register", "Registration failed. Please try again."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LoginAdmin(ctx context.Context, cred models.Credential) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/admins/login", cred, &out,
		"admins.login", "Login failed. Please check your credentials."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Admins(ctx context.Context) ([]Admin, error) {
	var out []Admin
	if err := c.do(ctx, http.MethodGet, "/admins/all", nil, &out,
		"admins.all", "Failed to fetch admins"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Admin(ctx context.Context, id int) (*Admin, error) {
	var out Admin
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admins/read/%d", id), nil, &out,
		"admins.read", "Failed to fetch admin"); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAdmin posts rather than puts; the backend only routes POST here.
func (c *Client) UpdateAdmin(ctx context.Context, admin Admin) error {
	return c.do(ctx, http.MethodPost, "/admins/update", admin, nil,
		"admins.update", "Failed to update admin")
}

func (c *Client) DeleteAdmin(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admins/delete/%d", id), nil, nil,
		"admins.delete", "Failed to delete admin")
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/admins/ping", nil, nil,
		"admins.ping", "Backend is not responding")
}
