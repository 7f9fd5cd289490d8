package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/unimarket/storefront/internal/models"
)

type Customer struct {
	ID            string `json:"id,omitempty"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Password      string `json:"password,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

func (c *Client) CreateCustomer(ctx context.Context, customer Customer) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/customer/create", customer, &out,
		"customer.create", "Registration failed. Please try again."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LoginCustomer(ctx context.Context, cred models.Credential) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/customer/login", cred, &out,
		"customer.login", "Login failed. Please check your credentials."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Customer(ctx context.Context, id string) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodGet, "/customer/read/"+url.PathEscape(id), nil, &out,
		"customer.read", "Failed to fetch customer"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, customer Customer) error {
	return c.do(ctx, http.MethodPut, "/customer/update", customer, nil,
		"customer.update", "Failed to update customer")
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/customer/delete/"+url.PathEscape(id), nil, nil,
		"customer.delete", "Failed to delete customer")
}

func (c *Client) Customers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.do(ctx, http.MethodGet, "/customer/getAll", nil, &out,
		"customer.getAll", "Failed to fetch customers"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CustomersByPaymentMethod(ctx context.Context, paymentMethod string) ([]Customer, error) {
	var out []Customer
	path := "/customer/findByPaymentMethod?paymentMethod=" + url.QueryEscape(paymentMethod)
	if err := c.do(ctx, http.MethodGet, path, nil, &out,
		"customer.findByPaymentMethod", "Failed to find customers by payment method"); err != nil {
		return nil, err
	}
	return out, nil
}
