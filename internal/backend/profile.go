package backend

import (
	"context"
	"net/http"
)

type Profile struct {
	ID            any    `json:"id,omitempty"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &out,
		"profile.get", "Failed to fetch profile"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, p Profile) error {
	return c.do(ctx, http.MethodPut, "/profile", p, nil,
		"profile.update", "Failed to update profile")
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	}
	return c.do(ctx, http.MethodPost, "/profile/change-password", body, nil,
		"profile.change_password", "Password change failed")
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/profile", nil, nil,
		"profile.delete", "Account deletion failed")
}
