// Package backend is the typed client for the remote marketplace API.
// The storefront never talks to the wire anywhere else: every call here
// catches the transport error and rethrows a single *Error carrying a
// user-presentable message. Nothing is retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/unimarket/storefront/pkg/logging"
)

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the marketplace backend, e.g.
// http://0.0.0.0:8080/StudentDesignerMarketplace. Cookies set by the
// backend are kept and replayed (credentials included).
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// errorBody is the shape backends use for failure payloads; either field
// may carry the human-readable text.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do runs one JSON request. out may be nil for calls whose body is
// irrelevant. fallback is the per-operation generic message used when the
// backend gives none.
func (c *Client) do(ctx context.Context, method, path string, body, out any, op, fallback string) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Message: fallback, Err: err}
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Message: fallback, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	l := logging.FromContext(ctx)
	l.Info("backend request", "method", method, "url", c.baseURL+path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Error("backend request failed", "method", method, "url", c.baseURL+path, "error", err)
		return &Error{Op: op, Message: "Cannot connect to backend server", Err: fmt.Errorf("%w: %v", ErrUnreachable, err)}
	}
	defer resp.Body.Close()

	l.Info("backend response", "method", method, "url", c.baseURL+path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		var eb errorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&eb); decodeErr == nil {
			if eb.Message != "" {
				msg = eb.Message
			} else if eb.Error != "" {
				msg = eb.Error
			}
		}
		return &Error{Op: op, Status: resp.StatusCode, Message: msg, Err: classify(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	return nil
}

// AuthResponse is what login and create endpoints come back with. The
// backend is loose about which identity fields it fills in, so ID kinds
// vary (number for admins, uuid string for customers).
type AuthResponse struct {
	Success   bool   `json:"success"`
	ID        any    `json:"id"`
	UserID    any    `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Message   string `json:"message"`
}

// IdentityID normalizes whichever identity field the backend filled in.
func (r *AuthResponse) IdentityID() string {
	if r.ID != nil {
		return fmt.Sprint(r.ID)
	}
	if r.UserID != nil {
		return fmt.Sprint(r.UserID)
	}
	return ""
}

// Authenticated reports whether the payload looks like a successful
// login; anything without a success flag or an identity is treated as
// malformed.
func (r *AuthResponse) Authenticated() bool {
	return r.Success || r.ID != nil || r.Email != ""
}
