package lorcana

import (
	"context"
	"fmt"
	"net/http"
)

// Register creates a new account. Unauthenticated.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	var env dataEnvelope[User]
	if err := c.doRequest(ctx, http.MethodPost, "/register", reg, &env); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &env.Data, nil
}

// Login exchanges credentials for a token and user. Unauthenticated.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		// The service has been observed answering 200 without a token on
		// bad credentials.
		return nil, &RequestError{StatusCode: http.StatusUnauthorized, Message: "invalid credentials"}
	}
	return &resp, nil
}

// Logout invalidates the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/logout", struct{}{}, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me retrieves the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var env dataEnvelope[User]
	if err := c.doRequest(ctx, http.MethodGet, "/me", nil, &env); err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return &env.Data, nil
}
