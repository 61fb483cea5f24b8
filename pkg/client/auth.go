package client

import (
	"context"

	"github.com/gatehouse-auth/gatehouse/internal/api"
)

// Register creates a new user account on the server.
func (c *Client) Register(ctx context.Context, username, password string) (*api.UserResponse, string, error) {
	payload := api.CredentialsPayload{
		Username: username,
		Password: password,
	}
	var resp api.UserResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.RegisterRoute).
		build(), payload, &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*api.LoginResponse, string, error) {
	payload := api.CredentialsPayload{
		Username: username,
		Password: password,
	}
	var resp api.LoginResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.LoginRoute).
		build(), payload, &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}
