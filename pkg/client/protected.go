package client

import (
	"context"

	"github.com/gatehouse-auth/gatehouse/internal/api"
)

// Protected calls the protected resource, authenticating with the
// client's configured token.
func (c *Client) Protected(ctx context.Context) (*api.ProtectedResponse, string, error) {
	var resp api.ProtectedResponse
	correlation, err := c.get(ctx, c.url().
		setPath(api.ProtectedRoute).
		build(), &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}
