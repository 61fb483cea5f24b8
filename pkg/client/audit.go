package client

import (
	"context"

	"github.com/gatehouse-auth/gatehouse/internal/api"
	"github.com/gatehouse-auth/gatehouse/internal/core"
)

type ListAuditsOpts struct {
	Limit uint

	Subject string
	Action  string
}

// ListAudits retrieves the latest audit entries from the server. The calling
// principal must be listed as an admin subject.
func (c *Client) ListAudits(ctx context.Context, opts ListAuditsOpts) ([]core.AuditEntry, string, error) {
	ub := c.url().setPath(api.ListAuditsRoute)
	if opts.Limit > 0 {
		ub = ub.addQueryParam("limit", opts.Limit)
	}
	if opts.Subject != "" {
		ub = ub.addQueryParam("subject", opts.Subject)
	}
	if opts.Action != "" {
		ub = ub.addQueryParam("action", opts.Action)
	}
	var resp []core.AuditEntry
	correlation, err := c.get(ctx, ub.build(), &resp)
	return resp, correlation, err
}
