// Package strategies implements the pluggable authentication methods gating
// protected routes, and the dispatcher that runs them in configured order.
package strategies

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gatehouse-auth/gatehouse/internal/core"
)

// Dispatcher runs the configured strategies against a request, in order.
// It is stateless across requests.
type Dispatcher struct {
	strategies []core.Strategy
}

func NewDispatcher(strategies []core.Strategy) *Dispatcher {
	return &Dispatcher{strategies: strategies}
}

// Authenticate tries each strategy in order. The first Success wins;
// NoResult skips to the next strategy; a Failure is remembered but does not
// stop later strategies from being tried. If nothing succeeds the request is
// rejected with the first failure reason, or ErrInvalidCredentials when no
// strategy saw credential material at all.
func (d *Dispatcher) Authenticate(ctx context.Context, r *http.Request) (*core.Principal, error) {
	logger := log.Ctx(ctx)

	var firstFailure error
	for _, strategy := range d.strategies {
		result := strategy.Authenticate(ctx, r)
		switch result.Status {
		case core.StatusSuccess:
			logger.Debug().
				Str("strategy", strategy.Name()).
				Str("subject", result.Principal.Subject).
				Msg("strategy authenticated request")
			return result.Principal, nil
		case core.StatusFailure:
			logger.Debug().
				Str("strategy", strategy.Name()).
				Err(result.Reason).
				Msg("strategy rejected credential")
			if firstFailure == nil {
				firstFailure = result.Reason
			}
		case core.StatusNoResult:
			// credential material absent, try the next strategy
		}
	}

	if firstFailure != nil {
		return nil, firstFailure
	}
	return nil, core.ErrInvalidCredentials
}
