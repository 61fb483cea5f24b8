package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gatehouse-auth/gatehouse/internal/api/presenter"
	"github.com/gatehouse-auth/gatehouse/internal/core"
	"github.com/gatehouse-auth/gatehouse/internal/policy"
	"github.com/gatehouse-auth/gatehouse/internal/strategies"
)

const principalKey = "principal"

// PrincipalCtx retrieves the authenticated principal from the context.
// It is only set on requests that passed the Auth middleware.
func PrincipalCtx(ctx context.Context) *core.Principal {
	principal, ok := ctx.Value(principalKey).(*core.Principal)
	if !ok {
		return nil
	}
	return principal
}

// Auth gates a subtree behind the strategy dispatcher and the access policy.
// Every failure path answers with the same generic 401 so callers cannot
// probe which check rejected them.
func Auth(dispatcher *strategies.Dispatcher, engine *policy.Engine, auditor core.Auditor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := log.Ctx(ctx)

			entry := core.AuditEntry{
				ID:   CorrelationCtx(ctx),
				Time: time.Now(),
			}

			principal, err := dispatcher.Authenticate(ctx, r)
			if err != nil {
				logger.Warn().Err(err).Msg("authentication rejected")

				entry.Action = core.ActionAuthRejected
				entry.Error = err.Error()
				writeAudit(ctx, auditor, entry)

				presenter.Error(w, r, "unauthorized", http.StatusUnauthorized)
				return
			}

			if _, err := engine.Evaluate(principal); err != nil {
				logger.Warn().
					Str("subject", principal.Subject).
					Str("scheme", principal.Scheme).
					Msg("access policy denied")

				entry.Action = core.ActionAuthRejected
				entry.Subject = principal.Subject
				entry.Scheme = principal.Scheme
				entry.Error = err.Error()
				writeAudit(ctx, auditor, entry)

				presenter.Error(w, r, "unauthorized", http.StatusUnauthorized)
				return
			}

			entry.Action = core.ActionAuthSuccess
			entry.Subject = principal.Subject
			entry.Scheme = principal.Scheme
			entry.Granted = true
			writeAudit(ctx, auditor, entry)

			logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("sub", principal.Subject).Str("scheme", principal.Scheme)
			})

			ctx = context.WithValue(ctx, principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSubjects restricts a subtree to the listed principals. It must run
// after Auth in the same chain; with an empty list everything is denied.
func RequireSubjects(subjects []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		allowed[s] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalCtx(r.Context())
			if principal == nil {
				presenter.Error(w, r, "unauthorized", http.StatusUnauthorized)
				return
			}
			if _, ok := allowed[principal.Subject]; !ok {
				presenter.Error(w, r, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAudit(ctx context.Context, auditor core.Auditor, entry core.AuditEntry) {
	if auditor == nil {
		return
	}
	if err := auditor.Log(entry); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to write audit log")
	}
}
