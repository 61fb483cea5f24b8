package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/gatehouse-auth/gatehouse/internal/api/presenter"
	"github.com/gatehouse-auth/gatehouse/internal/audit"
	"github.com/gatehouse-auth/gatehouse/internal/core"
)

// handleAdminAudit lists recent audit entries. Only auditors that retain
// entries support this; the file and noop sinks answer 501.
func (s *Server) handleAdminAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	readable, ok := s.auditor.(*audit.InMemoryAuditor)
	if !ok {
		presenter.Error(w, r, "configured audit sink is not queryable", http.StatusNotImplemented)
		return
	}

	q := r.URL.Query()

	limit := 50
	if limitStr := q.Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 {
			logger.Warn().Str("limit", limitStr).Msg("invalid limit parameter")
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = v
	}

	var entries []core.AuditEntry
	var err error

	filterSubject := q.Get("subject")
	filterAction := q.Get("action")
	if filterSubject != "" || filterAction != "" {
		entries, err = readable.Find(func(entry core.AuditEntry) bool {
			if filterSubject != "" && entry.Subject != filterSubject {
				return false
			}
			if filterAction != "" && entry.Action != filterAction {
				return false
			}
			return true
		}, limit)
	} else {
		entries, err = readable.GetRecent(limit)
	}

	if err != nil {
		logger.Error().Err(err).Msg("failed to retrieve audit logs")
		presenter.Error(w, r, "failed to retrieve audit logs", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}
