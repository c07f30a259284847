package service

import (
	"errors"
	"time"

	"github.com/99minutos/posts-api/internal/api/metrics"
	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

// recordMutation counts a successful mutation and hands it to the audit trail.
func recordMutation(audit ports.AuditRecorder, entity string, id int64, action domain.AuditAction) {
	metrics.EntityMutationsTotal.WithLabelValues(entity, string(action)).Inc()
	audit.Record(domain.AuditEntry{
		Entity:   entity,
		EntityID: id,
		Action:   action,
		At:       time.Now().UTC(),
	})
}

// recordRejection counts err when it is a domain invariant failure.
func recordRejection(entity string, err error) {
	var reason string
	switch {
	case errors.Is(err, domain.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, domain.ErrEmailExists):
		reason = "email_exists"
	case errors.Is(err, domain.ErrAuthorNotFound):
		reason = "author_not_found"
	default:
		return
	}
	metrics.EntityRejectionsTotal.WithLabelValues(entity, reason).Inc()
}
