package ports

import (
	"context"

	"github.com/99minutos/posts-api/internal/core/domain"
)

// AuditRecorder accepts audit entries for asynchronous persistence.
// Record must not block the caller on storage.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	InsertEntry(ctx context.Context, entry domain.AuditEntry) error
}

// NopAuditRecorder discards every entry. Used when no audit store is configured.
type NopAuditRecorder struct{}

func (NopAuditRecorder) Record(domain.AuditEntry) {}
