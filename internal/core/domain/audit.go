package domain

import (
	"strconv"
	"time"
)

// AuditAction names the mutation recorded by an AuditEntry.
type AuditAction string

const (
	AuditCreated AuditAction = "created"
	AuditUpdated AuditAction = "updated"
	AuditDeleted AuditAction = "deleted"
)

const (
	EntityUser = "user"
	EntityPost = "post"
)

// AuditEntry records a single mutation of a User or Post.
type AuditEntry struct {
	Entity   string
	EntityID int64
	Action   AuditAction
	At       time.Time
}

// Key identifies the audited entity, e.g. "post:42".
func (a AuditEntry) Key() string {
	return a.Entity + ":" + strconv.FormatInt(a.EntityID, 10)
}
