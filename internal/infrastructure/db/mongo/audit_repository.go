package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/posts-api/internal/core/domain"
	"github.com/99minutos/posts-api/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	coll *mongo.Collection
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// EnsureIndexes creates the lookup index on (entity, entity_id, at).
// It is idempotent.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "entity", Value: 1},
			{Key: "entity_id", Value: 1},
			{Key: "at", Value: -1},
		},
		Options: options.Index().SetName("entity_history"),
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}

// InsertEntry appends one entry to the audit_events collection.
func (r *AuditRepository) InsertEntry(ctx context.Context, entry domain.AuditEntry) error {
	if _, err := r.coll.InsertOne(ctx, auditDocument(entry)); err != nil {
		return fmt.Errorf("insert audit entry %s: %w", entry.Key(), err)
	}
	return nil
}

func auditDocument(entry domain.AuditEntry) bson.M {
	return bson.M{
		"entity":    entry.Entity,
		"entity_id": entry.EntityID,
		"action":    string(entry.Action),
		"at":        entry.At.UTC(),
	}
}
