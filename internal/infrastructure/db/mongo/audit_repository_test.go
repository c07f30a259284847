package mongo

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/99minutos/posts-api/internal/core/domain"
)

func TestAuditDocument(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CST", -6*3600))
	doc := auditDocument(domain.AuditEntry{
		Entity:   domain.EntityPost,
		EntityID: 42,
		Action:   domain.AuditUpdated,
		At:       at,
	})

	if doc["entity"] != "post" || doc["entity_id"] != int64(42) || doc["action"] != "updated" {
		t.Errorf("unexpected document: %v", doc)
	}
	got, ok := doc["at"].(time.Time)
	if !ok || got.Location() != time.UTC || !got.Equal(at) {
		t.Errorf("expected at in UTC, got %v", doc["at"])
	}
}

func TestAuditRepository_InsertEntry(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("writes one document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewAuditRepository(mt.DB)

		err := repo.InsertEntry(context.Background(), domain.AuditEntry{
			Entity:   domain.EntityUser,
			EntityID: 7,
			Action:   domain.AuditCreated,
			At:       time.Now(),
		})
		if err != nil {
			mt.Fatalf("insert: %v", err)
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "insert" {
			mt.Fatalf("expected insert command, got %+v", started)
		}
		if coll := started.Command.Lookup("insert").StringValue(); coll != auditCollection {
			mt.Errorf("inserted into %q", coll)
		}
		docs, err := started.Command.Lookup("documents").Array().Values()
		if err != nil || len(docs) != 1 {
			mt.Fatalf("expected one document, got %d (%v)", len(docs), err)
		}
		doc := docs[0].Document()
		if doc.Lookup("entity").StringValue() != "user" || doc.Lookup("entity_id").Int64() != 7 {
			mt.Errorf("unexpected document: %v", doc)
		}
	})

	mt.Run("wraps write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key",
		}))
		repo := NewAuditRepository(mt.DB)

		err := repo.InsertEntry(context.Background(), domain.AuditEntry{
			Entity:   domain.EntityPost,
			EntityID: 3,
			Action:   domain.AuditDeleted,
			At:       time.Now(),
		})
		if err == nil || !strings.Contains(err.Error(), "insert audit entry post:3") {
			mt.Fatalf("expected wrapped error, got %v", err)
		}
	})
}

func TestAuditRepository_EnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates entity history index", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewAuditRepository(mt.DB)

		if err := repo.EnsureIndexes(context.Background()); err != nil {
			mt.Fatalf("ensure indexes: %v", err)
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "createIndexes" {
			mt.Fatalf("expected createIndexes command, got %+v", started)
		}
		indexes, err := started.Command.Lookup("indexes").Array().Values()
		if err != nil || len(indexes) != 1 {
			mt.Fatalf("expected one index, got %d (%v)", len(indexes), err)
		}
		if name := indexes[0].Document().Lookup("name").StringValue(); name != "entity_history" {
			mt.Errorf("index name = %q", name)
		}
	})

	mt.Run("reports server errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "unauthorized",
			Name:    "Unauthorized",
		}))
		repo := NewAuditRepository(mt.DB)

		if err := repo.EnsureIndexes(context.Background()); err == nil || !strings.Contains(err.Error(), "create audit index") {
			mt.Fatalf("expected wrapped error, got %v", err)
		}
	})
}
