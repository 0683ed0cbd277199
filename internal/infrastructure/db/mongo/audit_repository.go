package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookinghub/user-service/internal/core/domain"
)

const auditCollection = "auth_audit"

// AuditRepository persists the authentication audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	Username  string `bson:"username"`
	Action    string `bson:"action"`
	Result    string `bson:"result"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := auditDoc{
		Username:  event.Username,
		Action:    event.Action,
		Result:    event.Result,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
