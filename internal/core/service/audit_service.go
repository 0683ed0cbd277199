package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookinghub/user-service/internal/core/domain"
	"github.com/bookinghub/user-service/internal/core/ports"
)

// AuditService persists authentication audit events.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Process writes a single audit event to the trail.
func (s *AuditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	s.log.Debug().
		Str("username", event.Username).
		Str("action", event.Action).
		Str("result", event.Result).
		Msg("audit event recorded")
	return nil
}
