package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sundiag/backoffice-api/internal/model"
	"github.com/sundiag/backoffice-api/internal/repository"
	"github.com/sundiag/backoffice-api/pkg/messaging"
)

// Service records every mutating back-office operation in the audit store
// and mirrors it onto the message broker. Both writes are best-effort: an
// audit failure never fails the operation being audited.
type Service struct {
	repo   repository.AuditRepository
	broker messaging.Broker
	logger zerolog.Logger
}

func NewService(repo repository.AuditRepository, broker messaging.Broker, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		broker: broker,
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// Log writes one audit entry. Payload is marshaled as-is; a marshal failure
// drops the payload, not the entry. A nil service is a no-op auditor.
func (s *Service) Log(ctx context.Context, actor, action, entityType, entityID string, payload interface{}) {
	if s == nil {
		return
	}

	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.logger.Error().Err(err).Str("action", action).Msg("failed to marshal audit payload")
		} else {
			raw = data
		}
	}

	entry := &model.AuditLog{
		ID:         uuid.New(),
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    raw,
		CreatedAt:  time.Now(),
	}
	if rid, ok := ctx.Value("request_id").(string); ok {
		entry.RequestID = rid
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to store audit log")
	}

	if s.broker != nil {
		if err := s.broker.Publish(ctx, "backoffice.audit", entry); err != nil {
			s.logger.Warn().Err(err).Str("action", action).Msg("failed to publish audit event")
		}
	}
}

func (s *Service) List(ctx context.Context, entityType string, since time.Time) ([]*model.AuditLog, error) {
	return s.repo.List(ctx, entityType, since)
}
