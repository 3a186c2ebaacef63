package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/providers"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/observability"
	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
)

// ViewHistoryService appends view events and announces them on the event
// bus. Count increments are owned by downstream consumers, never here.
type ViewHistoryService struct {
	history  repositories.ViewHistoryRepository
	eventBus providers.EventBus
}

// NewViewHistoryService creates a new view history service
func NewViewHistoryService(history repositories.ViewHistoryRepository, eventBus providers.EventBus) *ViewHistoryService {
	return &ViewHistoryService{
		history:  history,
		eventBus: eventBus,
	}
}

// RecordView appends one view event and publishes business.viewed. The
// publish is best-effort; a bus failure never loses the stored event.
func (s *ViewHistoryService) RecordView(ctx context.Context, userID, businessID string) (*entities.ViewEvent, error) {
	var fields []apperrors.FieldError
	if userID == "" {
		fields = append(fields, apperrors.FieldError{Field: "userId", Message: "userId is required"})
	}
	if businessID == "" {
		fields = append(fields, apperrors.FieldError{Field: "businessId", Message: "businessId is required"})
	}
	if len(fields) > 0 {
		return nil, apperrors.NewFieldValidationError(fields)
	}

	event := &entities.ViewEvent{
		ID:         uuid.New().String(),
		UserID:     userID,
		BusinessID: businessID,
		ViewedAt:   time.Now().UTC(),
	}

	if err := s.history.Record(ctx, event); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		busEvent := &entities.BusinessEvent{
			ID:         uuid.New().String(),
			Type:       entities.EventTypeBusinessViewed,
			BusinessID: businessID,
			UserID:     userID,
			OccurredAt: event.ViewedAt,
		}
		if err := s.eventBus.Publish(ctx, providers.EventChannelBusinessActivity, busEvent); err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("business_id", businessID).
				Msg("failed to publish view event")
		}
	}

	return event, nil
}

// RecentTargets returns the caller's aggregated view history, most recent
// first
func (s *ViewHistoryService) RecentTargets(ctx context.Context, userID string, limit int) ([]*entities.ViewAggregate, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorizedError("user identity required")
	}
	return s.history.RecentTargets(ctx, userID, limit)
}
