package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/messup/backend/internal/domain/entities"
	"github.com/messup/backend/internal/domain/providers"
	"github.com/messup/backend/internal/domain/repositories"
	apperrors "github.com/messup/backend/pkg/errors"
)

// FeedbackService handles resident feedback and its admin status transitions.
type FeedbackService struct {
	repo repositories.FeedbackRepository
	bus  providers.EventBus
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(repo repositories.FeedbackRepository, bus providers.EventBus) *FeedbackService {
	return &FeedbackService{repo: repo, bus: bus}
}

// Submit stores a new feedback entry. The owner email always comes from the
// authenticated session, never from the request payload, and the status
// always starts Pending.
func (s *FeedbackService) Submit(ctx context.Context, userEmail, text string) (*entities.Feedback, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("feedback is required")
	}

	feedback := &entities.Feedback{
		ID:        uuid.New().String(),
		UserEmail: userEmail,
		Feedback:  text,
		Status:    entities.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.bus, entities.CollectionFeedbacks, entities.CollectionEventCreated, feedback.ID)
	return feedback, nil
}

// List retrieves all feedback entries
func (s *FeedbackService) List(ctx context.Context) ([]*entities.Feedback, error) {
	return s.repo.List(ctx)
}

// ListOwn retrieves feedback entries submitted by one user
func (s *FeedbackService) ListOwn(ctx context.Context, userEmail string) ([]*entities.Feedback, error) {
	return s.repo.ListByUserEmail(ctx, userEmail)
}

// Transition moves a Pending feedback entry into a terminal status. A record
// that already left Pending cannot transition again.
func (s *FeedbackService) Transition(ctx context.Context, id string, to entities.Status) error {
	if !allowedStatus(to, entities.FeedbackTerminalStatuses) {
		return apperrors.NewValidationError("status must be Resolved or Rejected")
	}

	if err := s.repo.UpdateStatus(ctx, id, entities.StatusPending, to); err != nil {
		return err
	}

	publishEvent(ctx, s.bus, entities.CollectionFeedbacks, entities.CollectionEventUpdated, id)
	return nil
}

func allowedStatus(s entities.Status, allowed []entities.Status) bool {
	for _, candidate := range allowed {
		if s == candidate {
			return true
		}
	}
	return false
}
