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

// LeaveService handles leave requests and their admin status transitions.
type LeaveService struct {
	repo repositories.LeaveRepository
	bus  providers.EventBus
}

// NewLeaveService creates a new leave service
func NewLeaveService(repo repositories.LeaveRepository, bus providers.EventBus) *LeaveService {
	return &LeaveService{repo: repo, bus: bus}
}

// Submit stores a new leave request bound to the authenticated identity
func (s *LeaveService) Submit(ctx context.Context, userEmail, reason string) (*entities.LeaveRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reason is required")
	}

	leave := &entities.LeaveRequest{
		ID:        uuid.New().String(),
		UserEmail: userEmail,
		Reason:    reason,
		Status:    entities.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.bus, entities.CollectionLeaveRequests, entities.CollectionEventCreated, leave.ID)
	return leave, nil
}

// List retrieves all leave requests
func (s *LeaveService) List(ctx context.Context) ([]*entities.LeaveRequest, error) {
	return s.repo.List(ctx)
}

// ListOwn retrieves leave requests submitted by one user
func (s *LeaveService) ListOwn(ctx context.Context, userEmail string) ([]*entities.LeaveRequest, error) {
	return s.repo.ListByUserEmail(ctx, userEmail)
}

// Transition moves a Pending leave request into a terminal status
func (s *LeaveService) Transition(ctx context.Context, id string, to entities.Status) error {
	if !allowedStatus(to, entities.LeaveTerminalStatuses) {
		return apperrors.NewValidationError("status must be Accepted or Rejected")
	}

	if err := s.repo.UpdateStatus(ctx, id, entities.StatusPending, to); err != nil {
		return err
	}

	publishEvent(ctx, s.bus, entities.CollectionLeaveRequests, entities.CollectionEventUpdated, id)
	return nil
}
