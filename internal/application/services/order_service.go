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

// OrderService handles food orders and their admin status transitions.
type OrderService struct {
	repo repositories.OrderRepository
	bus  providers.EventBus
}

// NewOrderService creates a new order service
func NewOrderService(repo repositories.OrderRepository, bus providers.EventBus) *OrderService {
	return &OrderService{repo: repo, bus: bus}
}

// Submit stores a new order bound to the authenticated identity
func (s *OrderService) Submit(ctx context.Context, userEmail, item string) (*entities.Order, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, apperrors.NewValidationError("item is required")
	}

	order := &entities.Order{
		ID:        uuid.New().String(),
		UserEmail: userEmail,
		Item:      item,
		Status:    entities.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.bus, entities.CollectionOrders, entities.CollectionEventCreated, order.ID)
	return order, nil
}

// List retrieves all orders
func (s *OrderService) List(ctx context.Context) ([]*entities.Order, error) {
	return s.repo.List(ctx)
}

// ListOwn retrieves orders submitted by one user
func (s *OrderService) ListOwn(ctx context.Context, userEmail string) ([]*entities.Order, error) {
	return s.repo.ListByUserEmail(ctx, userEmail)
}

// Transition moves a Pending order into a terminal status
func (s *OrderService) Transition(ctx context.Context, id string, to entities.Status) error {
	if !allowedStatus(to, entities.OrderTerminalStatuses) {
		return apperrors.NewValidationError("status must be Accepted or Rejected")
	}

	if err := s.repo.UpdateStatus(ctx, id, entities.StatusPending, to); err != nil {
		return err
	}

	publishEvent(ctx, s.bus, entities.CollectionOrders, entities.CollectionEventUpdated, id)
	return nil
}
