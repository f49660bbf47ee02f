package repositories

import (
	"context"

	"github.com/messup/backend/internal/domain/entities"
)

// OrderRepository defines the interface for food order operations
type OrderRepository interface {
	// Create inserts a new order
	Create(ctx context.Context, order *entities.Order) error

	// GetByID retrieves an order by id
	GetByID(ctx context.Context, id string) (*entities.Order, error)

	// List retrieves all orders
	List(ctx context.Context) ([]*entities.Order, error)

	// ListByUserEmail retrieves orders submitted by one user
	ListByUserEmail(ctx context.Context, email string) ([]*entities.Order, error)

	// UpdateStatus transitions a record's status compare-and-set style
	UpdateStatus(ctx context.Context, id string, from, to entities.Status) error
}
