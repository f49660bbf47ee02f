package repositories

import (
	"context"

	"github.com/messup/backend/internal/domain/entities"
)

// LeaveRepository defines the interface for leave request operations
type LeaveRepository interface {
	// Create inserts a new leave request
	Create(ctx context.Context, leave *entities.LeaveRequest) error

	// GetByID retrieves a leave request by id
	GetByID(ctx context.Context, id string) (*entities.LeaveRequest, error)

	// List retrieves all leave requests
	List(ctx context.Context) ([]*entities.LeaveRequest, error)

	// ListByUserEmail retrieves leave requests submitted by one user
	ListByUserEmail(ctx context.Context, email string) ([]*entities.LeaveRequest, error)

	// UpdateStatus transitions a record's status compare-and-set style
	UpdateStatus(ctx context.Context, id string, from, to entities.Status) error
}
