package repositories

import (
	"context"

	"github.com/messup/backend/internal/domain/entities"
)

// FeedbackRepository defines the interface for feedback operations
type FeedbackRepository interface {
	// Create inserts a new feedback record
	Create(ctx context.Context, feedback *entities.Feedback) error

	// GetByID retrieves a feedback record by id
	GetByID(ctx context.Context, id string) (*entities.Feedback, error)

	// List retrieves all feedback records
	List(ctx context.Context) ([]*entities.Feedback, error)

	// ListByUserEmail retrieves feedback records submitted by one user
	ListByUserEmail(ctx context.Context, email string) ([]*entities.Feedback, error)

	// UpdateStatus transitions a record's status from one value to another.
	// The transition is compare-and-set: it fails with a conflict when the
	// stored status no longer matches from.
	UpdateStatus(ctx context.Context, id string, from, to entities.Status) error
}
