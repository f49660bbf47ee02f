package repositories

import (
	"context"

	"github.com/messup/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations. Users are
// keyed by email and only ever written wholesale.
type UserRepository interface {
	// Upsert creates or overwrites the user record keyed by its email
	Upsert(ctx context.Context, user *entities.User) error

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]*entities.User, error)
}
