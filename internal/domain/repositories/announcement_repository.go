package repositories

import (
	"context"

	"github.com/messup/backend/internal/domain/entities"
)

// AnnouncementRepository defines the interface for announcement operations
type AnnouncementRepository interface {
	// Create inserts a new announcement
	Create(ctx context.Context, announcement *entities.Announcement) error

	// List retrieves all announcements, newest first
	List(ctx context.Context) ([]*entities.Announcement, error)

	// Delete removes an announcement by id
	Delete(ctx context.Context, id string) error
}
