package repositories

import (
	"context"

	"github.com/messup/backend/internal/domain/entities"
)

// MenuRepository defines the interface for menu item operations
type MenuRepository interface {
	// Create inserts a new menu item; always allocates a new id
	Create(ctx context.Context, item *entities.MenuItem) error

	// List retrieves all menu items
	List(ctx context.Context) ([]*entities.MenuItem, error)

	// Delete removes a menu item by id
	Delete(ctx context.Context, id string) error
}
