package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/messup/backend/internal/domain/entities"
	"github.com/messup/backend/internal/domain/repositories"
	"github.com/messup/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/messup/backend/pkg/errors"
)

// MenuAdapter implements menu item persistence in Postgres
type MenuAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewMenuAdapter creates a new menu adapter
func NewMenuAdapter(client *postgres.Client) repositories.MenuRepository {
	return &MenuAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new menu item
func (a *MenuAdapter) Create(ctx context.Context, item *entities.MenuItem) error {
	record := goqu.Record{
		"id":         item.ID,
		"item":       item.Item,
		"created_at": item.CreatedAt,
	}

	query, args, err := a.db.Insert("menu").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build menu insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create menu item", err)
	}

	return nil
}

// List retrieves all menu items
func (a *MenuAdapter) List(ctx context.Context) ([]*entities.MenuItem, error) {
	query, args, err := a.db.Select("id", "item", "created_at").
		From("menu").
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build menu list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list menu items", err)
	}
	defer rows.Close()

	items := []*entities.MenuItem{}
	for rows.Next() {
		item := &entities.MenuItem{}
		if err := rows.Scan(&item.ID, &item.Item, &item.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan menu item", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Delete removes a menu item by id
func (a *MenuAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("menu").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build menu delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete menu item", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read delete result", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("menu item not found")
	}

	return nil
}
