package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/messup/backend/internal/domain/entities"
	"github.com/messup/backend/internal/domain/repositories"
	"github.com/messup/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/messup/backend/pkg/errors"
)

// OrderAdapter implements food order persistence in Postgres
type OrderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOrderAdapter creates a new order adapter
func NewOrderAdapter(client *postgres.Client) repositories.OrderRepository {
	return &OrderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new order
func (a *OrderAdapter) Create(ctx context.Context, order *entities.Order) error {
	record := goqu.Record{
		"id":         order.ID,
		"user_email": order.UserEmail,
		"item":       order.Item,
		"status":     string(order.Status),
		"created_at": order.CreatedAt,
	}

	query, args, err := a.db.Insert("orders").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build order insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create order", err)
	}

	return nil
}

// GetByID retrieves an order by id
func (a *OrderAdapter) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	query, args, err := a.db.Select(
		"id", "user_email", "item", "status", "created_at",
	).From("orders").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build order query", err)
	}

	order := &entities.Order{}
	var status sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&order.ID,
		&order.UserEmail,
		&order.Item,
		&status,
		&order.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get order", err)
	}

	order.Status = entities.NormalizeStatus(entities.Status(status.String))
	return order, nil
}

// List retrieves all orders, newest first
func (a *OrderAdapter) List(ctx context.Context) ([]*entities.Order, error) {
	return a.list(ctx, nil)
}

// ListByUserEmail retrieves orders submitted by one user
func (a *OrderAdapter) ListByUserEmail(ctx context.Context, email string) ([]*entities.Order, error) {
	return a.list(ctx, goqu.Ex{"user_email": email})
}

func (a *OrderAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Order, error) {
	ds := a.db.Select(
		"id", "user_email", "item", "status", "created_at",
	).From("orders").
		Order(goqu.I("created_at").Desc())
	if where != nil {
		ds = ds.Where(where)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build order list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list orders", err)
	}
	defer rows.Close()

	orders := []*entities.Order{}
	for rows.Next() {
		order := &entities.Order{}
		var status sql.NullString
		if err := rows.Scan(
			&order.ID,
			&order.UserEmail,
			&order.Item,
			&status,
			&order.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan order", err)
		}
		order.Status = entities.NormalizeStatus(entities.Status(status.String))
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// UpdateStatus transitions a record's status compare-and-set style
func (a *OrderAdapter) UpdateStatus(ctx context.Context, id string, from, to entities.Status) error {
	query, args, err := a.db.Update("orders").
		Set(goqu.Record{"status": string(to)}).
		Where(goqu.Ex{"id": id, "status": string(from)}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build order status update", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update order status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read update result", err)
	}
	if affected == 0 {
		if _, getErr := a.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return apperrors.NewConflictError("order status already transitioned")
	}

	return nil
}
