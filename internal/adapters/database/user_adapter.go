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

// UserAdapter implements user persistence in Postgres
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert creates or overwrites the user record keyed by its email
func (a *UserAdapter) Upsert(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"email":         user.Email,
		"name":          user.Name,
		"room_no":       user.RoomNo,
		"role":          user.Role,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt,
	}

	query, args, err := a.db.Insert("users").
		Rows(record).
		OnConflict(goqu.DoUpdate("email", goqu.Record{
			"name":          user.Name,
			"room_no":       user.RoomNo,
			"role":          user.Role,
			"password_hash": user.PasswordHash,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build user upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert user", err)
	}

	return nil
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	query, args, err := a.db.Select(
		"email", "name", "room_no", "role", "password_hash", "created_at",
	).From("users").
		Where(goqu.Ex{"email": email}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user query", err)
	}

	user := &entities.User{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.Email,
		&user.Name,
		&user.RoomNo,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return user, nil
}

// List retrieves all users
func (a *UserAdapter) List(ctx context.Context) ([]*entities.User, error) {
	query, args, err := a.db.Select(
		"email", "name", "room_no", "role", "password_hash", "created_at",
	).From("users").
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	defer rows.Close()

	users := []*entities.User{}
	for rows.Next() {
		user := &entities.User{}
		if err := rows.Scan(
			&user.Email,
			&user.Name,
			&user.RoomNo,
			&user.Role,
			&user.PasswordHash,
			&user.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan user", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
