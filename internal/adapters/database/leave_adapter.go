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

// LeaveAdapter implements leave request persistence in Postgres
type LeaveAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewLeaveAdapter creates a new leave request adapter
func NewLeaveAdapter(client *postgres.Client) repositories.LeaveRepository {
	return &LeaveAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new leave request
func (a *LeaveAdapter) Create(ctx context.Context, leave *entities.LeaveRequest) error {
	record := goqu.Record{
		"id":         leave.ID,
		"user_email": leave.UserEmail,
		"reason":     leave.Reason,
		"status":     string(leave.Status),
		"created_at": leave.CreatedAt,
	}

	query, args, err := a.db.Insert("leave_requests").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build leave insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create leave request", err)
	}

	return nil
}

// GetByID retrieves a leave request by id
func (a *LeaveAdapter) GetByID(ctx context.Context, id string) (*entities.LeaveRequest, error) {
	query, args, err := a.db.Select(
		"id", "user_email", "reason", "status", "created_at",
	).From("leave_requests").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build leave query", err)
	}

	leave := &entities.LeaveRequest{}
	var status sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&leave.ID,
		&leave.UserEmail,
		&leave.Reason,
		&status,
		&leave.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("leave request not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get leave request", err)
	}

	leave.Status = entities.NormalizeStatus(entities.Status(status.String))
	return leave, nil
}

// List retrieves all leave requests, newest first
func (a *LeaveAdapter) List(ctx context.Context) ([]*entities.LeaveRequest, error) {
	return a.list(ctx, nil)
}

// ListByUserEmail retrieves leave requests submitted by one user
func (a *LeaveAdapter) ListByUserEmail(ctx context.Context, email string) ([]*entities.LeaveRequest, error) {
	return a.list(ctx, goqu.Ex{"user_email": email})
}

func (a *LeaveAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.LeaveRequest, error) {
	ds := a.db.Select(
		"id", "user_email", "reason", "status", "created_at",
	).From("leave_requests").
		Order(goqu.I("created_at").Desc())
	if where != nil {
		ds = ds.Where(where)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build leave list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list leave requests", err)
	}
	defer rows.Close()

	leaves := []*entities.LeaveRequest{}
	for rows.Next() {
		leave := &entities.LeaveRequest{}
		var status sql.NullString
		if err := rows.Scan(
			&leave.ID,
			&leave.UserEmail,
			&leave.Reason,
			&status,
			&leave.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan leave request", err)
		}
		leave.Status = entities.NormalizeStatus(entities.Status(status.String))
		leaves = append(leaves, leave)
	}

	return leaves, rows.Err()
}

// UpdateStatus transitions a record's status compare-and-set style
func (a *LeaveAdapter) UpdateStatus(ctx context.Context, id string, from, to entities.Status) error {
	query, args, err := a.db.Update("leave_requests").
		Set(goqu.Record{"status": string(to)}).
		Where(goqu.Ex{"id": id, "status": string(from)}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build leave status update", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update leave status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read update result", err)
	}
	if affected == 0 {
		if _, getErr := a.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return apperrors.NewConflictError("leave status already transitioned")
	}

	return nil
}
