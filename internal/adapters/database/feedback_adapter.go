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

// FeedbackAdapter implements feedback persistence in Postgres
type FeedbackAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFeedbackAdapter creates a new feedback adapter
func NewFeedbackAdapter(client *postgres.Client) repositories.FeedbackRepository {
	return &FeedbackAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new feedback record
func (a *FeedbackAdapter) Create(ctx context.Context, feedback *entities.Feedback) error {
	record := goqu.Record{
		"id":         feedback.ID,
		"user_email": feedback.UserEmail,
		"feedback":   feedback.Feedback,
		"status":     string(feedback.Status),
		"created_at": feedback.CreatedAt,
	}

	query, args, err := a.db.Insert("feedbacks").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build feedback insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create feedback", err)
	}

	return nil
}

// GetByID retrieves a feedback record by id
func (a *FeedbackAdapter) GetByID(ctx context.Context, id string) (*entities.Feedback, error) {
	query, args, err := a.db.Select(
		"id", "user_email", "feedback", "status", "created_at",
	).From("feedbacks").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build feedback query", err)
	}

	feedback := &entities.Feedback{}
	var status sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&feedback.ID,
		&feedback.UserEmail,
		&feedback.Feedback,
		&status,
		&feedback.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("feedback not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get feedback", err)
	}

	feedback.Status = entities.NormalizeStatus(entities.Status(status.String))
	return feedback, nil
}

// List retrieves all feedback records, newest first
func (a *FeedbackAdapter) List(ctx context.Context) ([]*entities.Feedback, error) {
	return a.list(ctx, nil)
}

// ListByUserEmail retrieves feedback records submitted by one user
func (a *FeedbackAdapter) ListByUserEmail(ctx context.Context, email string) ([]*entities.Feedback, error) {
	return a.list(ctx, goqu.Ex{"user_email": email})
}

func (a *FeedbackAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Feedback, error) {
	ds := a.db.Select(
		"id", "user_email", "feedback", "status", "created_at",
	).From("feedbacks").
		Order(goqu.I("created_at").Desc())
	if where != nil {
		ds = ds.Where(where)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build feedback list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list feedbacks", err)
	}
	defer rows.Close()

	feedbacks := []*entities.Feedback{}
	for rows.Next() {
		feedback := &entities.Feedback{}
		var status sql.NullString
		if err := rows.Scan(
			&feedback.ID,
			&feedback.UserEmail,
			&feedback.Feedback,
			&status,
			&feedback.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan feedback", err)
		}
		feedback.Status = entities.NormalizeStatus(entities.Status(status.String))
		feedbacks = append(feedbacks, feedback)
	}

	return feedbacks, rows.Err()
}

// UpdateStatus transitions a record's status compare-and-set style. Zero rows
// updated means the stored status no longer matches from: a concurrent admin
// won the race, or the record is gone.
func (a *FeedbackAdapter) UpdateStatus(ctx context.Context, id string, from, to entities.Status) error {
	query, args, err := a.db.Update("feedbacks").
		Set(goqu.Record{"status": string(to)}).
		Where(goqu.Ex{"id": id, "status": string(from)}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build feedback status update", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update feedback status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read update result", err)
	}
	if affected == 0 {
		if _, getErr := a.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return apperrors.NewConflictError("feedback status already transitioned")
	}

	return nil
}
