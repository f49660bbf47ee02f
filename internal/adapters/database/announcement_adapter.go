package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/messup/backend/internal/domain/entities"
	"github.com/messup/backend/internal/domain/repositories"
	"github.com/messup/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/messup/backend/pkg/errors"
)

// AnnouncementAdapter implements announcement persistence in Postgres
type AnnouncementAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAnnouncementAdapter creates a new announcement adapter
func NewAnnouncementAdapter(client *postgres.Client) repositories.AnnouncementRepository {
	return &AnnouncementAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a new announcement
func (a *AnnouncementAdapter) Create(ctx context.Context, announcement *entities.Announcement) error {
	record := goqu.Record{
		"id":        announcement.ID,
		"title":     announcement.Title,
		"message":   announcement.Message,
		"timestamp": announcement.Timestamp,
	}

	query, args, err := a.db.Insert("announcements").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build announcement insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create announcement", err)
	}

	return nil
}

// List retrieves all announcements, newest first
func (a *AnnouncementAdapter) List(ctx context.Context) ([]*entities.Announcement, error) {
	query, args, err := a.db.Select("id", "title", "message", "timestamp").
		From("announcements").
		Order(goqu.I("timestamp").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build announcement list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list announcements", err)
	}
	defer rows.Close()

	announcements := []*entities.Announcement{}
	for rows.Next() {
		announcement := &entities.Announcement{}
		if err := rows.Scan(
			&announcement.ID,
			&announcement.Title,
			&announcement.Message,
			&announcement.Timestamp,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan announcement", err)
		}
		announcements = append(announcements, announcement)
	}

	return announcements, rows.Err()
}

// Delete removes an announcement by id
func (a *AnnouncementAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("announcements").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build announcement delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete announcement", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read delete result", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("announcement not found")
	}

	return nil
}
