package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/messup/backend/internal/domain/entities"
	"github.com/messup/backend/internal/domain/providers"
	"github.com/messup/backend/internal/domain/repositories"
	apperrors "github.com/messup/backend/pkg/errors"
)

// AnnouncementService handles admin announcements.
type AnnouncementService struct {
	repo repositories.AnnouncementRepository
	bus  providers.EventBus
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(repo repositories.AnnouncementRepository, bus providers.EventBus) *AnnouncementService {
	return &AnnouncementService{repo: repo, bus: bus}
}

// Create publishes a new announcement. The timestamp is assigned here, on the
// server, so ordering does not depend on client clocks.
func (s *AnnouncementService) Create(ctx context.Context, title, message string) (*entities.Announcement, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" || message == "" {
		return nil, apperrors.NewValidationError("title and message are required")
	}

	announcement := &entities.Announcement{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.bus, entities.CollectionAnnouncements, entities.CollectionEventCreated, announcement.ID)
	return announcement, nil
}

// List retrieves all announcements, newest first
func (s *AnnouncementService) List(ctx context.Context) ([]*entities.Announcement, error) {
	return s.repo.List(ctx)
}

// Delete removes an announcement
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	publishEvent(ctx, s.bus, entities.CollectionAnnouncements, entities.CollectionEventDeleted, id)
	return nil
}
