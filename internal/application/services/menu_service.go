package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/messup/backend/internal/domain/entities"
	"github.com/messup/backend/internal/domain/providers"
	"github.com/messup/backend/internal/domain/repositories"
	apperrors "github.com/messup/backend/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	menuCacheKey        = "cache:menu"
	menuCacheTTLSeconds = 60
)

// MenuService handles the mess menu. Reads go through a short-lived cache;
// every write invalidates it and notifies subscribers.
type MenuService struct {
	repo  repositories.MenuRepository
	cache providers.CacheProvider
	bus   providers.EventBus
}

// NewMenuService creates a new menu service
func NewMenuService(repo repositories.MenuRepository, cache providers.CacheProvider, bus providers.EventBus) *MenuService {
	return &MenuService{repo: repo, cache: cache, bus: bus}
}

// Add creates a new menu item. Adding the same item text twice creates two
// distinct items; this is never an upsert.
func (s *MenuService) Add(ctx context.Context, item string) (*entities.MenuItem, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, apperrors.NewValidationError("menu item is required")
	}

	menuItem := &entities.MenuItem{
		ID:        uuid.New().String(),
		Item:      item,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, menuItem); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	publishEvent(ctx, s.bus, entities.CollectionMenu, entities.CollectionEventCreated, menuItem.ID)
	return menuItem, nil
}

// List retrieves all menu items, cache-aside
func (s *MenuService) List(ctx context.Context) ([]*entities.MenuItem, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, menuCacheKey); err == nil {
			items := []*entities.MenuItem{}
			if err := json.Unmarshal(data, &items); err == nil {
				return items, nil
			}
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, menuCacheKey, data, menuCacheTTLSeconds); err != nil {
				log.Warn().Err(err).Msg("failed to cache menu")
			}
		}
	}

	return items, nil
}

// Delete removes a menu item
func (s *MenuService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	publishEvent(ctx, s.bus, entities.CollectionMenu, entities.CollectionEventDeleted, id)
	return nil
}

func (s *MenuService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, menuCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate menu cache")
	}
}
