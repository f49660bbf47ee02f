package services_test

import (
	"context"
	"testing"

	"github.com/messup/backend/internal/application/services"
	"github.com/messup/backend/internal/domain/entities"
	apperrors "github.com/messup/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) Create(ctx context.Context, item *entities.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuRepository) List(ctx context.Context) ([]*entities.MenuItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.MenuItem), args.Error(1)
}

func (m *MockMenuRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestMenuService_Add_DuplicatesAllowed(t *testing.T) {
	repo := new(MockMenuRepository)
	service := services.NewMenuService(repo, newMemoryCache(), &recordingEventBus{})

	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.MenuItem")).Return(nil)

	first, err := service.Add(context.Background(), "Masala Dosa")
	require.NoError(t, err)
	second, err := service.Add(context.Background(), "Masala Dosa")
	require.NoError(t, err)

	// Same item text, two distinct records.
	assert.NotEqual(t, first.ID, second.ID)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestMenuService_List_CacheAside(t *testing.T) {
	repo := new(MockMenuRepository)
	cache := newMemoryCache()
	service := services.NewMenuService(repo, cache, &recordingEventBus{})

	repo.On("List", mock.Anything).Return([]*entities.MenuItem{
		{ID: "m-1", Item: "Idli"},
	}, nil)

	items, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Second read is served from cache.
	items, err = service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Idli", items[0].Item)
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestMenuService_Delete_InvalidatesCache(t *testing.T) {
	repo := new(MockMenuRepository)
	cache := newMemoryCache()
	bus := &recordingEventBus{}
	service := services.NewMenuService(repo, cache, bus)

	repo.On("List", mock.Anything).Return([]*entities.MenuItem{{ID: "m-1", Item: "Idli"}}, nil)
	repo.On("Delete", mock.Anything, "m-1").Return(nil)

	_, err := service.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), "m-1"))

	cached, err := cache.Exists(context.Background(), "cache:menu")
	require.NoError(t, err)
	assert.False(t, cached)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, entities.CollectionEventDeleted, events[0].EventType)
}

func TestMenuService_Add_Empty(t *testing.T) {
	repo := new(MockMenuRepository)
	service := services.NewMenuService(repo, newMemoryCache(), &recordingEventBus{})

	_, err := service.Add(context.Background(), "")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	repo.AssertNotCalled(t, "Create")
}
