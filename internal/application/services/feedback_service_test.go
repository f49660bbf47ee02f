package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/messup/backend/internal/application/services"
	"github.com/messup/backend/internal/domain/entities"
	apperrors "github.com/messup/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mocks

type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, feedback *entities.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) GetByID(ctx context.Context, id string) (*entities.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) List(ctx context.Context) ([]*entities.Feedback, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) ListByUserEmail(ctx context.Context, email string) ([]*entities.Feedback, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]*entities.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) UpdateStatus(ctx context.Context, id string, from, to entities.Status) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

// recordingEventBus captures published events for assertions.
type recordingEventBus struct {
	mu     sync.Mutex
	events []*entities.CollectionEvent
}

func (b *recordingEventBus) Publish(ctx context.Context, channel string, event *entities.CollectionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.CollectionEvent, error) {
	ch := make(chan *entities.CollectionEvent)
	close(ch)
	return ch, nil
}

func (b *recordingEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *recordingEventBus) Close() error { return nil }

func (b *recordingEventBus) published() []*entities.CollectionEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.CollectionEvent{}, b.events...)
}

// Tests

func TestFeedbackService_Submit(t *testing.T) {
	repo := new(MockFeedbackRepository)
	bus := &recordingEventBus{}
	service := services.NewFeedbackService(repo, bus)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Feedback")).Return(nil)

	feedback, err := service.Submit(context.Background(), "a@x.com", "food was cold")
	require.NoError(t, err)

	assert.NotEmpty(t, feedback.ID)
	assert.Equal(t, "a@x.com", feedback.UserEmail)
	assert.Equal(t, entities.StatusPending, feedback.Status)
	repo.AssertNumberOfCalls(t, "Create", 1)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, entities.CollectionFeedbacks, events[0].Collection)
	assert.Equal(t, entities.CollectionEventCreated, events[0].EventType)
}

func TestFeedbackService_Submit_EmptyText(t *testing.T) {
	repo := new(MockFeedbackRepository)
	service := services.NewFeedbackService(repo, &recordingEventBus{})

	_, err := service.Submit(context.Background(), "a@x.com", "   ")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	repo.AssertNotCalled(t, "Create")
}

func TestFeedbackService_Transition(t *testing.T) {
	repo := new(MockFeedbackRepository)
	bus := &recordingEventBus{}
	service := services.NewFeedbackService(repo, bus)

	repo.On("UpdateStatus", mock.Anything, "fb-1", entities.StatusPending, entities.StatusResolved).Return(nil)

	err := service.Transition(context.Background(), "fb-1", entities.StatusResolved)
	require.NoError(t, err)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, entities.CollectionEventUpdated, events[0].EventType)
}

func TestFeedbackService_Transition_InvalidVocabulary(t *testing.T) {
	repo := new(MockFeedbackRepository)
	service := services.NewFeedbackService(repo, &recordingEventBus{})

	// Feedback uses Resolved, not Accepted.
	err := service.Transition(context.Background(), "fb-1", entities.StatusAccepted)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	repo.AssertNotCalled(t, "UpdateStatus")
}

func TestFeedbackService_Transition_AlreadyTerminal(t *testing.T) {
	repo := new(MockFeedbackRepository)
	bus := &recordingEventBus{}
	service := services.NewFeedbackService(repo, bus)

	repo.On("UpdateStatus", mock.Anything, "fb-1", entities.StatusPending, entities.StatusRejected).
		Return(apperrors.NewConflictError("feedback status already transitioned"))

	err := service.Transition(context.Background(), "fb-1", entities.StatusRejected)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
	assert.Empty(t, bus.published())
}
