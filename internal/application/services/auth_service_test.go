package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/messup/backend/internal/application/services"
	"github.com/messup/backend/internal/domain/entities"
	apperrors "github.com/messup/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.User), args.Error(1)
}

// memoryCache is a map-backed CacheProvider, enough for session round-trips.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.data[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("cache miss")
	}
	return value, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func newAuthService(repo *MockUserRepository, cache *memoryCache) *services.AuthService {
	return services.NewAuthService(repo, cache, &recordingEventBus{}, time.Hour, bcrypt.MinCost)
}

func TestAuthService_SignUp(t *testing.T) {
	repo := new(MockUserRepository)
	cache := newMemoryCache()
	service := newAuthService(repo, cache)

	repo.On("GetByEmail", mock.Anything, "new@x.com").Return(nil, apperrors.NewNotFoundError("user not found"))
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil)

	session, err := service.SignUp(context.Background(), "New@X.com ", "secret", "New Resident", "A-101", entities.RoleUser)
	require.NoError(t, err)

	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "new@x.com", session.Email)
	assert.Equal(t, entities.RoleUser, session.Role)

	stored := repo.Calls[1].Arguments.Get(1).(*entities.User)
	assert.Equal(t, "new@x.com", stored.Email)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")))
}

func TestAuthService_SignUp_ReadFailureDoesNotOverwrite(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo, newMemoryCache())

	// A transient read error says nothing about whether the email is taken;
	// registering anyway could overwrite an existing account's credentials.
	repo.On("GetByEmail", mock.Anything, "victim@x.com").
		Return(nil, apperrors.NewInternalError("db connection reset", nil))

	_, err := service.SignUp(context.Background(), "victim@x.com", "secret", "Someone", "A-101", entities.RoleUser)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)
	repo.AssertNotCalled(t, "Upsert")
}

func TestAuthService_SignUp_MissingRoomNumber(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo, newMemoryCache())

	repo.On("GetByEmail", mock.Anything, "new@x.com").Return(nil, apperrors.NewNotFoundError("user not found"))

	_, err := service.SignUp(context.Background(), "new@x.com", "secret", "New Resident", "", entities.RoleUser)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	repo.AssertNotCalled(t, "Upsert")
}

func TestAuthService_SignUp_ExistingCredentials(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo, newMemoryCache())

	repo.On("GetByEmail", mock.Anything, "taken@x.com").Return(&entities.User{
		Email:        "taken@x.com",
		PasswordHash: "$2a$04$alreadyset",
	}, nil)

	_, err := service.SignUp(context.Background(), "taken@x.com", "secret", "Someone", "", entities.RoleUser)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
	repo.AssertNotCalled(t, "Upsert")
}

func TestAuthService_SignUp_ClaimsAdminCreatedRecord(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo, newMemoryCache())

	// Record pre-created by an admin through Add User: no credentials yet.
	repo.On("GetByEmail", mock.Anything, "placed@x.com").Return(&entities.User{
		Email:  "placed@x.com",
		Name:   "Placed Resident",
		RoomNo: "B-204",
		Role:   entities.RoleAdmin,
	}, nil)
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil)

	session, err := service.SignUp(context.Background(), "placed@x.com", "secret", "Placed Resident", "", entities.RoleUser)
	require.NoError(t, err)

	// The assigned role survives the claim, whatever the sign-up form sent.
	assert.Equal(t, entities.RoleAdmin, session.Role)

	stored := repo.Calls[1].Arguments.Get(1).(*entities.User)
	assert.Equal(t, entities.RoleAdmin, stored.Role)
	assert.Equal(t, "B-204", stored.RoomNo)
}

func TestAuthService_SignIn(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	cache := newMemoryCache()
	service := newAuthService(repo, cache)

	repo.On("GetByEmail", mock.Anything, "resident@x.com").Return(&entities.User{
		Email:        "resident@x.com",
		Role:         entities.RoleUser,
		PasswordHash: string(hash),
	}, nil)

	t.Run("valid credentials open a session", func(t *testing.T) {
		session, err := service.SignIn(context.Background(), "resident@x.com", "secret")
		require.NoError(t, err)

		resolved, err := service.CurrentSession(context.Background(), session.Token)
		require.NoError(t, err)
		assert.Equal(t, "resident@x.com", resolved.Email)
		assert.False(t, resolved.IsAdmin())
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, err := service.SignIn(context.Background(), "resident@x.com", "wrong")
		require.Error(t, err)

		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
	})
}

func TestAuthService_SignIn_NoCredentialsYet(t *testing.T) {
	repo := new(MockUserRepository)
	service := newAuthService(repo, newMemoryCache())

	repo.On("GetByEmail", mock.Anything, "placed@x.com").Return(&entities.User{
		Email: "placed@x.com",
	}, nil)

	_, err := service.SignIn(context.Background(), "placed@x.com", "anything")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
}

func TestAuthService_SignOut(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	cache := newMemoryCache()
	service := newAuthService(repo, cache)

	repo.On("GetByEmail", mock.Anything, "resident@x.com").Return(&entities.User{
		Email:        "resident@x.com",
		PasswordHash: string(hash),
	}, nil)

	session, err := service.SignIn(context.Background(), "resident@x.com", "secret")
	require.NoError(t, err)

	require.NoError(t, service.SignOut(context.Background(), session.Token))

	_, err = service.CurrentSession(context.Background(), session.Token)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
}
