package services

import (
	"context"
	"time"

	"github.com/messup/backend/internal/domain/entities"
	"github.com/messup/backend/internal/domain/providers"
	"github.com/messup/backend/internal/domain/repositories"
	apperrors "github.com/messup/backend/pkg/errors"
)

// UserService handles the admin user-management surface and the session-gate
// role lookup.
type UserService struct {
	users repositories.UserRepository
	bus   providers.EventBus
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, bus providers.EventBus) *UserService {
	return &UserService{users: users, bus: bus}
}

// AddUser is the admin write-through form: it creates (or overwrites) a user
// record keyed by email with role "user". The record carries no credentials
// until the resident signs up and claims it.
func (s *UserService) AddUser(ctx context.Context, email, name, roomNo string) (*entities.User, error) {
	email = normalizeEmail(email)
	if email == "" || name == "" || roomNo == "" {
		return nil, apperrors.NewValidationError("email, name and room number are required")
	}

	user := &entities.User{
		Email:     email,
		Name:      name,
		RoomNo:    roomNo,
		Role:      entities.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.bus, entities.CollectionUsers, entities.CollectionEventCreated, email)
	return user, nil
}

// GetByEmail resolves the user record behind an identity. The session gate
// uses this to decide between the user and admin flows.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return s.users.GetByEmail(ctx, normalizeEmail(email))
}

// List retrieves all users
func (s *UserService) List(ctx context.Context) ([]*entities.User, error) {
	return s.users.List(ctx)
}
