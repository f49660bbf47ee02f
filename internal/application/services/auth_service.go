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
	"golang.org/x/crypto/bcrypt"
)

const sessionKeyPrefix = "session:"

// AuthService implements email/password identity: sign-up, sign-in, sign-out,
// and current-identity lookup. Sessions are opaque bearer tokens stored in the
// cache provider with a TTL.
type AuthService struct {
	users      repositories.UserRepository
	cache      providers.CacheProvider
	bus        providers.EventBus
	sessionTTL time.Duration
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, cache providers.CacheProvider, bus providers.EventBus, sessionTTL time.Duration, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		cache:      cache,
		bus:        bus,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
	}
}

// SignUp registers a new account with the given role and opens a session.
// An email already holding credentials cannot be re-registered; a record
// created by an admin through Add User (which carries no credentials yet) is
// claimed by the first sign-up for that email, keeping its role.
func (s *AuthService) SignUp(ctx context.Context, email, password, name, roomNo, role string) (*entities.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" || name == "" {
		return nil, apperrors.NewValidationError("email, password and name are required")
	}
	if role != entities.RoleUser && role != entities.RoleAdmin {
		return nil, apperrors.NewValidationError("invalid role")
	}

	// Only a definite "no such user" clears the way: a failed read must not
	// let a registration overwrite an existing account.
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if err == nil {
		if existing.PasswordHash != "" {
			return nil, apperrors.NewConflictError("an account with this email already exists")
		}
		// Keep the role the admin assigned when pre-creating the record.
		role = existing.Role
		if roomNo == "" {
			roomNo = existing.RoomNo
		}
	}

	// Residents always carry a room number, whether typed in or inherited
	// from an admin-created record.
	if role == entities.RoleUser && roomNo == "" {
		return nil, apperrors.NewValidationError("room number is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		Email:        email,
		Name:         name,
		RoomNo:       roomNo,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.bus, entities.CollectionUsers, entities.CollectionEventCreated, email)

	return s.issueSession(ctx, user)
}

// SignIn verifies credentials and opens a session
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*entities.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}

	if user.PasswordHash == "" {
		return nil, apperrors.NewUnauthorizedError("account has no credentials yet, sign up first")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}

	return s.issueSession(ctx, user)
}

// SignOut revokes the session behind a token. Revoking an unknown token is
// not an error.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.cache.Delete(ctx, sessionKeyPrefix+token)
}

// CurrentSession resolves a bearer token to the session it identifies
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*entities.Session, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("missing session token")
	}

	data, err := s.cache.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid or expired session")
	}

	session := &entities.Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, apperrors.NewInternalError("failed to decode session", err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, apperrors.NewUnauthorizedError("session expired")
	}

	return session, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *entities.User) (*entities.Session, error) {
	now := time.Now().UTC()
	session := &entities.Session{
		Token:     uuid.New().String(),
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode session", err)
	}

	if err := s.cache.Set(ctx, sessionKeyPrefix+session.Token, data, int(s.sessionTTL.Seconds())); err != nil {
		return nil, apperrors.NewInternalError("failed to store session", err)
	}

	return session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
