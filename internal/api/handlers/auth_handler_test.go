package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/messup/backend/internal/api/handlers"
	"github.com/messup/backend/internal/api/middleware"
	"github.com/messup/backend/internal/domain/entities"
	apperrors "github.com/messup/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService defines the mock auth service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password, name, roomNo, role string) (*entities.Session, error) {
	args := m.Called(ctx, email, password, name, roomNo, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*entities.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockUserLookup defines the mock user lookup
type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

// stubSessionResolver resolves every token to a fixed session.
type stubSessionResolver struct {
	session *entities.Session
}

func (s stubSessionResolver) CurrentSession(ctx context.Context, token string) (*entities.Session, error) {
	if s.session == nil {
		return nil, apperrors.NewUnauthorizedError("invalid or expired session")
	}
	return s.session, nil
}

// serveWithSession runs a handler behind the session middleware.
func serveWithSession(h http.HandlerFunc, session *entities.Session, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req.Header.Set("Authorization", "Bearer test-token")
	mw := middleware.NewAuthMiddleware(stubSessionResolver{session: session})
	mw.RequireSession(h).ServeHTTP(w, req)
	return w
}

func TestAuthHandler_SignUp(t *testing.T) {
	t.Run("registers a resident account", func(t *testing.T) {
		mockAuth := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockAuth, new(MockUserLookup))

		mockAuth.On("SignUp", mock.Anything, "a@x.com", "secret", "Resident", "A-101", entities.RoleUser).
			Return(&entities.Session{Token: "tok", Email: "a@x.com", Role: entities.RoleUser}, nil)

		body, _ := json.Marshal(map[string]string{
			"email":    "a@x.com",
			"password": "secret",
			"name":     "Resident",
			"roomNo":   "A-101",
		})
		req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.SignUp(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockAuth.AssertExpectations(t)
	})

	t.Run("admin signup carries the admin role", func(t *testing.T) {
		mockAuth := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockAuth, new(MockUserLookup))

		mockAuth.On("SignUp", mock.Anything, "boss@x.com", "secret", "Boss", "", entities.RoleAdmin).
			Return(&entities.Session{Token: "tok", Email: "boss@x.com", Role: entities.RoleAdmin}, nil)

		body, _ := json.Marshal(map[string]string{
			"email":    "boss@x.com",
			"password": "secret",
			"name":     "Boss",
		})
		req := httptest.NewRequest("POST", "/api/auth/admin/signup", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.AdminSignUp(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockAuth.AssertExpectations(t)
	})

	t.Run("returns bad request for invalid payload", func(t *testing.T) {
		handler := handlers.NewAuthHandler(new(MockAuthService), new(MockUserLookup))

		req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewBufferString("invalid-json"))
		w := httptest.NewRecorder()

		handler.SignUp(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns conflict for an already registered email", func(t *testing.T) {
		mockAuth := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockAuth, new(MockUserLookup))

		mockAuth.On("SignUp", mock.Anything, "a@x.com", "secret", "Resident", "", entities.RoleUser).
			Return(nil, apperrors.NewConflictError("an account with this email already exists"))

		body, _ := json.Marshal(map[string]string{
			"email":    "a@x.com",
			"password": "secret",
			"name":     "Resident",
		})
		req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.SignUp(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns session for valid credentials", func(t *testing.T) {
		mockAuth := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockAuth, new(MockUserLookup))

		mockAuth.On("SignIn", mock.Anything, "a@x.com", "secret").
			Return(&entities.Session{Token: "tok", Email: "a@x.com", Role: entities.RoleUser}, nil)

		body, _ := json.Marshal(map[string]string{"email": "a@x.com", "password": "secret"})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response entities.Session
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "tok", response.Token)
	})

	t.Run("returns unauthorized for wrong credentials", func(t *testing.T) {
		mockAuth := new(MockAuthService)
		handler := handlers.NewAuthHandler(mockAuth, new(MockUserLookup))

		mockAuth.On("SignIn", mock.Anything, "a@x.com", "wrong").
			Return(nil, apperrors.NewUnauthorizedError("invalid email or password"))

		body, _ := json.Marshal(map[string]string{"email": "a@x.com", "password": "wrong"})
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Session(t *testing.T) {
	session := &entities.Session{Token: "tok", Email: "a@x.com", Role: entities.RoleUser}

	t.Run("returns role for the session identity", func(t *testing.T) {
		mockUsers := new(MockUserLookup)
		handler := handlers.NewAuthHandler(new(MockAuthService), mockUsers)

		mockUsers.On("GetByEmail", mock.Anything, "a@x.com").
			Return(&entities.User{Email: "a@x.com", Name: "Resident", Role: entities.RoleAdmin}, nil)

		req := httptest.NewRequest("GET", "/api/auth/session", nil)
		w := serveWithSession(handler.Session, session, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, entities.RoleAdmin, response["role"])
	})

	t.Run("missing user row is not found, session survives", func(t *testing.T) {
		mockUsers := new(MockUserLookup)
		handler := handlers.NewAuthHandler(new(MockAuthService), mockUsers)

		mockUsers.On("GetByEmail", mock.Anything, "a@x.com").
			Return(nil, apperrors.NewNotFoundError("user not found"))

		req := httptest.NewRequest("GET", "/api/auth/session", nil)
		w := serveWithSession(handler.Session, session, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects requests without a session", func(t *testing.T) {
		handler := handlers.NewAuthHandler(new(MockAuthService), new(MockUserLookup))

		req := httptest.NewRequest("GET", "/api/auth/session", nil)
		w := serveWithSession(handler.Session, nil, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	mockAuth := new(MockAuthService)
	handler := handlers.NewAuthHandler(mockAuth, new(MockUserLookup))

	session := &entities.Session{Token: "tok", Email: "a@x.com", Role: entities.RoleUser}
	mockAuth.On("SignOut", mock.Anything, "tok").Return(nil)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	w := serveWithSession(handler.Logout, session, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockAuth.AssertExpectations(t)
}
