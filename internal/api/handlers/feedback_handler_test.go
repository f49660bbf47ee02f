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
)

// MockFeedbackService defines the mock feedback service
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) Submit(ctx context.Context, userEmail, text string) (*entities.Feedback, error) {
	args := m.Called(ctx, userEmail, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Feedback), args.Error(1)
}

func (m *MockFeedbackService) List(ctx context.Context) ([]*entities.Feedback, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Feedback), args.Error(1)
}

func (m *MockFeedbackService) ListOwn(ctx context.Context, userEmail string) ([]*entities.Feedback, error) {
	args := m.Called(ctx, userEmail)
	return args.Get(0).([]*entities.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Transition(ctx context.Context, id string, to entities.Status) error {
	args := m.Called(ctx, id, to)
	return args.Error(0)
}

func TestFeedbackHandler_Submit(t *testing.T) {
	session := &entities.Session{Token: "tok", Email: "resident@x.com", Role: entities.RoleUser}

	t.Run("binds the submitter from the session", func(t *testing.T) {
		mockService := new(MockFeedbackService)
		handler := handlers.NewFeedbackHandler(mockService)

		mockService.On("Submit", mock.Anything, "resident@x.com", "food was cold").
			Return(&entities.Feedback{ID: "fb-1", UserEmail: "resident@x.com", Status: entities.StatusPending}, nil)

		// The payload's userEmail must be ignored.
		body, _ := json.Marshal(map[string]string{
			"feedback":  "food was cold",
			"userEmail": "someone-else@x.com",
		})
		req := httptest.NewRequest("POST", "/api/feedbacks", bytes.NewBuffer(body))
		w := serveWithSession(handler.Submit, session, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("returns bad request for empty feedback", func(t *testing.T) {
		mockService := new(MockFeedbackService)
		handler := handlers.NewFeedbackHandler(mockService)

		mockService.On("Submit", mock.Anything, "resident@x.com", "").
			Return(nil, apperrors.NewValidationError("feedback is required"))

		body, _ := json.Marshal(map[string]string{"feedback": ""})
		req := httptest.NewRequest("POST", "/api/feedbacks", bytes.NewBuffer(body))
		w := serveWithSession(handler.Submit, session, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFeedbackHandler_ListMine(t *testing.T) {
	session := &entities.Session{Token: "tok", Email: "resident@x.com", Role: entities.RoleUser}

	mockService := new(MockFeedbackService)
	handler := handlers.NewFeedbackHandler(mockService)

	mockService.On("ListOwn", mock.Anything, "resident@x.com").Return([]*entities.Feedback{
		{ID: "fb-1", UserEmail: "resident@x.com", Status: entities.StatusPending},
	}, nil)

	req := httptest.NewRequest("GET", "/api/feedbacks/mine", nil)
	w := serveWithSession(handler.ListMine, session, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Feedbacks []*entities.Feedback `json:"feedbacks"`
		Count     int                  `json:"count"`
	}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 1, response.Count)
}

func TestFeedbackHandler_UpdateStatus(t *testing.T) {
	t.Run("resolves a pending feedback", func(t *testing.T) {
		mockService := new(MockFeedbackService)
		handler := handlers.NewFeedbackHandler(mockService)

		mockService.On("Transition", mock.Anything, "fb-1", entities.StatusResolved).Return(nil)

		body, _ := json.Marshal(map[string]string{"status": "Resolved"})
		req := httptest.NewRequest("PATCH", "/api/feedbacks/fb-1/status", bytes.NewBuffer(body))
		req.SetPathValue("id", "fb-1")
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("second transition attempt conflicts", func(t *testing.T) {
		mockService := new(MockFeedbackService)
		handler := handlers.NewFeedbackHandler(mockService)

		mockService.On("Transition", mock.Anything, "fb-1", entities.StatusRejected).
			Return(apperrors.NewConflictError("feedback status already transitioned"))

		body, _ := json.Marshal(map[string]string{"status": "Rejected"})
		req := httptest.NewRequest("PATCH", "/api/feedbacks/fb-1/status", bytes.NewBuffer(body))
		req.SetPathValue("id", "fb-1")
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown status vocabulary is rejected", func(t *testing.T) {
		mockService := new(MockFeedbackService)
		handler := handlers.NewFeedbackHandler(mockService)

		mockService.On("Transition", mock.Anything, "fb-1", entities.Status("Accepted")).
			Return(apperrors.NewValidationError("status must be Resolved or Rejected"))

		body, _ := json.Marshal(map[string]string{"status": "Accepted"})
		req := httptest.NewRequest("PATCH", "/api/feedbacks/fb-1/status", bytes.NewBuffer(body))
		req.SetPathValue("id", "fb-1")
		w := httptest.NewRecorder()

		handler.UpdateStatus(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	mockService := new(MockFeedbackService)
	handler := handlers.NewFeedbackHandler(mockService)

	resident := &entities.Session{Token: "tok", Email: "resident@x.com", Role: entities.RoleUser}

	req := httptest.NewRequest("GET", "/api/feedbacks", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	w := httptest.NewRecorder()

	mw := middleware.NewAuthMiddleware(stubSessionResolver{session: resident})
	mw.RequireAdmin(http.HandlerFunc(handler.List)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "List")
}
