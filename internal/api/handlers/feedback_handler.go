package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/messup/backend/internal/api/middleware"
	"github.com/messup/backend/internal/domain/entities"
)

// FeedbackService defines the feedback operations used by the handler.
type FeedbackService interface {
	Submit(ctx context.Context, userEmail, text string) (*entities.Feedback, error)
	List(ctx context.Context) ([]*entities.Feedback, error)
	ListOwn(ctx context.Context, userEmail string) ([]*entities.Feedback, error)
	Transition(ctx context.Context, id string, to entities.Status) error
}

// FeedbackHandler handles resident feedback.
type FeedbackHandler struct {
	service FeedbackService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(service FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

type submitFeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// statusUpdateRequest is the body for every PATCH {id}/status route.
type statusUpdateRequest struct {
	Status string `json:"status"`
}

// Submit handles POST /api/feedbacks. The owner email comes from the
// session, never from the payload.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var payload submitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	feedback, err := h.service.Submit(r.Context(), session.Email, payload.Feedback)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, feedback)
}

// List handles GET /api/feedbacks
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.service.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"feedbacks": feedbacks,
		"count":     len(feedbacks),
	})
}

// ListMine handles GET /api/feedbacks/mine
func (h *FeedbackHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	feedbacks, err := h.service.ListOwn(r.Context(), session.Email)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"feedbacks": feedbacks,
		"count":     len(feedbacks),
	})
}

// UpdateStatus handles PATCH /api/feedbacks/{id}/status
func (h *FeedbackHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "feedback ID is required")
		return
	}

	var payload statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.Transition(r.Context(), id, entities.Status(payload.Status)); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": payload.Status})
}
