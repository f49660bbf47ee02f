package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/messup/backend/internal/api/middleware"
	"github.com/messup/backend/internal/domain/entities"
)

// LeaveService defines the leave request operations used by the handler.
type LeaveService interface {
	Submit(ctx context.Context, userEmail, reason string) (*entities.LeaveRequest, error)
	List(ctx context.Context) ([]*entities.LeaveRequest, error)
	ListOwn(ctx context.Context, userEmail string) ([]*entities.LeaveRequest, error)
	Transition(ctx context.Context, id string, to entities.Status) error
}

// LeaveHandler handles mess leave requests.
type LeaveHandler struct {
	service LeaveService
}

// NewLeaveHandler creates a new leave handler
func NewLeaveHandler(service LeaveService) *LeaveHandler {
	return &LeaveHandler{service: service}
}

type submitLeaveRequest struct {
	Reason string `json:"reason"`
}

// Submit handles POST /api/leave-requests
func (h *LeaveHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var payload submitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	request, err := h.service.Submit(r.Context(), session.Email, payload.Reason)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, request)
}

// List handles GET /api/leave-requests
func (h *LeaveHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"leaveRequests": requests,
		"count":         len(requests),
	})
}

// ListMine handles GET /api/leave-requests/mine
func (h *LeaveHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	requests, err := h.service.ListOwn(r.Context(), session.Email)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"leaveRequests": requests,
		"count":         len(requests),
	})
}

// UpdateStatus handles PATCH /api/leave-requests/{id}/status
func (h *LeaveHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "leave request ID is required")
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
