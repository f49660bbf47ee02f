package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/messup/backend/internal/domain/entities"
)

// UserService defines the user management operations used by the handler.
type UserService interface {
	AddUser(ctx context.Context, email, name, roomNo string) (*entities.User, error)
	List(ctx context.Context) ([]*entities.User, error)
}

// UserHandler handles admin user management.
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

type addUserRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	RoomNo string `json:"roomNo"`
}

// AddUser handles POST /api/users. The record carries no credentials; the
// first sign-up for that email claims it.
func (h *UserHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var payload addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.service.AddUser(r.Context(), payload.Email, payload.Name, payload.RoomNo)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}
