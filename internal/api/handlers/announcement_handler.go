package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/messup/backend/internal/domain/entities"
)

// AnnouncementService defines the announcement operations used by the handler.
type AnnouncementService interface {
	Create(ctx context.Context, title, message string) (*entities.Announcement, error)
	List(ctx context.Context) ([]*entities.Announcement, error)
	Delete(ctx context.Context, id string) error
}

// AnnouncementHandler handles admin announcements.
type AnnouncementHandler struct {
	service AnnouncementService
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(service AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

type createAnnouncementRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Create handles POST /api/announcements. The timestamp is assigned
// server-side; anything the client sends is ignored.
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	announcement, err := h.service.Create(r.Context(), payload.Title, payload.Message)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, announcement)
}

// List handles GET /api/announcements
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.service.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"announcements": announcements,
		"count":         len(announcements),
	})
}

// Delete handles DELETE /api/announcements/{id}
func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "announcement ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
