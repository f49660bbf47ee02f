package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/messup/backend/internal/domain/entities"
)

// MenuService defines the menu operations used by the handler.
type MenuService interface {
	Add(ctx context.Context, item string) (*entities.MenuItem, error)
	List(ctx context.Context) ([]*entities.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

// MenuHandler handles the mess menu.
type MenuHandler struct {
	service MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(service MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

type addMenuItemRequest struct {
	Item string `json:"item"`
}

// AddItem handles POST /api/menu
func (h *MenuHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload addMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	item, err := h.service.Add(r.Context(), payload.Item)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

// ListItems handles GET /api/menu
func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"menu":  items,
		"count": len(items),
	})
}

// DeleteItem handles DELETE /api/menu/{id}
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "menu item ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
