package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/messup/backend/internal/api/middleware"
	"github.com/messup/backend/internal/domain/entities"
	apperrors "github.com/messup/backend/pkg/errors"
)

// AuthService defines the identity operations used by the handler.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name, roomNo, role string) (*entities.Session, error)
	SignIn(ctx context.Context, email, password string) (*entities.Session, error)
	SignOut(ctx context.Context, token string) error
}

// UserLookup resolves the stored user record behind a session identity.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// AuthHandler handles sign-up, login, logout and the session gate lookup.
type AuthHandler struct {
	auth  AuthService
	users UserLookup
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth AuthService, users UserLookup) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	RoomNo   string `json:"roomNo"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.signUp(w, r, entities.RoleUser)
}

// AdminSignUp handles POST /api/auth/admin/signup
func (h *AuthHandler) AdminSignUp(w http.ResponseWriter, r *http.Request) {
	h.signUp(w, r, entities.RoleAdmin)
}

func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request, role string) {
	var payload signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.auth.SignUp(r.Context(), payload.Email, payload.Password, payload.Name, payload.RoomNo, role)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, session)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.auth.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, session)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	if err := h.auth.SignOut(r.Context(), session.Token); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// Session handles GET /api/auth/session. Clients call it on startup to decide
// where to route: 401 means login, otherwise the role picks the surface. A
// valid session whose user row is missing surfaces as 404 without revoking
// the session, so the client can retry.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), session.Email)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"email":  user.Email,
		"role":   user.Role,
		"name":   user.Name,
		"roomNo": user.RoomNo,
	})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		respondWithError(w, appErr.HTTPStatus(), appErr.Message)
		return
	}
	respondWithError(w, http.StatusInternalServerError, err.Error())
}
