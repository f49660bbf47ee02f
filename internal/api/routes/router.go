package routes

import (
	"net/http"

	"github.com/messup/backend/internal/api/handlers"
	"github.com/messup/backend/internal/api/middleware"
	"github.com/messup/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler         *handlers.AuthHandler
	userHandler         *handlers.UserHandler
	menuHandler         *handlers.MenuHandler
	feedbackHandler     *handlers.FeedbackHandler
	leaveHandler        *handlers.LeaveHandler
	orderHandler        *handlers.OrderHandler
	announcementHandler *handlers.AnnouncementHandler

	auth    *middleware.AuthMiddleware
	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	menuHandler *handlers.MenuHandler,
	feedbackHandler *handlers.FeedbackHandler,
	leaveHandler *handlers.LeaveHandler,
	orderHandler *handlers.OrderHandler,
	announcementHandler *handlers.AnnouncementHandler,
	auth *middleware.AuthMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		authHandler:         authHandler,
		userHandler:         userHandler,
		menuHandler:         menuHandler,
		feedbackHandler:     feedbackHandler,
		leaveHandler:        leaveHandler,
		orderHandler:        orderHandler,
		announcementHandler: announcementHandler,

		auth:    auth,
		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/signup", r.authHandler.SignUp)
	r.mux.HandleFunc("POST /api/auth/admin/signup", r.authHandler.AdminSignUp)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)
	r.mux.Handle("POST /api/auth/logout", r.protected(r.authHandler.Logout))
	r.mux.Handle("GET /api/auth/session", r.protected(r.authHandler.Session))

	// User management endpoints (admin)
	r.mux.Handle("GET /api/users", r.adminOnly(r.userHandler.ListUsers))
	r.mux.Handle("POST /api/users", r.adminOnly(r.userHandler.AddUser))

	// Menu endpoints
	r.mux.Handle("GET /api/menu", r.protected(r.menuHandler.ListItems))
	r.mux.Handle("POST /api/menu", r.adminOnly(r.menuHandler.AddItem))
	r.mux.Handle("DELETE /api/menu/{id}", r.adminOnly(r.menuHandler.DeleteItem))

	// Feedback endpoints
	r.mux.Handle("POST /api/feedbacks", r.protected(r.feedbackHandler.Submit))
	r.mux.Handle("GET /api/feedbacks", r.adminOnly(r.feedbackHandler.List))
	r.mux.Handle("GET /api/feedbacks/mine", r.protected(r.feedbackHandler.ListMine))
	r.mux.Handle("PATCH /api/feedbacks/{id}/status", r.adminOnly(r.feedbackHandler.UpdateStatus))

	// Leave request endpoints
	r.mux.Handle("POST /api/leave-requests", r.protected(r.leaveHandler.Submit))
	r.mux.Handle("GET /api/leave-requests", r.adminOnly(r.leaveHandler.List))
	r.mux.Handle("GET /api/leave-requests/mine", r.protected(r.leaveHandler.ListMine))
	r.mux.Handle("PATCH /api/leave-requests/{id}/status", r.adminOnly(r.leaveHandler.UpdateStatus))

	// Order endpoints
	r.mux.Handle("POST /api/orders", r.protected(r.orderHandler.Submit))
	r.mux.Handle("GET /api/orders", r.adminOnly(r.orderHandler.List))
	r.mux.Handle("GET /api/orders/mine", r.protected(r.orderHandler.ListMine))
	r.mux.Handle("PATCH /api/orders/{id}/status", r.adminOnly(r.orderHandler.UpdateStatus))

	// Announcement endpoints
	r.mux.Handle("GET /api/announcements", r.protected(r.announcementHandler.List))
	r.mux.Handle("POST /api/announcements", r.adminOnly(r.announcementHandler.Create))
	r.mux.Handle("DELETE /api/announcements/{id}", r.adminOnly(r.announcementHandler.Delete))

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.CORSMiddleware(handler)

	return handler
}

func (r *Router) protected(h http.HandlerFunc) http.Handler {
	return r.auth.RequireSession(h)
}

func (r *Router) adminOnly(h http.HandlerFunc) http.Handler {
	return r.auth.RequireAdmin(h)
}
