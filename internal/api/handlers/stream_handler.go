package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/messup/backend/internal/api/middleware"
	"github.com/messup/backend/internal/domain/entities"
	"github.com/messup/backend/internal/domain/providers"
	"github.com/messup/backend/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/metric"
)

const streamHeartbeatInterval = 30 * time.Second

// StreamHandler serves Server-Sent Events for live collection subscriptions.
// Every change notification triggers a fresh full snapshot: the stream never
// patches, the last snapshot wins.
type StreamHandler struct {
	eventBus      providers.EventBus
	users         UserService
	menu          MenuService
	feedbacks     FeedbackService
	leaves        LeaveService
	orders        OrderService
	announcements AnnouncementService
	metrics       *observability.Metrics
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(
	eventBus providers.EventBus,
	users UserService,
	menu MenuService,
	feedbacks FeedbackService,
	leaves LeaveService,
	orders OrderService,
	announcements AnnouncementService,
	metrics *observability.Metrics,
) *StreamHandler {
	return &StreamHandler{
		eventBus:      eventBus,
		users:         users,
		menu:          menu,
		feedbacks:     feedbacks,
		leaves:        leaves,
		orders:        orders,
		announcements: announcements,
		metrics:       metrics,
	}
}

// Stream handles GET /api/stream/{collection}. On connect it emits a full
// snapshot of the collection, then a fresh snapshot after every change
// notification, plus periodic heartbeats. The subscription is released when
// the request context ends.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	if !entities.KnownCollection(collection) {
		respondWithError(w, http.StatusNotFound, "unknown collection")
		return
	}

	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing session")
		return
	}

	if collection == entities.CollectionUsers && !session.IsAdmin() {
		respondWithError(w, http.StatusForbidden, "admin access required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Subscribe releases itself when the request context ends.
	channel := providers.GetCollectionChannel(collection)
	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Printf("Failed to subscribe to channel %s: %v", channel, err)
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}

	h.metrics.StreamClients.Add(r.Context(), 1, metric.WithAttributes())
	defer h.metrics.StreamClients.Add(context.Background(), -1, metric.WithAttributes())

	h.sendSnapshot(w, r.Context(), collection, session)
	flusher.Flush()

	ticker := time.NewTicker(streamHeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Printf("Client disconnected from %s stream: %s", collection, session.Email)
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			observability.RecordEventMetric(r.Context(), h.metrics, collection)
			h.sendSnapshot(w, r.Context(), collection, session)
			flusher.Flush()
		}
	}
}

// sendSnapshot fetches the collection's current state, scoped to the
// subscriber's identity, and emits it as one snapshot event.
func (h *StreamHandler) sendSnapshot(w http.ResponseWriter, ctx context.Context, collection string, session *entities.Session) {
	records, err := h.fetchSnapshot(ctx, collection, session)
	if err != nil {
		log.Printf("Failed to fetch %s snapshot: %v", collection, err)
		h.sendEvent(w, "error", map[string]string{"error": "failed to fetch snapshot"})
		return
	}

	h.sendEvent(w, "snapshot", map[string]interface{}{
		"collection": collection,
		"records":    records,
		"timestamp":  time.Now().UTC(),
	})
}

// fetchSnapshot applies the subscribe predicate: residents see only their own
// feedbacks, leave requests and orders, admins see everything.
func (h *StreamHandler) fetchSnapshot(ctx context.Context, collection string, session *entities.Session) (interface{}, error) {
	switch collection {
	case entities.CollectionUsers:
		return h.users.List(ctx)
	case entities.CollectionMenu:
		return h.menu.List(ctx)
	case entities.CollectionAnnouncements:
		return h.announcements.List(ctx)
	case entities.CollectionFeedbacks:
		if session.IsAdmin() {
			return h.feedbacks.List(ctx)
		}
		return h.feedbacks.ListOwn(ctx, session.Email)
	case entities.CollectionLeaveRequests:
		if session.IsAdmin() {
			return h.leaves.List(ctx)
		}
		return h.leaves.ListOwn(ctx, session.Email)
	case entities.CollectionOrders:
		if session.IsAdmin() {
			return h.orders.List(ctx)
		}
		return h.orders.ListOwn(ctx, session.Email)
	}
	return nil, fmt.Errorf("unknown collection: %s", collection)
}

// sendEvent writes a single SSE event
func (h *StreamHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to marshal SSE event: %v", err)
		return
	}

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}
