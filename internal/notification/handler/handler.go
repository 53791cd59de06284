package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"matricula/internal/notification"
	"matricula/pkg/httputil"
)

// Publisher queues accepted messages onto the exchange.
type Publisher interface {
	Publish(ctx context.Context, msg notification.Message) error
}

// Health reports broker connectivity.
type Health interface {
	Connected() bool
}

// Handler exposes the notification ingestion endpoints. The endpoint chosen
// by the caller fixes the message kind; a kind in the body is overwritten.
type Handler struct {
	publisher Publisher
	health    Health
	logger    *slog.Logger
}

// New constructs a notification handler.
func New(publisher Publisher, health Health, logger *slog.Logger) *Handler {
	return &Handler{publisher: publisher, health: health, logger: logger}
}

// Register mounts the notification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/notifications/enrollment", h.handleKind(notification.KindEnrollment))
	r.Post("/notifications/unenrollment", h.handleKind(notification.KindUnenrollment))
	r.Get("/healthz", h.HandleHealth)
}

func (h *Handler) handleKind(kind notification.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := httputil.Decode[notification.Message](r)
		if err != nil {
			httputil.WriteFailure(w, http.StatusBadRequest, "invalid notification message")
			return
		}
		if msg.Recipient == "" {
			httputil.WriteFailure(w, http.StatusBadRequest, "recipient is required")
			return
		}

		msg.Kind = kind
		if msg.MessageID == "" {
			msg.MessageID = uuid.NewString()
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now().UTC()
		}

		if err := h.publisher.Publish(r.Context(), msg); err != nil {
			h.logger.Error("notification publish failed",
				"kind", kind,
				"message_id", msg.MessageID,
				"error", err,
			)
			httputil.WriteFailure(w, http.StatusBadGateway, "notification broker unavailable")
			return
		}

		httputil.WriteJSON(w, http.StatusAccepted, httputil.Envelope{Status: httputil.StatusSuccess})
	}
}

// HandleHealth reports broker connectivity qualitatively.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	broker := "Disconnected"
	if h.health.Connected() {
		broker = "Connected"
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"broker": broker})
}
