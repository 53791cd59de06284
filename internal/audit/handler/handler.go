package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"matricula/internal/audit"
	"matricula/pkg/httputil"
)

// Publisher produces accepted messages onto the log topic.
type Publisher interface {
	Publish(ctx context.Context, msg audit.Message) error
	Healthy(ctx context.Context) bool
}

// Handler exposes the audit ingestion and read-back endpoints.
type Handler struct {
	publisher Publisher
	store     audit.Store
	logger    *slog.Logger
	metrics   *audit.Metrics
}

// New constructs an audit handler.
func New(publisher Publisher, store audit.Store, logger *slog.Logger, metrics *audit.Metrics) *Handler {
	return &Handler{publisher: publisher, store: store, logger: logger, metrics: metrics}
}

// Register mounts the audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/audit/events", h.HandleIngest)
	r.Post("/audit/events/bulk", h.HandleIngestBulk)
	r.Get("/audit/events", h.HandleList)
	r.Get("/healthz", h.HandleHealth)
}

// HandleIngest accepts one message and produces it onto the log topic.
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	msg, err := httputil.Decode[audit.Message](r)
	if err != nil {
		httputil.WriteFailure(w, http.StatusBadRequest, "invalid audit message")
		return
	}
	if msg.EntityName == "" || msg.EntityID == "" {
		httputil.WriteFailure(w, http.StatusBadRequest, "entityName and entityId are required")
		return
	}

	if err := h.publisher.Publish(r.Context(), msg); err != nil {
		h.metrics.Rejected.Inc()
		h.logger.Error("audit publish failed", "entity_id", msg.EntityID, "error", err)
		httputil.WriteFailure(w, http.StatusBadGateway, "audit log unavailable")
		return
	}

	h.metrics.Ingested.Inc()
	httputil.WriteJSON(w, http.StatusAccepted, httputil.Envelope{Status: httputil.StatusSuccess})
}

type bulkResult struct {
	Index    int    `json:"index"`
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

// HandleIngestBulk accepts an array of messages. All accepted yields 202;
// a mix of outcomes yields 207 with per-item results; all failed yields 502.
func (h *Handler) HandleIngestBulk(w http.ResponseWriter, r *http.Request) {
	msgs, err := httputil.Decode[[]audit.Message](r)
	if err != nil {
		httputil.WriteFailure(w, http.StatusBadRequest, "invalid audit message batch")
		return
	}
	if len(msgs) == 0 {
		httputil.WriteFailure(w, http.StatusBadRequest, "empty batch")
		return
	}

	results := make([]bulkResult, len(msgs))
	accepted := 0
	for i, msg := range msgs {
		results[i] = bulkResult{Index: i, Accepted: true}

		if msg.EntityName == "" || msg.EntityID == "" {
			results[i].Accepted = false
			results[i].Error = "entityName and entityId are required"
			continue
		}
		if err := h.publisher.Publish(r.Context(), msg); err != nil {
			h.metrics.Rejected.Inc()
			results[i].Accepted = false
			results[i].Error = err.Error()
			continue
		}
		h.metrics.Ingested.Inc()
		accepted++
	}

	code := http.StatusAccepted
	status := httputil.StatusSuccess
	switch {
	case accepted == 0:
		code = http.StatusBadGateway
		status = httputil.StatusError
	case accepted < len(msgs):
		code = http.StatusMultiStatus
	}
	httputil.WriteJSON(w, code, httputil.Envelope{Status: status, Data: results})
}

type listResponse struct {
	Items    []audit.LogRow `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

// HandleList serves the paginated read-back query.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", 50)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	filter := audit.Page{Page: page, PageSize: pageSize, EventType: r.URL.Query().Get("eventType")}
	rows, total, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("audit list failed", "error", err)
		httputil.WriteFailure(w, http.StatusInternalServerError, "internal error")
		return
	}

	httputil.WriteSuccess(w, listResponse{Items: rows, Total: total, Page: page, PageSize: pageSize})
}

// HandleHealth reports broker connectivity qualitatively.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	broker := "Disconnected"
	if h.publisher.Healthy(r.Context()) {
		broker = "Connected"
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"broker": broker})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
