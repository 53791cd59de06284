package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"matricula/internal/enrollment"
	"matricula/internal/enrollment/dispatch"
	"matricula/pkg/httputil"
)

// Service defines the enrollment operations the handler exposes.
type Service interface {
	Enroll(ctx context.Context, studentID, careerID int64, actor string) (*enrollment.EnrollmentRecord, error)
	Unenroll(ctx context.Context, studentID, careerID int64, actor string) (*enrollment.EnrollmentRecord, error)
}

// Handler wires the enrollment endpoints to the orchestrator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an enrollment handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the enrollment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/enrollments", h.HandleEnroll)
	r.Post("/enrollments/unenroll", h.HandleUnenroll)
}

type enrollmentRequest struct {
	StudentID int64 `json:"studentId"`
	CareerID  int64 `json:"careerId"`
}

// HandleEnroll handles POST /enrollments.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.Enroll)
}

// HandleUnenroll handles POST /enrollments/unenroll.
func (h *Handler) HandleUnenroll(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.Unenroll)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, op func(context.Context, int64, int64, string) (*enrollment.EnrollmentRecord, error)) {
	req, err := httputil.Decode[enrollmentRequest](r)
	if err != nil {
		httputil.WriteFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StudentID <= 0 || req.CareerID <= 0 {
		httputil.WriteFailure(w, http.StatusBadRequest, "studentId and careerId are required")
		return
	}

	actor := r.Header.Get("X-Actor")
	if actor == "" {
		actor = "system"
	}

	rec, err := op(r.Context(), req.StudentID, req.CareerID, actor)

	var validationErr *enrollment.ValidationError
	var propagationErr *dispatch.PropagationError
	switch {
	case err == nil:
		httputil.WriteSuccess(w, rec)
	case errors.As(err, &validationErr):
		// Domain failures ride a 200; the envelope status is authoritative.
		httputil.WriteFailure(w, http.StatusOK, validationErr.Reason)
	case errors.As(err, &propagationErr):
		httputil.WriteFailure(w, http.StatusOK, "enrollment state was updated but event propagation failed: "+propagationErr.Error())
	default:
		h.logger.Error("enrollment operation failed", "error", err)
		httputil.WriteFailure(w, http.StatusInternalServerError, "internal error")
	}
}
