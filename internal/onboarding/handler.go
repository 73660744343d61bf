package onboarding

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gigledger/gigledger/internal/shared"
)

// Handler exposes the wizard state over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the onboarding handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches onboarding routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleStatus)
	r.Post("/advance", h.handleAdvance)
	r.Post("/complete", h.handleComplete)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Status)
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Advance)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Complete)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID int64) (Status, error)) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.WriteError(w, h.logger, shared.ErrUnauthorized)
		return
	}
	status, err := op(r.Context(), userID)
	if err != nil {
		shared.WriteError(w, h.logger, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, status)
}
