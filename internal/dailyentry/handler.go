package dailyentry

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gigledger/gigledger/internal/shared"
)

// Creator is the service surface the handler depends on.
type Creator interface {
	Create(ctx context.Context, userID int64, input Input) (*Result, error)
}

// Handler exposes the daily quick-entry endpoint.
type Handler struct {
	logger   *slog.Logger
	service  Creator
	validate *validator.Validate
}

// NewHandler constructs the daily entry handler.
func NewHandler(logger *slog.Logger, service Creator) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches the daily entry route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.WriteError(w, h.logger, shared.ErrUnauthorized)
		return
	}
	var input Input
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := h.service.Create(r.Context(), userID, input)
	if err != nil {
		shared.WriteError(w, h.logger, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, result)
}
