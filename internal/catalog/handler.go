package catalog

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gigledger/gigledger/internal/shared"
)

// Handler exposes CRUD for one lookup kind. The router mounts one
// instance per kind under its own path prefix.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	kind     Kind
	validate *validator.Validate
}

// NewHandler constructs a handler bound to a single kind.
func NewHandler(logger *slog.Logger, service *Service, kind Kind) *Handler {
	return &Handler{logger: logger, service: service, kind: kind, validate: validator.New()}
}

// MountRoutes attaches the kind's routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.WriteError(w, h.logger, shared.ErrUnauthorized)
		return
	}
	items, err := h.service.List(r.Context(), h.kind, userID)
	if err != nil {
		shared.WriteError(w, h.logger, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.WriteError(w, h.logger, shared.ErrUnauthorized)
		return
	}
	input, ok := h.decodeName(w, r)
	if !ok {
		return
	}
	item, err := h.service.Create(r.Context(), h.kind, userID, input.Name)
	if err != nil {
		shared.WriteError(w, h.logger, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.WriteError(w, h.logger, shared.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	input, ok := h.decodeName(w, r)
	if !ok {
		return
	}
	item, err := h.service.Update(r.Context(), h.kind, userID, id, input.Name)
	if err != nil {
		shared.WriteError(w, h.logger, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.WriteError(w, h.logger, shared.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if err := h.service.Delete(r.Context(), h.kind, userID, id); err != nil {
		shared.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeName(w http.ResponseWriter, r *http.Request) (NameInput, bool) {
	var input NameInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return input, false
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := h.validate.Struct(input); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return input, false
	}
	return input, true
}
