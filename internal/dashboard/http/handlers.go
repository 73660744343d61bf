package dashboardhttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gigledger/gigledger/internal/dashboard"
	"github.com/gigledger/gigledger/internal/period"
	"github.com/gigledger/gigledger/internal/shared"
)

// FilterAll is the sentinel query value meaning "do not narrow".
const FilterAll = "all"

// DashboardService defines the dashboard data contract used by the handler.
type DashboardService interface {
	GetDashboard(ctx context.Context, userID int64, f dashboard.Filters) (dashboard.Result, error)
}

// Handler coordinates HTTP requests for the driver finance dashboard.
type Handler struct {
	logger  *slog.Logger
	service DashboardService
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service DashboardService) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.WriteError(w, h.logger, shared.ErrUnauthorized)
		return
	}

	filters, err := ParseFilters(r)
	if err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := h.service.GetDashboard(r.Context(), userID, filters)
	if err != nil {
		shared.WriteError(w, h.logger, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

// ParseFilters reads the dashboard filter query parameters. Empty and
// "all" dimension values leave the filter unset.
func ParseFilters(r *http.Request) (dashboard.Filters, error) {
	f := dashboard.Filters{Period: period.Token(strings.TrimSpace(r.URL.Query().Get("period")))}

	var err error
	if f.DriverID, err = parseDimension(r, "driverId"); err != nil {
		return dashboard.Filters{}, err
	}
	if f.VehicleID, err = parseDimension(r, "vehicleId"); err != nil {
		return dashboard.Filters{}, err
	}
	if f.CompanyID, err = parseDimension(r, "companyId"); err != nil {
		return dashboard.Filters{}, err
	}
	return f, nil
}

func parseDimension(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" || raw == FilterAll {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &value, nil
}
