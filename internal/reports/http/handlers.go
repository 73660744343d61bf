package reportshttp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gigledger/gigledger/internal/dashboard"
	"github.com/gigledger/gigledger/internal/reports"
	"github.com/gigledger/gigledger/internal/reports/export"
	"github.com/gigledger/gigledger/internal/shared"
)

// ReportService resolves normalized report data.
type ReportService interface {
	Fetch(ctx context.Context, userID int64, t reports.Type, start, end time.Time, f dashboard.Filters) (reports.ReportData, error)
}

// ExportService produces downloadable report artifacts.
type ExportService interface {
	Export(ctx context.Context, userID int64, req export.Request) (export.Artifact, error)
}

// Handler coordinates HTTP requests for reports and exports.
type Handler struct {
	logger   *slog.Logger
	reports  ReportService
	exporter ExportService
	validate *validator.Validate
}

// NewHandler constructs the reports HTTP handler.
func NewHandler(logger *slog.Logger, reportSvc ReportService, exporter ExportService) *Handler {
	return &Handler{
		logger:   logger,
		reports:  reportSvc,
		exporter: exporter,
		validate: validator.New(),
	}
}

// MountRoutes attaches report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleReport)
	r.Post("/export", h.handleExport)
}

type reportQuery struct {
	ReportType string `validate:"required"`
	StartDate  string `validate:"required,datetime=2006-01-02"`
	EndDate    string `validate:"required,datetime=2006-01-02"`
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.WriteError(w, h.logger, shared.ErrUnauthorized)
		return
	}

	q := reportQuery{
		ReportType: strings.TrimSpace(r.URL.Query().Get("reportType")),
		StartDate:  strings.TrimSpace(r.URL.Query().Get("startDate")),
		EndDate:    strings.TrimSpace(r.URL.Query().Get("endDate")),
	}
	if err := h.validate.Struct(q); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "reportType, startDate and endDate are required"})
		return
	}
	start, end, err := parseRange(q.StartDate, q.EndDate)
	if err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	filters, err := parseDimensions(
		r.URL.Query().Get("driverId"),
		r.URL.Query().Get("vehicleId"),
		r.URL.Query().Get("companyId"),
	)
	if err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	data, err := h.reports.Fetch(r.Context(), userID, reports.Type(q.ReportType), start, end, filters)
	if err != nil {
		shared.WriteError(w, h.logger, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, data)
}

type exportRequest struct {
	ReportType string `json:"reportType" validate:"required"`
	Format     string `json:"format" validate:"required,oneof=csv pdf excel"`
	StartDate  string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" validate:"required,datetime=2006-01-02"`
	DriverID   string `json:"driverId"`
	VehicleID  string `json:"vehicleId"`
	CompanyID  string `json:"companyId"`
}

type exportResponse struct {
	Data     string `json:"data"`
	Filename string `json:"filename"`
	MIMEType string `json:"mimeType"`
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.WriteError(w, h.logger, shared.ErrUnauthorized)
		return
	}

	var req exportRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	filters, err := parseDimensions(req.DriverID, req.VehicleID, req.CompanyID)
	if err != nil {
		shared.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	artifact, err := h.exporter.Export(r.Context(), userID, export.Request{
		Type:    reports.Type(req.ReportType),
		Format:  export.Format(req.Format),
		Start:   start,
		End:     end,
		Filters: filters,
	})
	if err != nil {
		shared.WriteError(w, h.logger, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, exportResponse{
		Data:     base64.StdEncoding.EncodeToString(artifact.Data),
		Filename: artifact.Filename,
		MIMEType: artifact.MIMEType,
	})
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid startDate")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid endDate")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("endDate before startDate")
	}
	// End of day so records dated inside the last day stay included.
	end = end.Add(24*time.Hour - time.Nanosecond)
	return start, end, nil
}

func parseDimensions(driverID, vehicleID, companyID string) (dashboard.Filters, error) {
	var f dashboard.Filters
	var err error
	if f.DriverID, err = parseDimension("driverId", driverID); err != nil {
		return dashboard.Filters{}, err
	}
	if f.VehicleID, err = parseDimension("vehicleId", vehicleID); err != nil {
		return dashboard.Filters{}, err
	}
	if f.CompanyID, err = parseDimension("companyId", companyID); err != nil {
		return dashboard.Filters{}, err
	}
	return f, nil
}

func parseDimension(name, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "all" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &value, nil
}
