package dashboardhttp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gigledger/gigledger/internal/dashboard"
	"github.com/gigledger/gigledger/internal/period"
	"github.com/gigledger/gigledger/internal/shared"
)

type stubService struct {
	result  dashboard.Result
	filters dashboard.Filters
	userID  int64
	calls   int
}

func (s *stubService) GetDashboard(ctx context.Context, userID int64, f dashboard.Filters) (dashboard.Result, error) {
	s.calls++
	s.userID = userID
	s.filters = f
	return s.result, nil
}

func newRequest(target string, userID int64) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if userID > 0 {
		r = r.WithContext(shared.ContextWithUserID(r.Context(), userID))
	}
	return r
}

func TestHandleDashboardRequiresAuth(t *testing.T) {
	h := NewHandler(slog.New(slog.NewTextHandler(os.Stderr, nil)), &stubService{})
	rec := httptest.NewRecorder()
	h.handleDashboard(rec, newRequest("/dashboard", 0))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleDashboardParsesFilters(t *testing.T) {
	svc := &stubService{result: dashboard.Result{KPIs: dashboard.KPISet{TotalRevenue: 300}}}
	h := NewHandler(slog.New(slog.NewTextHandler(os.Stderr, nil)), svc)

	rec := httptest.NewRecorder()
	h.handleDashboard(rec, newRequest("/dashboard?period=today&driverId=3&vehicleId=all&companyId=", 7))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(7), svc.userID)
	require.Equal(t, period.Today, svc.filters.Period)
	require.NotNil(t, svc.filters.DriverID)
	require.Equal(t, int64(3), *svc.filters.DriverID)
	require.Nil(t, svc.filters.VehicleID, `"all" must mean unfiltered`)
	require.Nil(t, svc.filters.CompanyID)

	var body dashboard.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 300.0, body.KPIs.TotalRevenue)
}

func TestHandleDashboardRejectsBadDimension(t *testing.T) {
	svc := &stubService{}
	h := NewHandler(slog.New(slog.NewTextHandler(os.Stderr, nil)), svc)
	rec := httptest.NewRecorder()
	h.handleDashboard(rec, newRequest("/dashboard?driverId=abc", 7))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, svc.calls, "validation must fail before any fetch")
}
