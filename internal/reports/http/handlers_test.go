package reportshttp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gigledger/gigledger/internal/dashboard"
	"github.com/gigledger/gigledger/internal/reports"
	"github.com/gigledger/gigledger/internal/reports/export"
	"github.com/gigledger/gigledger/internal/shared"
)

type stubReports struct {
	data     reports.ReportData
	lastType reports.Type
	start    time.Time
	end      time.Time
}

func (s *stubReports) Fetch(ctx context.Context, userID int64, t reports.Type, start, end time.Time, f dashboard.Filters) (reports.ReportData, error) {
	s.lastType, s.start, s.end = t, start, end
	return s.data, nil
}

type stubExporter struct {
	artifact export.Artifact
	err      error
	calls    int
	lastReq  export.Request
}

func (s *stubExporter) Export(ctx context.Context, userID int64, req export.Request) (export.Artifact, error) {
	s.calls++
	s.lastReq = req
	return s.artifact, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func authed(r *http.Request) *http.Request {
	return r.WithContext(shared.ContextWithUserID(r.Context(), 7))
}

func TestHandleReportParsesInclusiveRange(t *testing.T) {
	svc := &stubReports{}
	h := NewHandler(testLogger(), svc, &stubExporter{})

	rec := httptest.NewRecorder()
	r := authed(httptest.NewRequest(http.MethodGet, "/reports?reportType=DRE&startDate=2025-03-01&endDate=2025-03-31", nil))
	h.handleReport(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, reports.TypeDRE, svc.lastType)
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), svc.start)
	require.Equal(t, 31, svc.end.Day())
	require.Equal(t, 23, svc.end.Hour(), "end boundary must cover the whole last day")
}

func TestHandleReportRejectsMissingParams(t *testing.T) {
	h := NewHandler(testLogger(), &stubReports{}, &stubExporter{})
	rec := httptest.NewRecorder()
	h.handleReport(rec, authed(httptest.NewRequest(http.MethodGet, "/reports?reportType=DRE", nil)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExportReturnsBase64Envelope(t *testing.T) {
	exporter := &stubExporter{artifact: export.Artifact{
		Data:     []byte("a,b\n1,2\n"),
		Filename: "dre-abc.csv",
		MIMEType: export.MIMETypeCSV,
	}}
	h := NewHandler(testLogger(), &stubReports{}, exporter)

	body := strings.NewReader(`{"reportType":"DRE","format":"csv","startDate":"2025-03-01","endDate":"2025-03-31","driverId":"all"}`)
	r := authed(httptest.NewRequest(http.MethodPost, "/reports/export", body))
	rec := httptest.NewRecorder()
	h.handleExport(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp exportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "dre-abc.csv", resp.Filename)
	require.Equal(t, export.MIMETypeCSV, resp.MIMEType)
	decoded, err := base64.StdEncoding.DecodeString(resp.Data)
	require.NoError(t, err)
	require.Equal(t, "a,b\n1,2\n", string(decoded))
	require.Nil(t, exporter.lastReq.Filters.DriverID)
}

func TestHandleExportRejectsUnknownFormat(t *testing.T) {
	exporter := &stubExporter{}
	h := NewHandler(testLogger(), &stubReports{}, exporter)

	body := strings.NewReader(`{"reportType":"DRE","format":"docx","startDate":"2025-03-01","endDate":"2025-03-31"}`)
	rec := httptest.NewRecorder()
	h.handleExport(rec, authed(httptest.NewRequest(http.MethodPost, "/reports/export", body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, exporter.calls, "validation must run before export")
}

func TestHandleExportMapsLimitError(t *testing.T) {
	exporter := &stubExporter{err: shared.ErrExportLimitExceeded}
	h := NewHandler(testLogger(), &stubReports{}, exporter)

	body := strings.NewReader(`{"reportType":"DRE","format":"csv","startDate":"2025-03-01","endDate":"2025-03-31"}`)
	rec := httptest.NewRecorder()
	h.handleExport(rec, authed(httptest.NewRequest(http.MethodPost, "/reports/export", body)))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlersRequireAuth(t *testing.T) {
	h := NewHandler(testLogger(), &stubReports{}, &stubExporter{})

	rec := httptest.NewRecorder()
	h.handleReport(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.handleExport(rec, httptest.NewRequest(http.MethodPost, "/reports/export", strings.NewReader("{}")))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
