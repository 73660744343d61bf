package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gigledger/gigledger/internal/dashboard"
	"github.com/gigledger/gigledger/internal/reports"
	"github.com/gigledger/gigledger/internal/shared"
)

// Format identifies an export serialization.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// Request describes one export invocation.
type Request struct {
	Type    reports.Type
	Format  Format
	Start   time.Time
	End     time.Time
	Filters dashboard.Filters
}

// Artifact is the produced downloadable file.
type Artifact struct {
	Data     []byte
	Filename string
	MIMEType string
}

// ReportSource resolves the normalized report data.
type ReportSource interface {
	Fetch(ctx context.Context, userID int64, t reports.Type, start, end time.Time, f dashboard.Filters) (reports.ReportData, error)
}

// PlanGate checks and records export quota usage.
type PlanGate interface {
	CheckExportAllowed(ctx context.Context, userID int64) error
	RecordExport(ctx context.Context, userID int64, reportType, format string) error
}

// PDFRenderer converts report data into PDF bytes.
type PDFRenderer interface {
	RenderReport(ctx context.Context, data reports.ReportData) ([]byte, error)
}

// Exporter orchestrates plan gating, report fetching and generation.
type Exporter struct {
	source ReportSource
	gate   PlanGate
	pdf    PDFRenderer
}

// NewExporter constructs an Exporter.
func NewExporter(source ReportSource, gate PlanGate, pdf PDFRenderer) *Exporter {
	return &Exporter{source: source, gate: gate, pdf: pdf}
}

// Export validates the request, checks the plan quota, fetches report
// data and serialises it. Validation and gating run before any
// generation work; usage is recorded only after a successful export.
func (e *Exporter) Export(ctx context.Context, userID int64, req Request) (Artifact, error) {
	if !req.Type.Valid() {
		return Artifact{}, fmt.Errorf("%w: %q", shared.ErrUnsupportedReportType, req.Type)
	}
	mimeType, ext, err := formatMeta(req.Format)
	if err != nil {
		return Artifact{}, err
	}
	if e.gate != nil {
		if err := e.gate.CheckExportAllowed(ctx, userID); err != nil {
			return Artifact{}, err
		}
	}

	data, err := e.source.Fetch(ctx, userID, req.Type, req.Start, req.End, req.Filters)
	if err != nil {
		return Artifact{}, err
	}

	var payload []byte
	switch req.Format {
	case FormatCSV:
		var buf bytes.Buffer
		if err := WriteReportCSV(&buf, data); err != nil {
			return Artifact{}, err
		}
		payload = buf.Bytes()
	case FormatExcel:
		var buf bytes.Buffer
		if err := WriteReportExcel(&buf, data); err != nil {
			return Artifact{}, err
		}
		payload = buf.Bytes()
	case FormatPDF:
		if e.pdf == nil {
			return Artifact{}, fmt.Errorf("pdf renderer not configured")
		}
		payload, err = e.pdf.RenderReport(ctx, data)
		if err != nil {
			return Artifact{}, err
		}
	}

	if e.gate != nil {
		if err := e.gate.RecordExport(ctx, userID, string(req.Type), string(req.Format)); err != nil {
			return Artifact{}, err
		}
	}

	filename := fmt.Sprintf("%s-%s.%s", strings.ToLower(string(req.Type)), uuid.NewString(), ext)
	return Artifact{Data: payload, Filename: filename, MIMEType: mimeType}, nil
}

func formatMeta(f Format) (mimeType, ext string, err error) {
	switch f {
	case FormatCSV:
		return MIMETypeCSV, "csv", nil
	case FormatPDF:
		return MIMETypePDF, "pdf", nil
	case FormatExcel:
		return MIMETypeExcel, "xlsx", nil
	default:
		return "", "", fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, f)
	}
}
