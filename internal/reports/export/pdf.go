package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gigledger/gigledger/internal/reports"
	"github.com/gigledger/gigledger/internal/shared"
)

// PDFExporter wraps Gotenberg interactions for report exports.
type PDFExporter struct {
	Endpoint string
	Client   *http.Client
}

// RenderReport builds the report HTML and converts it to PDF bytes via
// Gotenberg. The HTML layout carries a title block, a summary box and
// the per-type table with its TOTAL row; Gotenberg paginates and stamps
// the running page footer.
func (p *PDFExporter) RenderReport(ctx context.Context, data reports.ReportData) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	endpoint := strings.TrimRight(p.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("gotenberg endpoint required")
	}

	html, err := BuildReportHTML(data)
	if err != nil {
		return nil, err
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "report.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, err
	}
	footer, err := writer.CreateFormFile("files", "footer.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(footer, footerHTML); err != nil {
		return nil, err
	}
	if err := writer.WriteField("waitDelay", "500"); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

const footerHTML = `<html><body><div style="font-size:8px;text-align:center;width:100%"><span class="pageNumber"></span> / <span class="totalPages"></span></div></body></html>`

var reportTitles = map[reports.Type]string{
	reports.TypeExpenseBreakdown:   "Expense Breakdown",
	reports.TypeRevenueBreakdown:   "Revenue Breakdown",
	reports.TypeMonthlySummary:     "Monthly Summary",
	reports.TypeDRE:                "DRE",
	reports.TypeDriverPerformance:  "Driver Performance",
	reports.TypeVehiclePerformance: "Vehicle Performance",
}

// BuildReportHTML renders the report body. Exposed so tests can verify
// layout and totals without a Gotenberg instance.
func BuildReportHTML(data reports.ReportData) (string, error) {
	if !data.Type.Valid() {
		return "", fmt.Errorf("%w: %q", shared.ErrUnsupportedReportType, data.Type)
	}

	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;margin-bottom:16px;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{text-align:left;background:#f5f5f5;}.summary{border:1px solid #ccc;background:#fafafa;padding:12px;margin-bottom:24px;}.label{text-align:left;}tr.total td{font-weight:bold;background:#f0f0f0;}")
	b.WriteString("</style></head><body>")

	b.WriteString(fmt.Sprintf("<h1>%s</h1>", htmlEscape(reportTitles[data.Type])))
	b.WriteString(fmt.Sprintf("<p>%s – %s</p>", data.Start.Format(dateLayout), data.End.Format(dateLayout)))

	b.WriteString("<div class=\"summary\"><table><tbody>")
	writeSummaryRow(&b, "Total Revenue", formatMoney(data.Summary.TotalRevenue))
	writeSummaryRow(&b, "Total Expenses", formatMoney(data.Summary.TotalExpenses))
	writeSummaryRow(&b, "Net Profit", formatMoney(data.Summary.NetProfit))
	writeSummaryRow(&b, "Profit Margin", formatPercent(data.Summary.ProfitMargin))
	b.WriteString("</tbody></table></div>")

	switch data.Type {
	case reports.TypeExpenseBreakdown:
		writeItemTable(&b, "Expenses", expenseCells(data.Expenses), []string{"Date", "Description", "Category", "Driver", "Vehicle", "Amount"},
			[]string{totalLabel, "", "", "", "", formatMoney(data.Summary.TotalExpenses)})
	case reports.TypeRevenueBreakdown:
		writeItemTable(&b, "Revenues", revenueCells(data.Revenues), []string{"Date", "Description", "Company", "Driver", "Vehicle", "Amount"},
			[]string{totalLabel, "", "", "", "", formatMoney(data.Summary.TotalRevenue)})
	case reports.TypeMonthlySummary, reports.TypeDRE:
		writeItemTable(&b, "Revenues", revenueCells(data.Revenues), []string{"Date", "Description", "Company", "Driver", "Vehicle", "Amount"},
			[]string{totalLabel, "", "", "", "", formatMoney(data.Summary.TotalRevenue)})
		writeItemTable(&b, "Expenses", expenseCells(data.Expenses), []string{"Date", "Description", "Category", "Driver", "Vehicle", "Amount"},
			[]string{totalLabel, "", "", "", "", formatMoney(data.Summary.TotalExpenses)})
	case reports.TypeDriverPerformance:
		rows := make([][]string, 0, len(data.Drivers))
		trips := 0
		for _, d := range data.Drivers {
			trips += d.Trips
			rows = append(rows, []string{d.Name, strconv.Itoa(d.Trips), formatMoney(d.TotalRevenue), formatMoney(d.TotalExpenses), formatMoney(d.NetProfit), formatMoney(d.AvgRevenuePerTrip)})
		}
		writeItemTable(&b, "Drivers", rows, []string{"Driver", "Trips", "Revenue", "Expenses", "Net Profit", "Avg Revenue/Trip"},
			[]string{totalLabel, strconv.Itoa(trips), formatMoney(data.Summary.TotalRevenue), formatMoney(data.Summary.TotalExpenses), formatMoney(data.Summary.NetProfit), ""})
	case reports.TypeVehiclePerformance:
		rows := make([][]string, 0, len(data.Vehicles))
		var km float64
		for _, v := range data.Vehicles {
			km += v.KmDriven
			rows = append(rows, []string{v.Name, formatFloat(v.KmDriven), formatMoney(v.TotalRevenue), formatMoney(v.TotalExpenses), formatMoney(v.NetProfit)})
		}
		writeItemTable(&b, "Vehicles", rows, []string{"Vehicle", "Km Driven", "Revenue", "Expenses", "Net Profit"},
			[]string{totalLabel, formatFloat(km), formatMoney(data.Summary.TotalRevenue), formatMoney(data.Summary.TotalExpenses), formatMoney(data.Summary.NetProfit)})
	}

	b.WriteString("</body></html>")
	return b.String(), nil
}

func expenseCells(items []reports.ExpenseItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Date.Format(dateLayout), item.Description, item.Category, item.Driver, item.Vehicle, formatMoney(item.Amount)})
	}
	return rows
}

func revenueCells(items []reports.RevenueItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Date.Format(dateLayout), item.Description, item.Company, item.Driver, item.Vehicle, formatMoney(item.Amount)})
	}
	return rows
}

func writeSummaryRow(b *strings.Builder, label, value string) {
	b.WriteString("<tr><td class=\"label\">")
	b.WriteString(htmlEscape(label))
	b.WriteString("</td><td>")
	b.WriteString(htmlEscape(value))
	b.WriteString("</td></tr>")
}

func writeItemTable(b *strings.Builder, title string, rows [][]string, headers, total []string) {
	b.WriteString("<section><h2>")
	b.WriteString(htmlEscape(title))
	b.WriteString("</h2><table><thead><tr>")
	for _, header := range headers {
		b.WriteString("<th>")
		b.WriteString(htmlEscape(header))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for i, cell := range row {
			if i == 0 {
				b.WriteString("<td class=\"label\">")
			} else {
				b.WriteString("<td>")
			}
			b.WriteString(htmlEscape(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("<tr class=\"total\">")
	for _, cell := range total {
		b.WriteString("<td>")
		b.WriteString(htmlEscape(cell))
		b.WriteString("</td>")
	}
	b.WriteString("</tr></tbody></table></section>")
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&#39;",
)

func htmlEscape(v string) string {
	return htmlReplacer.Replace(v)
}
