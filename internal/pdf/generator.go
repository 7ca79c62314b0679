package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/licitaperu/tenders-api/internal/model"
	"github.com/licitaperu/tenders-api/internal/service"
)

// detailRowLimit keeps the PDF to a reviewable size; the full row set belongs
// in the CSV or Excel rendering.
const detailRowLimit = 100

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report service.ExportReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Tender Export Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated at: %s", report.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total records: %d", len(report.Rows)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	g.statsTable(pdf, "By status", report.StatusStats)
	g.statsTable(pdf, "By category", report.CategoryStats)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Detail (first %d records)", detailRowLimit), "", 1, "L", false, 0, "")

	headers := []string{"Title", "Buyer", "Status", "Department", "Amount"}
	widths := []float64{105, 75, 30, 30, 27}
	g.tableRow(pdf, headers, widths, true)

	rows := report.Rows
	if len(rows) > detailRowLimit {
		rows = rows[:detailRowLimit]
	}
	for _, row := range rows {
		g.tableRow(pdf, []string{
			truncate(row.Title, 60),
			truncate(row.Buyer, 42),
			truncate(row.ProcessStatus, 18),
			truncate(row.Department, 18),
			fmt.Sprintf("%.2f", row.EstimatedAmount),
		}, widths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) statsTable(pdf *gofpdf.Fpdf, title string, stats []model.DimensionStat) {
	if len(stats) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	widths := []float64{90, 30}
	g.tableRow(pdf, []string{"Value", "Count"}, widths, true)
	for _, stat := range stats {
		g.tableRow(pdf, []string{truncate(stat.Name, 52), fmt.Sprintf("%d", stat.Count)}, widths, false)
	}
	pdf.Ln(3)
}

func (g *Generator) tableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 8)
	for i, col := range cols {
		align := "L"
		if i == len(cols)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}
