package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/licitaperu/tenders-api/internal/model"
	"github.com/licitaperu/tenders-api/internal/service"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a two-sheet workbook: a summary sheet with the status,
// category, and department distributions, and a detail sheet with one row per
// exported tender.
func (g *Generator) Generate(report service.ExportReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	detailSheet := "Tenders"
	if _, err := file.NewSheet(detailSheet); err != nil {
		return nil, err
	}
	if err := g.writeDetail(file, detailSheet, report.Rows); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report service.ExportReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Generated at")
	set("B1", report.GeneratedAt.Format("2006-01-02 15:04"))
	set("A2", "Total tenders")
	set("B2", len(report.Rows))

	row := 4
	row = g.writeStatsBlock(file, sheet, row, "Status", report.StatusStats, true)
	row = g.writeStatsBlock(file, sheet, row, "Category", report.CategoryStats, false)
	g.writeStatsBlock(file, sheet, row, "Department (top 10)", report.DeptStats, false)

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "C", 14)
	return nil
}

func (g *Generator) writeStatsBlock(file *excelize.File, sheet string, startRow int, label string, stats []model.DimensionStat, withShare bool) int {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	total := int64(0)
	for _, stat := range stats {
		total += stat.Count
	}

	set(fmt.Sprintf("A%d", startRow), label)
	set(fmt.Sprintf("B%d", startRow), "Count")
	if withShare {
		set(fmt.Sprintf("C%d", startRow), "Share")
	}
	for i, stat := range stats {
		row := startRow + 1 + i
		set(fmt.Sprintf("A%d", row), stat.Name)
		set(fmt.Sprintf("B%d", row), stat.Count)
		if withShare && total > 0 {
			set(fmt.Sprintf("C%d", row), fmt.Sprintf("%.1f%%", float64(stat.Count)/float64(total)*100))
		}
	}
	return startRow + len(stats) + 3
}

var detailHeaders = []string{
	"ID", "Title", "Buyer", "Category", "Estimated Amount", "Publication Date",
	"Status", "Department", "Province", "District", "Guarantee Types",
	"Financial Entities",
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, rows []model.ExportRow) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	for i, header := range detailHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, row := range rows {
		values := []interface{}{
			row.ID,
			row.Title,
			row.Buyer,
			row.Category,
			row.EstimatedAmount,
			formatDate(row.PublicationDate),
			row.ProcessStatus,
			row.Department,
			row.Province,
			row.District,
			row.GuaranteeTypes,
			row.FinancialEntities,
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			set(cell, value)
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "C", 48)
	_ = file.SetColWidth(sheet, "D", "L", 18)
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
