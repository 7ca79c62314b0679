package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/licitaperu/tenders-api/internal/model"
	"github.com/licitaperu/tenders-api/internal/repository"
)

// exportRowLimit bounds filter-driven exports; an id-driven export is already
// bounded by the selection.
const exportRowLimit = 10000

type ExportStore interface {
	ListForExport(ctx context.Context, plan *repository.Plan, limit int) ([]model.ExportRow, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.ExportRow, error)
}

// ExportReport is the assembled input for the file generators: raw rows plus
// the summary distributions shown on the cover sheet.
type ExportReport struct {
	GeneratedAt   time.Time
	Rows          []model.ExportRow
	StatusStats   []model.DimensionStat
	CategoryStats []model.DimensionStat
	DeptStats     []model.DimensionStat
}

type ExcelGenerator interface {
	Generate(report ExportReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report ExportReport) ([]byte, error)
}

type ExportService struct {
	store ExportStore
	excel ExcelGenerator
	pdf   PDFGenerator
}

func NewExportService(store ExportStore, excel ExcelGenerator, pdf PDFGenerator) *ExportService {
	return &ExportService{store: store, excel: excel, pdf: pdf}
}

// Export validates the request, fetches the selection, and renders it in the
// requested format.
func (s *ExportService) Export(ctx context.Context, req model.ExportRequest) (*model.ExportFile, error) {
	if err := validateExportRequest(req); err != nil {
		return nil, err
	}

	var (
		rows []model.ExportRow
		err  error
	)
	if req.AllMatches {
		rows, err = s.store.ListForExport(ctx, repository.BuildPlan(req.Filters), exportRowLimit)
	} else {
		rows, err = s.store.ListByIDs(ctx, req.IDs)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no matching records to export", ErrNotFound)
	}

	report := buildExportReport(rows, time.Now())
	fileName := "tenders-export-" + report.GeneratedAt.Format("20060102-150405")

	switch req.Format {
	case model.ExportCSV:
		content, err := renderCSV(report)
		if err != nil {
			return nil, err
		}
		return &model.ExportFile{
			FileName:    fileName + ".csv",
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case model.ExportExcel:
		content, err := s.excel.Generate(report)
		if err != nil {
			return nil, err
		}
		return &model.ExportFile{
			FileName:    fileName + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	case model.ExportPDF:
		content, err := s.pdf.Generate(report)
		if err != nil {
			return nil, err
		}
		return &model.ExportFile{
			FileName:    fileName + ".pdf",
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, req.Format)
	}
}

func validateExportRequest(req model.ExportRequest) error {
	switch req.Format {
	case model.ExportCSV, model.ExportExcel, model.ExportPDF:
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, req.Format)
	}
	if !req.AllMatches && len(req.IDs) == 0 {
		return fmt.Errorf("%w: either ids or all_matches must be provided", ErrInvalidInput)
	}
	return nil
}

func buildExportReport(rows []model.ExportRow, now time.Time) ExportReport {
	return ExportReport{
		GeneratedAt:   now.UTC(),
		Rows:          rows,
		StatusStats:   countBy(rows, func(r model.ExportRow) string { return r.ProcessStatus }, 0),
		CategoryStats: countBy(rows, func(r model.ExportRow) string { return r.Category }, 0),
		DeptStats:     countBy(rows, func(r model.ExportRow) string { return r.Department }, 10),
	}
}

func countBy(rows []model.ExportRow, key func(model.ExportRow) string, top int) []model.DimensionStat {
	counts := make(map[string]int64)
	for _, row := range rows {
		if k := key(row); k != "" {
			counts[k]++
		}
	}
	stats := make([]model.DimensionStat, 0, len(counts))
	for name, count := range counts {
		stats = append(stats, model.DimensionStat{Name: name, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	if top > 0 && len(stats) > top {
		stats = stats[:top]
	}
	return stats
}

var exportHeader = []string{
	"ID", "Title", "Buyer", "Category", "Estimated Amount", "Publication Date",
	"Status", "Department", "Province", "District", "Guarantee Types",
	"Financial Entities",
}

func renderCSV(report ExportReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range report.Rows {
		record := []string{
			row.ID,
			row.Title,
			row.Buyer,
			row.Category,
			strconv.FormatFloat(row.EstimatedAmount, 'f', 2, 64),
			formatExportDate(row.PublicationDate),
			row.ProcessStatus,
			row.Department,
			row.Province,
			row.District,
			row.GuaranteeTypes,
			row.FinancialEntities,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatExportDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
