package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/licitaperu/tenders-api/internal/model"
	"github.com/licitaperu/tenders-api/internal/repository"
)

type fakeExportStore struct {
	rows       []model.ExportRow
	byIDs      []model.ExportRow
	lastIDs    []string
	usedFilter bool
}

func (f *fakeExportStore) ListForExport(ctx context.Context, plan *repository.Plan, limit int) ([]model.ExportRow, error) {
	f.usedFilter = true
	return f.rows, nil
}

func (f *fakeExportStore) ListByIDs(ctx context.Context, ids []string) ([]model.ExportRow, error) {
	f.lastIDs = ids
	return f.byIDs, nil
}

type staticGenerator struct {
	content []byte
}

func (g staticGenerator) Generate(report ExportReport) ([]byte, error) {
	return g.content, nil
}

func TestValidateExportRequest(t *testing.T) {
	cases := []struct {
		name    string
		req     model.ExportRequest
		wantErr bool
	}{
		{"csv with ids", model.ExportRequest{Format: model.ExportCSV, IDs: []string{"a"}}, false},
		{"excel with all matches", model.ExportRequest{Format: model.ExportExcel, AllMatches: true}, false},
		{"pdf with all matches", model.ExportRequest{Format: model.ExportPDF, AllMatches: true}, false},
		{"no ids and no all matches", model.ExportRequest{Format: model.ExportCSV}, true},
		{"unknown format", model.ExportRequest{Format: "docx", AllMatches: true}, true},
		{"empty format", model.ExportRequest{AllMatches: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateExportRequest(tc.req)
			if tc.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestExportSelectsByIDsWhenNotAllMatches(t *testing.T) {
	store := &fakeExportStore{byIDs: []model.ExportRow{{ID: "t1", Title: "Obra vial"}}}
	svc := NewExportService(store, staticGenerator{}, staticGenerator{})

	file, err := svc.Export(context.Background(), model.ExportRequest{
		Format: model.ExportCSV,
		IDs:    []string{"t1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.usedFilter {
		t.Error("id-driven export must not run the filter query")
	}
	if len(store.lastIDs) != 1 || store.lastIDs[0] != "t1" {
		t.Errorf("store saw ids %v", store.lastIDs)
	}
	if !strings.HasSuffix(file.FileName, ".csv") {
		t.Errorf("file name = %q", file.FileName)
	}
	if file.ContentType != "text/csv" {
		t.Errorf("content type = %q", file.ContentType)
	}
}

func TestExportEmptySelectionIsNotFound(t *testing.T) {
	svc := NewExportService(&fakeExportStore{}, staticGenerator{}, staticGenerator{})

	_, err := svc.Export(context.Background(), model.ExportRequest{
		Format:     model.ExportCSV,
		AllMatches: true,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRenderCSV(t *testing.T) {
	pub := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	report := ExportReport{
		GeneratedAt: time.Now(),
		Rows: []model.ExportRow{
			{
				ID:                "t1",
				Title:             "Servicio de limpieza, sede central",
				Buyer:             "MINISTERIO DE SALUD",
				Category:          "Servicio",
				EstimatedAmount:   120500.5,
				PublicationDate:   &pub,
				ProcessStatus:     "Adjudicado",
				Department:        "LIMA",
				GuaranteeTypes:    "Fiel Cumplimiento",
				FinancialEntities: "BCP",
			},
		},
	}

	content, err := renderCSV(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,Title,Buyer") {
		t.Errorf("header = %q", lines[0])
	}
	// The comma inside the title must be quoted, not split into columns.
	if !strings.Contains(lines[1], `"Servicio de limpieza, sede central"`) {
		t.Errorf("row = %q", lines[1])
	}
	if !strings.Contains(lines[1], "120500.50") {
		t.Errorf("amount not formatted with two decimals: %q", lines[1])
	}
	if !strings.Contains(lines[1], "2024-05-17") {
		t.Errorf("publication date missing: %q", lines[1])
	}
}

func TestCountBy(t *testing.T) {
	rows := []model.ExportRow{
		{ProcessStatus: "Adjudicado"},
		{ProcessStatus: "Adjudicado"},
		{ProcessStatus: "Convocado"},
		{ProcessStatus: ""},
		{ProcessStatus: "Desierto"},
	}

	stats := countBy(rows, func(r model.ExportRow) string { return r.ProcessStatus }, 0)
	if len(stats) != 3 {
		t.Fatalf("expected 3 buckets (empty excluded), got %d", len(stats))
	}
	if stats[0].Name != "Adjudicado" || stats[0].Count != 2 {
		t.Errorf("top bucket = %+v", stats[0])
	}
	// Equal counts order alphabetically.
	if stats[1].Name != "Convocado" || stats[2].Name != "Desierto" {
		t.Errorf("tie order = %q, %q", stats[1].Name, stats[2].Name)
	}

	top := countBy(rows, func(r model.ExportRow) string { return r.ProcessStatus }, 1)
	if len(top) != 1 {
		t.Errorf("top=1 returned %d buckets", len(top))
	}
}
