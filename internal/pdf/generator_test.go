package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/licitaperu/tenders-api/internal/model"
	"github.com/licitaperu/tenders-api/internal/service"
)

func TestGenerateProducesPDF(t *testing.T) {
	report := service.ExportReport{
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Rows: []model.ExportRow{
			{Title: "Mejoramiento de camino vecinal", Buyer: "MUNICIPALIDAD DE HUARAZ", ProcessStatus: "Convocado", Department: "ANCASH", EstimatedAmount: 420000},
		},
		StatusStats: []model.DimensionStat{{Name: "Convocado", Count: 1}},
	}

	content, err := NewGenerator().Generate(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestGenerateCapsDetailRows(t *testing.T) {
	rows := make([]model.ExportRow, detailRowLimit+50)
	for i := range rows {
		rows[i] = model.ExportRow{Title: "Row", EstimatedAmount: float64(i)}
	}
	report := service.ExportReport{GeneratedAt: time.Now(), Rows: rows}

	content, err := NewGenerator().Generate(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("empty output")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a very long tender title that goes on", 12, "a very lo..."},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.max)
		if got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
		if len([]rune(got)) > tc.max && !strings.HasSuffix(got, "...") {
			t.Errorf("truncate(%q, %d) exceeded max without ellipsis", tc.in, tc.max)
		}
	}
}
