package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/licitaperu/tenders-api/internal/model"
)

func TestBuildPlanEmptyFilter(t *testing.T) {
	p := BuildPlan(model.TenderFilter{})
	if p.Where() != "" {
		t.Errorf("empty filter produced WHERE clause %q", p.Where())
	}
	if p.Join() != "" {
		t.Errorf("empty filter produced join %q", p.Join())
	}
	if len(p.Args()) != 0 {
		t.Errorf("empty filter bound %d args", len(p.Args()))
	}
}

func TestBuildPlanEmptyStringsAreAbsent(t *testing.T) {
	p := BuildPlan(model.TenderFilter{
		Status:     "   ",
		Department: "",
		Search:     " ",
	})
	if p.Where() != "" {
		t.Errorf("blank filter values produced WHERE clause %q", p.Where())
	}
}

func TestBuildPlanJoinOnce(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	// Every award-level filter at once must still produce exactly one join.
	p := BuildPlan(model.TenderFilter{
		Search:          "hospital",
		WinnerTaxID:     "20100047218",
		FinancialEntity: "BCP",
		GuaranteeType:   "CARTA FIANZA",
		AwardDateFrom:   &from,
		AwardDateTo:     &to,
	})

	if !p.RequiresAwards() {
		t.Fatal("award-level filters did not require the awards join")
	}
	if got := strings.Count(p.Join(), "JOIN awards"); got != 1 {
		t.Errorf("expected exactly 1 awards join, got %d in %q", got, p.Join())
	}
}

func TestBuildPlanHeaderFiltersDoNotJoin(t *testing.T) {
	p := BuildPlan(model.TenderFilter{
		Status:     "Convocado",
		Category:   "Obra",
		Department: "LIMA",
		Year:       2024,
	})
	if p.RequiresAwards() {
		t.Error("header-only filters must not require the awards join")
	}
}

func TestBuildPlanPlaceholdersMatchArgs(t *testing.T) {
	from := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	p := BuildPlan(model.TenderFilter{
		Search:          "puente",
		Status:          "Adjudicado",
		Category:        "Obra",
		Department:      "CUSCO",
		Province:        "CUSCO",
		District:        "WANCHAQ",
		Buyer:           "GOBIERNO REGIONAL CUSCO",
		Origin:          "etl",
		Year:            2023,
		Month:           6,
		WinnerTaxID:     "20600123456",
		FinancialEntity: "MAPFRE",
		GuaranteeType:   "POLIZA",
		AwardDateFrom:   &from,
	})

	placeholders := strings.Count(p.Where(), "?")
	if placeholders != len(p.Args()) {
		t.Errorf("placeholder count %d != arg count %d", placeholders, len(p.Args()))
	}
	if placeholders == 0 {
		t.Fatal("expected a populated plan")
	}
	// No filter value may appear literally in the clause text.
	for _, literal := range []string{"puente", "CUSCO", "20600123456", "MAPFRE"} {
		if strings.Contains(p.Where(), literal) {
			t.Errorf("filter value %q interpolated into clause %q", literal, p.Where())
		}
	}
}

func TestBuildPlanLocationNormalization(t *testing.T) {
	p := BuildPlan(model.TenderFilter{Department: "  lima "})
	if !strings.Contains(p.Where(), "UPPER(TRIM(t.department)) = ?") {
		t.Errorf("department clause not upper-trim normalized: %q", p.Where())
	}
	if len(p.Args()) != 1 || p.Args()[0] != "LIMA" {
		t.Errorf("department argument not upper-trimmed: %#v", p.Args())
	}
}

func TestBuildPlanYearMonthExtract(t *testing.T) {
	p := BuildPlan(model.TenderFilter{Year: 2024, Month: 3})
	where := p.Where()
	if !strings.Contains(where, "EXTRACT(YEAR FROM t.publication_date) = ?") {
		t.Errorf("year filter missing EXTRACT clause: %q", where)
	}
	if !strings.Contains(where, "EXTRACT(MONTH FROM t.publication_date) = ?") {
		t.Errorf("month filter missing EXTRACT clause: %q", where)
	}
}

func TestBuildPlanSearchSpansBothRelations(t *testing.T) {
	p := BuildPlan(model.TenderFilter{Search: "municipalidad"})
	where := p.Where()
	for _, col := range []string{"t.title", "t.buyer", "t.description", "a.winner_name", "a.financial_entity"} {
		if !strings.Contains(where, "UPPER("+col+") LIKE ?") {
			t.Errorf("search clause missing column %s: %q", col, where)
		}
	}
	if !p.RequiresAwards() {
		t.Error("free-text search must require the awards join")
	}
	// OR within the search group, AND against other criteria.
	p2 := BuildPlan(model.TenderFilter{Search: "municipalidad", Status: "Convocado"})
	if !strings.Contains(p2.Where(), ") AND ") {
		t.Errorf("search group not ANDed with other filters: %q", p2.Where())
	}
}
