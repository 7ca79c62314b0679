package repository

import (
	"strings"
	"testing"

	"github.com/licitaperu/tenders-api/internal/model"
)

// An award-level filter joins awards, which fans a tender out to one row per
// matching award. Aggregating header amounts over that fan-out would inflate
// every sum, so both query shapes must collapse to distinct tenders first.
func TestKPITotalsQuerySumsDistinctTenders(t *testing.T) {
	plan := BuildPlan(model.TenderFilter{FinancialEntity: "BCP"})
	query := kpiTotalsQuery(plan)

	if !strings.Contains(query, "SELECT DISTINCT t.id, t.estimated_amount") {
		t.Errorf("totals do not aggregate over a distinct-tender subquery:\n%s", query)
	}
	if strings.Contains(query, "SUM(t.estimated_amount)") {
		t.Errorf("totals sum the joined rows directly:\n%s", query)
	}
	if got := strings.Count(query, "JOIN awards"); got != 1 {
		t.Errorf("expected exactly 1 awards join, got %d:\n%s", got, query)
	}
}

func TestDimensionQuerySumsDistinctTenders(t *testing.T) {
	plan := BuildPlan(model.TenderFilter{GuaranteeType: "CARTA FIANZA"})
	query := dimensionQuery("t.department", plan, true)

	if !strings.Contains(query, "SELECT DISTINCT t.id, t.department AS name, t.estimated_amount") {
		t.Errorf("dimension buckets do not deduplicate tenders:\n%s", query)
	}
	if !strings.Contains(query, "GROUP BY s.name") {
		t.Errorf("grouping must happen on the deduplicated rows:\n%s", query)
	}
	if !strings.HasSuffix(query, "LIMIT ?") {
		t.Errorf("limited query lost its LIMIT placeholder:\n%s", query)
	}

	unlimited := dimensionQuery("t.buyer", plan, false)
	if strings.Contains(unlimited, "LIMIT") {
		t.Errorf("unlimited query carries a LIMIT:\n%s", unlimited)
	}
}
