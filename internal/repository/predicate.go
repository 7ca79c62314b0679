package repository

import (
	"strings"

	"github.com/licitaperu/tenders-api/internal/model"
)

// tenderSearchColumns and awardSearchColumns are the fixed field sets scanned
// by the free-text filter. Matching is case-insensitive substring containment,
// ORed across columns.
var tenderSearchColumns = []string{
	"t.id",
	"t.ocid",
	"t.title",
	"t.description",
	"t.buyer",
	"t.category",
	"t.procedure_type",
	"t.process_status",
	"t.department",
	"t.province",
	"t.district",
	"t.full_location",
	"t.currency",
	"t.source_file",
}

var awardSearchColumns = []string{
	"a.id",
	"a.contract_id",
	"a.winner_name",
	"a.winner_tax_id",
	"a.financial_entity",
	"a.guarantee_type",
	"a.item_status",
}

// Plan is the intermediate representation between a TenderFilter and an
// executable query: AND-combined clause fragments, their positional arguments,
// and whether the awards relation must be joined. The join flag is set once by
// the first award-level filter and reused by the rest; joining per filter
// would multiply rows and corrupt counts.
type Plan struct {
	clauses    []string
	args       []interface{}
	joinAwards bool
}

// BuildPlan translates the filter into a plan. Every value is bound as a
// placeholder argument, never spliced into the clause text. Empty-string and
// zero-valued filters are absent, not literal matches.
func BuildPlan(f model.TenderFilter) *Plan {
	p := &Plan{}

	if term := strings.TrimSpace(f.Search); term != "" {
		p.requireAwards()
		pattern := "%" + strings.ToUpper(term) + "%"
		columns := make([]string, 0, len(tenderSearchColumns)+len(awardSearchColumns))
		columns = append(columns, tenderSearchColumns...)
		columns = append(columns, awardSearchColumns...)
		parts := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			parts = append(parts, "UPPER("+col+") LIKE ?")
			args = append(args, pattern)
		}
		p.add("("+strings.Join(parts, " OR ")+")", args...)
	}

	if v := strings.TrimSpace(f.Status); v != "" {
		p.add("t.process_status = ?", v)
	}
	if v := strings.TrimSpace(f.Category); v != "" {
		p.add("t.category = ?", v)
	}
	if v := strings.TrimSpace(f.Buyer); v != "" {
		p.add("t.buyer = ?", v)
	}
	if v := strings.TrimSpace(f.ProcedureType); v != "" {
		p.add("t.procedure_type = ?", v)
	}
	if v := strings.TrimSpace(f.Origin); v != "" {
		p.add("t.origin = ?", strings.ToUpper(v))
	}

	// Stored location values are inconsistently cased, so equality is
	// normalized on both sides.
	if v := strings.TrimSpace(f.Department); v != "" {
		p.add("UPPER(TRIM(t.department)) = ?", strings.ToUpper(v))
	}
	if v := strings.TrimSpace(f.Province); v != "" {
		p.add("UPPER(TRIM(t.province)) = ?", strings.ToUpper(v))
	}
	if v := strings.TrimSpace(f.District); v != "" {
		p.add("UPPER(TRIM(t.district)) = ?", strings.ToUpper(v))
	}

	if f.Year > 0 {
		p.add("EXTRACT(YEAR FROM t.publication_date) = ?", f.Year)
	}
	if f.Month > 0 {
		p.add("EXTRACT(MONTH FROM t.publication_date) = ?", f.Month)
	}

	if v := strings.TrimSpace(f.WinnerTaxID); v != "" {
		p.requireAwards()
		p.add("a.winner_tax_id = ?", v)
	}
	if v := strings.TrimSpace(f.FinancialEntity); v != "" {
		p.requireAwards()
		p.add("UPPER(a.financial_entity) LIKE ?", "%"+strings.ToUpper(v)+"%")
	}
	if v := strings.TrimSpace(f.GuaranteeType); v != "" {
		p.requireAwards()
		p.add("UPPER(a.guarantee_type) LIKE ?", "%"+strings.ToUpper(v)+"%")
	}
	if f.AwardDateFrom != nil {
		p.requireAwards()
		p.add("a.award_date >= ?", *f.AwardDateFrom)
	}
	if f.AwardDateTo != nil {
		p.requireAwards()
		p.add("a.award_date <= ?", *f.AwardDateTo)
	}

	return p
}

func (p *Plan) add(clause string, args ...interface{}) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
}

func (p *Plan) requireAwards() {
	p.joinAwards = true
}

// RequiresAwards reports whether at least one filter reaches into award rows.
func (p *Plan) RequiresAwards() bool {
	return p.joinAwards
}

// Join returns the single awards join fragment, or "" when no filter needs it.
// A LEFT JOIN keeps tenders without awards visible to the free-text search.
func (p *Plan) Join() string {
	if !p.joinAwards {
		return ""
	}
	return " LEFT JOIN awards a ON a.tender_id = t.id"
}

// Where returns the AND-combined WHERE clause, or "" for an unfiltered plan.
func (p *Plan) Where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

// Args returns the bound arguments in clause order.
func (p *Plan) Args() []interface{} {
	return p.args
}
