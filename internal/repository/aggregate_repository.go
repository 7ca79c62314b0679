package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/licitaperu/tenders-api/internal/model"
)

type AggregateRepository struct {
	db *gorm.DB
}

func NewAggregateRepository(db *gorm.DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

// EntityAwardRows returns award counts and amounts grouped by the raw stored
// entity string and department. Canonicalization cannot be pushed into the
// GROUP BY — the alias table lives in the process, not the database — so the
// service re-groups these rows after normalizing. Sentinel values written by
// the import pipeline for missing or failed lookups are excluded here.
func (r *AggregateRepository) EntityAwardRows(ctx context.Context, year int, department string) ([]model.EntityAwardRow, error) {
	query := `
		SELECT
			a.financial_entity AS entity,
			t.department,
			COUNT(*) AS count,
			COALESCE(SUM(a.awarded_amount), 0) AS amount
		FROM awards a
		JOIN tenders t ON t.id = a.tender_id
		WHERE a.financial_entity IS NOT NULL
			AND a.financial_entity != ''
			AND a.financial_entity != 'SIN_GARANTIA'
			AND a.financial_entity != 'ERROR_API_500'`
	var args []interface{}
	if year > 0 {
		query += ` AND EXTRACT(YEAR FROM t.publication_date) = ?`
		args = append(args, year)
	}
	if department != "" {
		query += ` AND UPPER(TRIM(t.department)) = ?`
		args = append(args, normalizeTerm(department))
	}
	query += `
		GROUP BY a.financial_entity, t.department
		ORDER BY amount DESC
		LIMIT 500`

	var rows []model.EntityAwardRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type kpiTotals struct {
	TotalAmount  float64
	TotalTenders int64
}

// kpiTotalsQuery sums over a distinct-tender subquery. Summing directly across
// plan.Join() would count a header amount once per matching award row.
func kpiTotalsQuery(plan *Plan) string {
	return `
		SELECT
			COALESCE(SUM(s.estimated_amount), 0) AS total_amount,
			COUNT(*) AS total_tenders
		FROM (
			SELECT DISTINCT t.id, t.estimated_amount
			FROM tenders t` + plan.Join() + plan.Where() + `
		) s`
}

// KPITotals returns the headline sum and distinct tender count under a plan.
func (r *AggregateRepository) KPITotals(ctx context.Context, plan *Plan) (float64, int64, error) {
	var totals kpiTotals
	if err := r.db.WithContext(ctx).Raw(kpiTotalsQuery(plan), plan.Args()...).Scan(&totals).Error; err != nil {
		return 0, 0, err
	}
	return totals.TotalAmount, totals.TotalTenders, nil
}

// dimensionQuery buckets tenders by one of a fixed set of header columns,
// deduplicating through the same distinct-tender subquery as the KPI totals.
// The column comes from an internal whitelist, never caller input.
func dimensionQuery(column string, plan *Plan, limited bool) string {
	query := `
		SELECT
			s.name,
			COUNT(*) AS count,
			COALESCE(SUM(s.estimated_amount), 0) AS amount
		FROM (
			SELECT DISTINCT t.id, ` + column + ` AS name, t.estimated_amount
			FROM tenders t` + plan.Join() + plan.Where() + `
		) s
		WHERE s.name IS NOT NULL AND s.name != ''
		GROUP BY s.name
		ORDER BY count DESC`
	if limited {
		query += ` LIMIT ?`
	}
	return query
}

func (r *AggregateRepository) groupByColumn(ctx context.Context, column string, plan *Plan, limit int) ([]model.DimensionStat, error) {
	args := plan.Args()
	if limit > 0 {
		args = append(append([]interface{}{}, args...), limit)
	}

	var rows []model.DimensionStat
	if err := r.db.WithContext(ctx).Raw(dimensionQuery(column, plan, limit > 0), args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AggregateRepository) TopDepartments(ctx context.Context, plan *Plan, limit int) ([]model.DimensionStat, error) {
	return r.groupByColumn(ctx, "t.department", plan, limit)
}

func (r *AggregateRepository) TopBuyers(ctx context.Context, plan *Plan, limit int) ([]model.DimensionStat, error) {
	return r.groupByColumn(ctx, "t.buyer", plan, limit)
}

func (r *AggregateRepository) CategoryDistribution(ctx context.Context, plan *Plan) ([]model.DimensionStat, error) {
	return r.groupByColumn(ctx, "t.category", plan, 0)
}

func (r *AggregateRepository) StatusDistribution(ctx context.Context, plan *Plan) ([]model.DimensionStat, error) {
	return r.groupByColumn(ctx, "t.process_status", plan, 0)
}

// MonthlyTrend returns per-month counts and amounts; year=0 sums every January
// together, every February together, and so on across all years.
func (r *AggregateRepository) MonthlyTrend(ctx context.Context, year int) ([]model.MonthlyBucket, error) {
	query := `
		SELECT
			EXTRACT(MONTH FROM publication_date)::int AS month,
			COUNT(*) AS count,
			COALESCE(SUM(estimated_amount), 0) AS amount
		FROM tenders
		WHERE publication_date IS NOT NULL`
	var args []interface{}
	if year > 0 {
		query += ` AND EXTRACT(YEAR FROM publication_date) = ?`
		args = append(args, year)
	}
	query += `
		GROUP BY EXTRACT(MONTH FROM publication_date)
		ORDER BY month`

	var rows []model.MonthlyBucket
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
