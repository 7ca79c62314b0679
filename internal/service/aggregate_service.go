package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/licitaperu/tenders-api/internal/model"
	"github.com/licitaperu/tenders-api/internal/normalizer"
	"github.com/licitaperu/tenders-api/internal/repository"
)

const dashboardTopN = 5

var monthNames = []string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}

// AggregateStore is the storage surface for rankings and dashboard stats.
type AggregateStore interface {
	EntityAwardRows(ctx context.Context, year int, department string) ([]model.EntityAwardRow, error)
	KPITotals(ctx context.Context, plan *repository.Plan) (float64, int64, error)
	TopDepartments(ctx context.Context, plan *repository.Plan, limit int) ([]model.DimensionStat, error)
	TopBuyers(ctx context.Context, plan *repository.Plan, limit int) ([]model.DimensionStat, error)
	CategoryDistribution(ctx context.Context, plan *repository.Plan) ([]model.DimensionStat, error)
	StatusDistribution(ctx context.Context, plan *repository.Plan) ([]model.DimensionStat, error)
	MonthlyTrend(ctx context.Context, year int) ([]model.MonthlyBucket, error)
}

type AggregateService struct {
	store AggregateStore
	norm  *normalizer.Normalizer
}

func NewAggregateService(store AggregateStore, norm *normalizer.Normalizer) *AggregateService {
	return &AggregateService{store: store, norm: norm}
}

// FinancialEntityRanking fetches raw grouped rows and re-groups them by
// canonical entity. Grouping must happen after normalization: "BCP" and
// "BANCO DE CREDITO DEL PERU" are one ranking entry, not two.
func (s *AggregateService) FinancialEntityRanking(ctx context.Context, year int, department string) ([]model.EntityRanking, error) {
	rows, err := s.store.EntityAwardRows(ctx, year, department)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return s.rankEntities(rows), nil
}

func (s *AggregateService) rankEntities(rows []model.EntityAwardRow) []model.EntityRanking {
	type bucket struct {
		count  int64
		amount float64
		depts  map[string]struct{}
	}
	buckets := make(map[string]*bucket)

	for _, row := range rows {
		name := s.norm.Normalize(row.Entity)
		if name == "" {
			continue
		}
		b, ok := buckets[name]
		if !ok {
			b = &bucket{depts: make(map[string]struct{})}
			buckets[name] = b
		}
		b.count += row.Count
		b.amount += row.Amount
		if row.Department != "" {
			b.depts[row.Department] = struct{}{}
		}
	}

	ranking := make([]model.EntityRanking, 0, len(buckets))
	for name, b := range buckets {
		ranking = append(ranking, model.EntityRanking{
			Name:      name,
			Count:     b.count,
			Amount:    b.amount,
			DeptCount: len(b.depts),
		})
	}

	// Count desc, then amount desc, then name asc so equal ranks are stable.
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		if ranking[i].Amount != ranking[j].Amount {
			return ranking[i].Amount > ranking[j].Amount
		}
		return ranking[i].Name < ranking[j].Name
	})
	return ranking
}

// KPIs builds the dashboard headline view under an optional filter subset.
func (s *AggregateService) KPIs(ctx context.Context, filter model.TenderFilter) (*model.DashboardKPIs, error) {
	plan := repository.BuildPlan(filter)

	totalAmount, totalTenders, err := s.store.KPITotals(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	topDepartments, err := s.store.TopDepartments(ctx, repository.BuildPlan(filter), dashboardTopN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	topBuyers, err := s.store.TopBuyers(ctx, repository.BuildPlan(filter), dashboardTopN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	categories, err := s.store.CategoryDistribution(ctx, repository.BuildPlan(filter))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	statuses, err := s.store.StatusDistribution(ctx, repository.BuildPlan(filter))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &model.DashboardKPIs{
		TotalEstimatedAmount: totalAmount,
		TotalTenders:         totalTenders,
		TopDepartments:       emptyStats(topDepartments),
		TopBuyers:            emptyStats(topBuyers),
		CategoryDistribution: emptyStats(categories),
		StatusDistribution:   emptyStats(statuses),
	}, nil
}

// MonthlyTrend always returns twelve buckets; months with no tenders are
// zero-filled so chart consumers need no gap handling.
func (s *AggregateService) MonthlyTrend(ctx context.Context, year int) ([]model.MonthlyBucket, error) {
	rows, err := s.store.MonthlyTrend(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	byMonth := make(map[int]model.MonthlyBucket, len(rows))
	for _, row := range rows {
		byMonth[row.Month] = row
	}

	buckets := make([]model.MonthlyBucket, 0, 12)
	for month := 1; month <= 12; month++ {
		bucket := model.MonthlyBucket{Month: month, Name: monthNames[month-1]}
		if row, ok := byMonth[month]; ok {
			bucket.Count = row.Count
			bucket.Amount = row.Amount
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

func emptyStats(stats []model.DimensionStat) []model.DimensionStat {
	if stats == nil {
		return []model.DimensionStat{}
	}
	return stats
}
