package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/licitaperu/tenders-api/internal/config"
	"github.com/licitaperu/tenders-api/internal/model"
	"github.com/licitaperu/tenders-api/internal/normalizer"
	"github.com/licitaperu/tenders-api/internal/repository"
)

const defaultPageSize = 20

// buyerOptionLimit caps the buyer dropdown; the dimension is unbounded.
const buyerOptionLimit = 100

// TenderStore is the storage surface the tender service needs.
type TenderStore interface {
	Count(ctx context.Context, plan *repository.Plan) (int64, error)
	List(ctx context.Context, plan *repository.Plan, limit, offset int) ([]model.Tender, error)
	Get(ctx context.Context, id string) (*model.TenderDetail, error)
	Create(ctx context.Context, tender model.Tender, awards []model.Award) error
	Update(ctx context.Context, tender model.Tender, awards []model.Award, replaceAwards bool) error
	Delete(ctx context.Context, id string) error

	ListDepartments(ctx context.Context) ([]string, error)
	ListProvinces(ctx context.Context, department string) ([]string, error)
	ListDistricts(ctx context.Context, department, province string) ([]string, error)
	ListStatuses(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListYears(ctx context.Context) ([]int, error)
	ListBuyers(ctx context.Context, limit int) ([]string, error)
	ListGuaranteeTypes(ctx context.Context) ([]string, error)
	ListFinancialEntities(ctx context.Context) ([]string, error)
}

type TenderService struct {
	store       TenderStore
	norm        *normalizer.Normalizer
	maxPageSize int
}

func NewTenderService(store TenderStore, norm *normalizer.Normalizer, cfg *config.Config) *TenderService {
	return &TenderService{
		store:       store,
		norm:        norm,
		maxPageSize: cfg.Tenders.MaxPageSize,
	}
}

// List runs the count and page queries for a filter set. The page size is
// clamped server-side regardless of what the caller asked for.
func (s *TenderService) List(ctx context.Context, filter model.TenderFilter, page, limit int) (*model.TenderPage, error) {
	if page < 1 {
		page = 1
	}
	limit = s.ClampLimit(limit)

	plan := repository.BuildPlan(filter)

	total, err := s.store.Count(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	offset := (page - 1) * limit
	items, err := s.store.List(ctx, plan, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &model.TenderPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// ClampLimit applies the server-side page-size policy: out-of-range requests
// get the default, oversized requests get the documented ceiling.
func (s *TenderService) ClampLimit(limit int) int {
	if limit < 1 {
		return defaultPageSize
	}
	if limit > s.maxPageSize {
		return s.maxPageSize
	}
	return limit
}

func totalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (s *TenderService) Get(ctx context.Context, id string) (*model.TenderDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	detail, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return detail, nil
}

// Create inserts a manual tender. Ids are generated when absent; origin is
// always set here, never inferred later from the id's shape.
func (s *TenderService) Create(ctx context.Context, tender model.Tender, awards []model.Award) (*model.TenderDetail, error) {
	if strings.TrimSpace(tender.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if tender.ID == "" {
		tender.ID = uuid.NewString()
	}
	tender.Origin = model.OriginManual
	now := time.Now().UTC()
	tender.LastUpdated = &now

	for i := range awards {
		if awards[i].ID == "" {
			awards[i].ID = uuid.NewString()
		}
		awards[i].TenderID = tender.ID
	}

	if err := s.store.Create(ctx, tender, awards); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return s.Get(ctx, tender.ID)
}

// Update replaces the header and, when the caller supplies awards, the whole
// award set. The store runs delete-and-reinsert in one transaction.
func (s *TenderService) Update(ctx context.Context, id string, tender model.Tender, awards []model.Award, replaceAwards bool) (*model.TenderDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	tender.ID = id
	now := time.Now().UTC()
	tender.LastUpdated = &now

	if replaceAwards {
		for i := range awards {
			if awards[i].ID == "" {
				awards[i].ID = uuid.NewString()
			}
			awards[i].TenderID = id
		}
	}

	if err := s.store.Update(ctx, tender, awards, replaceAwards); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return s.Get(ctx, id)
}

func (s *TenderService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// FilterOptions assembles the dropdown values for every filterable dimension.
// Financial entities are canonicalized and deduplicated so the dropdown shows
// "BCP" once instead of every raw spelling. A dimension that comes back empty
// OR fails falls back to its static default list so the UI stays usable on an
// empty or unreachable store. The returned options are always complete; a
// non-nil error reports that at least one dimension was served from defaults.
func (s *TenderService) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	opts := &model.FilterOptions{}
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	}

	departments, err := s.store.ListDepartments(ctx)
	keep(err)
	opts.Departments = fallback(departments, defaultDepartments)

	statuses, err := s.store.ListStatuses(ctx)
	keep(err)
	opts.Statuses = fallback(statuses, defaultStatuses)

	categories, err := s.store.ListCategories(ctx)
	keep(err)
	opts.Categories = fallback(categories, defaultCategories)

	years, err := s.store.ListYears(ctx)
	keep(err)
	if len(years) == 0 {
		years = []int{time.Now().Year()}
	}
	opts.Years = years

	buyers, err := s.store.ListBuyers(ctx, buyerOptionLimit)
	keep(err)
	if buyers == nil {
		buyers = []string{}
	}
	opts.Buyers = buyers

	guaranteeTypes, err := s.store.ListGuaranteeTypes(ctx)
	keep(err)
	opts.GuaranteeTypes = fallback(guaranteeTypes, defaultGuaranteeTypes)

	rawEntities, err := s.store.ListFinancialEntities(ctx)
	keep(err)
	opts.FinancialEntities = s.canonicalEntityList(rawEntities)

	return opts, firstErr
}

func (s *TenderService) canonicalEntityList(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		canonical := s.norm.Normalize(value)
		if canonical == "" {
			continue
		}
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return defaultFinancialEntities()
	}
	return out
}

// Locations implements the cascading department → province → district lookup.
func (s *TenderService) Locations(ctx context.Context, department, province string) ([]string, error) {
	var (
		values []string
		err    error
	)
	switch {
	case strings.TrimSpace(department) == "":
		values, err = s.store.ListDepartments(ctx)
	case strings.TrimSpace(province) == "":
		values, err = s.store.ListProvinces(ctx, department)
	default:
		values, err = s.store.ListDistricts(ctx, department, province)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func fallback(values, defaults []string) []string {
	if len(values) > 0 {
		return values
	}
	return append([]string(nil), defaults...)
}
