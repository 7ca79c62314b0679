package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/licitaperu/tenders-api/internal/config"
	"github.com/licitaperu/tenders-api/internal/model"
	"github.com/licitaperu/tenders-api/internal/normalizer"
	"github.com/licitaperu/tenders-api/internal/repository"
)

type fakeTenderStore struct {
	total     int64
	items     []model.Tender
	lastLimit int
	lastPlan  *repository.Plan

	detail *model.TenderDetail
	getErr error

	departments []string
	provinces   []string
	districts   []string
	statuses    []string
	categories  []string
	years       []int
	buyers      []string
	guarantees  []string
	entities    []string

	lookupErr error
}

func (f *fakeTenderStore) Count(ctx context.Context, plan *repository.Plan) (int64, error) {
	f.lastPlan = plan
	return f.total, nil
}

func (f *fakeTenderStore) List(ctx context.Context, plan *repository.Plan, limit, offset int) ([]model.Tender, error) {
	f.lastLimit = limit
	return f.items, nil
}

func (f *fakeTenderStore) Get(ctx context.Context, id string) (*model.TenderDetail, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.detail, nil
}

func (f *fakeTenderStore) Create(ctx context.Context, tender model.Tender, awards []model.Award) error {
	f.detail = &model.TenderDetail{Tender: tender, Awards: awards}
	return nil
}

func (f *fakeTenderStore) Update(ctx context.Context, tender model.Tender, awards []model.Award, replaceAwards bool) error {
	return nil
}

func (f *fakeTenderStore) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeTenderStore) ListDepartments(ctx context.Context) ([]string, error) {
	return f.departments, f.lookupErr
}
func (f *fakeTenderStore) ListProvinces(ctx context.Context, department string) ([]string, error) {
	return f.provinces, f.lookupErr
}
func (f *fakeTenderStore) ListDistricts(ctx context.Context, department, province string) ([]string, error) {
	return f.districts, f.lookupErr
}
func (f *fakeTenderStore) ListStatuses(ctx context.Context) ([]string, error) {
	return f.statuses, f.lookupErr
}
func (f *fakeTenderStore) ListCategories(ctx context.Context) ([]string, error) {
	return f.categories, f.lookupErr
}
func (f *fakeTenderStore) ListYears(ctx context.Context) ([]int, error) {
	return f.years, f.lookupErr
}
func (f *fakeTenderStore) ListBuyers(ctx context.Context, limit int) ([]string, error) {
	return f.buyers, f.lookupErr
}
func (f *fakeTenderStore) ListGuaranteeTypes(ctx context.Context) ([]string, error) {
	return f.guarantees, f.lookupErr
}
func (f *fakeTenderStore) ListFinancialEntities(ctx context.Context) ([]string, error) {
	return f.entities, f.lookupErr
}

func newTenderService(store TenderStore) *TenderService {
	cfg := &config.Config{}
	cfg.Tenders.MaxPageSize = 100
	return NewTenderService(store, normalizer.New(normalizer.DefaultTable()), cfg)
}

func TestListClampsLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero falls back to default", 0, 20},
		{"negative falls back to default", -3, 20},
		{"within bounds passes through", 50, 50},
		{"above max is clamped", 5000, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeTenderStore{total: 1}
			svc := newTenderService(store)

			page, err := svc.List(context.Background(), model.TenderFilter{}, 1, tc.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if store.lastLimit != tc.want {
				t.Errorf("store saw limit %d, want %d", store.lastLimit, tc.want)
			}
			if page.Limit != tc.want {
				t.Errorf("page.Limit = %d, want %d", page.Limit, tc.want)
			}
		})
	}
}

func TestListNormalizesPageNumber(t *testing.T) {
	store := &fakeTenderStore{total: 45}
	svc := newTenderService(store)

	page, err := svc.List(context.Background(), model.TenderFilter{}, 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("page = %d, want 1", page.Page)
	}
	if page.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", page.TotalPages)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 100, 1},
		{101, 100, 2},
	}
	for _, tc := range cases {
		if got := totalPages(tc.total, tc.limit); got != tc.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestGetMapsRecordNotFound(t *testing.T) {
	store := &fakeTenderStore{getErr: gorm.ErrRecordNotFound}
	svc := newTenderService(store)

	_, err := svc.Get(context.Background(), "missing-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRejectsEmptyID(t *testing.T) {
	svc := newTenderService(&fakeTenderStore{})
	_, err := svc.Get(context.Background(), "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateAssignsIDAndOrigin(t *testing.T) {
	store := &fakeTenderStore{}
	svc := newTenderService(store)

	detail, err := svc.Create(context.Background(), model.Tender{Title: "Puente vecinal"}, []model.Award{
		{WinnerName: "CONSTRUCTORA ANDINA SAC"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID == "" {
		t.Error("expected a generated id")
	}
	if detail.Origin != model.OriginManual {
		t.Errorf("origin = %q, want %q", detail.Origin, model.OriginManual)
	}
	if len(detail.Awards) != 1 || detail.Awards[0].TenderID != detail.ID {
		t.Errorf("award not linked to tender: %+v", detail.Awards)
	}
	if detail.LastUpdated == nil {
		t.Error("expected last_updated to be stamped")
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := newTenderService(&fakeTenderStore{})
	_, err := svc.Create(context.Background(), model.Tender{Title: "  "}, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFilterOptionsFallsBackOnEmptyStore(t *testing.T) {
	svc := newTenderService(&fakeTenderStore{})

	opts, err := svc.FilterOptions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts.Departments) == 0 {
		t.Error("expected default departments on empty store")
	}
	if len(opts.Statuses) == 0 {
		t.Error("expected default statuses on empty store")
	}
	if len(opts.Years) != 1 {
		t.Errorf("expected current year as fallback, got %v", opts.Years)
	}
	if opts.Buyers == nil {
		t.Error("buyers must be an empty slice, not nil")
	}
	if len(opts.FinancialEntities) == 0 {
		t.Error("expected default financial entities on empty store")
	}
}

func TestFilterOptionsDegradesOnStorageError(t *testing.T) {
	store := &fakeTenderStore{lookupErr: errors.New("connection refused")}
	svc := newTenderService(store)

	opts, err := svc.FilterOptions(context.Background())
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable marker, got %v", err)
	}
	if opts == nil {
		t.Fatal("degraded options must still be returned")
	}
	if len(opts.Departments) == 0 || len(opts.Statuses) == 0 || len(opts.Categories) == 0 {
		t.Errorf("dimensions not served from defaults: %+v", opts)
	}
	if len(opts.Years) != 1 {
		t.Errorf("expected current-year fallback, got %v", opts.Years)
	}
	if opts.Buyers == nil {
		t.Error("buyers must be an empty slice, not nil")
	}
	if len(opts.GuaranteeTypes) == 0 || len(opts.FinancialEntities) == 0 {
		t.Errorf("award dimensions not served from defaults: %+v", opts)
	}
}

func TestFilterOptionsCanonicalizesEntities(t *testing.T) {
	store := &fakeTenderStore{entities: []string{
		"BANCO DE CREDITO DEL PERU",
		"BCP ",
		"SCOTIABANK PERU",
		"",
	}}
	svc := newTenderService(store)

	opts, err := svc.FilterOptions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"BCP", "SCOTIABANK"}
	if len(opts.FinancialEntities) != len(want) {
		t.Fatalf("entities = %v, want %v", opts.FinancialEntities, want)
	}
	for i := range want {
		if opts.FinancialEntities[i] != want[i] {
			t.Fatalf("entities = %v, want %v", opts.FinancialEntities, want)
		}
	}
}

func TestLocationsCascade(t *testing.T) {
	store := &fakeTenderStore{
		departments: []string{"LIMA", "CUSCO"},
		provinces:   []string{"HUAROCHIRI"},
		districts:   []string{"MATUCANA"},
	}
	svc := newTenderService(store)

	cases := []struct {
		name       string
		department string
		province   string
		want       string
	}{
		{"no args lists departments", "", "", "LIMA"},
		{"department lists provinces", "LIMA", "", "HUAROCHIRI"},
		{"both list districts", "LIMA", "HUAROCHIRI", "MATUCANA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values, err := svc.Locations(context.Background(), tc.department, tc.province)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(values) == 0 || values[0] != tc.want {
				t.Errorf("values = %v, want first %q", values, tc.want)
			}
		})
	}
}
