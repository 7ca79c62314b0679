package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/licitaperu/tenders-api/internal/model"
)

const tenderColumns = `
	t.id,
	t.ocid,
	t.title,
	t.description,
	t.buyer,
	t.category,
	t.procedure_type,
	t.estimated_amount,
	t.currency,
	t.publication_date,
	t.process_status,
	t.full_location,
	t.department,
	t.province,
	t.district,
	t.origin,
	t.source_file,
	t.last_updated`

// tenderListOrder sorts newest publication first. Publication dates are
// day-granular and heavily tied, so the primary key breaks ties; without it
// OFFSET paging may duplicate or drop rows that straddle a page boundary.
const tenderListOrder = `
		ORDER BY t.publication_date DESC NULLS LAST, t.id DESC`

type TenderRepository struct {
	db *gorm.DB
}

func NewTenderRepository(db *gorm.DB) *TenderRepository {
	return &TenderRepository{db: db}
}

// Count returns the number of distinct tenders matching the plan. Distinctness
// over the primary key matters once the awards join is present: a tender with
// three matching awards is still one result.
func (r *TenderRepository) Count(ctx context.Context, plan *Plan) (int64, error) {
	query := `SELECT COUNT(DISTINCT t.id) FROM tenders t` + plan.Join() + plan.Where()

	var total int64
	if err := r.db.WithContext(ctx).Raw(query, plan.Args()...).Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// List returns one page of matching tenders, newest publication first.
func (r *TenderRepository) List(ctx context.Context, plan *Plan, limit, offset int) ([]model.Tender, error) {
	query := `SELECT DISTINCT` + tenderColumns + `
		FROM tenders t` + plan.Join() + plan.Where() + tenderListOrder + `
		LIMIT ? OFFSET ?`
	args := append(append([]interface{}{}, plan.Args()...), limit, offset)

	var items []model.Tender
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Tender{}
	}
	return items, nil
}

// Get returns the full detail view: header, awards, and consortium members
// for any award that carries a contract id.
func (r *TenderRepository) Get(ctx context.Context, id string) (*model.TenderDetail, error) {
	var tender model.Tender
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+tenderColumns+`
		FROM tenders t
		WHERE t.id = ?
		LIMIT 1
	`, id).Scan(&tender).Error
	if err != nil {
		return nil, err
	}
	if tender.ID == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var awards []model.Award
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tender_id,
			contract_id,
			winner_name,
			winner_tax_id,
			awarded_amount,
			award_date,
			item_status,
			financial_entity,
			guarantee_type
		FROM awards
		WHERE tender_id = ?
		ORDER BY award_date ASC NULLS LAST, id ASC
	`, id).Scan(&awards).Error
	if err != nil {
		return nil, err
	}
	if awards == nil {
		awards = []model.Award{}
	}

	detail := &model.TenderDetail{Tender: tender, Awards: awards}

	contractIDs := make([]string, 0, len(awards))
	for _, award := range awards {
		if award.ContractID != "" {
			contractIDs = append(contractIDs, award.ContractID)
		}
	}
	if len(contractIDs) > 0 {
		err = r.db.WithContext(ctx).Raw(`
			SELECT id, contract_id, member_name, member_tax_id, participation_pct
			FROM consortium_members
			WHERE contract_id IN ?
			ORDER BY contract_id, member_name
		`, contractIDs).Scan(&detail.Consortium).Error
		if err != nil {
			return nil, err
		}
	}

	return detail, nil
}

// Create inserts a tender header and its awards in a single transaction.
func (r *TenderRepository) Create(ctx context.Context, tender model.Tender, awards []model.Award) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			INSERT INTO tenders (
				id, ocid, title, description, buyer, category, procedure_type,
				estimated_amount, currency, publication_date, process_status,
				full_location, department, province, district, origin,
				source_file, last_updated
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			tender.ID, tender.OCID, tender.Title, tender.Description,
			tender.Buyer, tender.Category, tender.ProcedureType,
			tender.EstimatedAmount, tender.Currency, tender.PublicationDate,
			tender.ProcessStatus, tender.FullLocation, tender.Department,
			tender.Province, tender.District, tender.Origin,
			tender.SourceFile, tender.LastUpdated,
		).Error; err != nil {
			return err
		}
		return insertAwards(tx, tender.ID, awards)
	})
}

// Update replaces the header fields and, when awards are supplied, swaps the
// full award set. Delete and reinsert run in one transaction so a failure
// mid-sequence cannot leave the tender without its awards.
func (r *TenderRepository) Update(ctx context.Context, tender model.Tender, awards []model.Award, replaceAwards bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			UPDATE tenders SET
				ocid = ?,
				title = ?,
				description = ?,
				buyer = ?,
				category = ?,
				procedure_type = ?,
				estimated_amount = ?,
				currency = ?,
				publication_date = ?,
				process_status = ?,
				full_location = ?,
				department = ?,
				province = ?,
				district = ?,
				last_updated = ?
			WHERE id = ?
		`,
			tender.OCID, tender.Title, tender.Description, tender.Buyer,
			tender.Category, tender.ProcedureType, tender.EstimatedAmount,
			tender.Currency, tender.PublicationDate, tender.ProcessStatus,
			tender.FullLocation, tender.Department, tender.Province,
			tender.District, tender.LastUpdated, tender.ID,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if !replaceAwards {
			return nil
		}
		if err := tx.Exec(`DELETE FROM awards WHERE tender_id = ?`, tender.ID).Error; err != nil {
			return err
		}
		return insertAwards(tx, tender.ID, awards)
	})
}

func insertAwards(tx *gorm.DB, tenderID string, awards []model.Award) error {
	for _, award := range awards {
		if err := tx.Exec(`
			INSERT INTO awards (
				id, tender_id, contract_id, winner_name, winner_tax_id,
				awarded_amount, award_date, item_status, financial_entity,
				guarantee_type
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			award.ID, tenderID, award.ContractID, award.WinnerName,
			award.WinnerTaxID, award.AwardedAmount, award.AwardDate,
			award.ItemStatus, award.FinancialEntity, award.GuaranteeType,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a tender; awards go with it via ON DELETE CASCADE.
func (r *TenderRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM tenders WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DistinctValues returns the distinct non-empty values of a filterable tender
// column. The column name comes from a fixed internal list, never from input.
func (r *TenderRepository) distinctColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	var values []string
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *TenderRepository) ListDepartments(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, `
		SELECT DISTINCT UPPER(TRIM(department))
		FROM tenders
		WHERE department IS NOT NULL AND TRIM(department) != ''
		ORDER BY 1
	`)
}

// ListProvinces returns provinces that actually co-occur with the department.
func (r *TenderRepository) ListProvinces(ctx context.Context, department string) ([]string, error) {
	return r.distinctColumn(ctx, `
		SELECT DISTINCT UPPER(TRIM(province))
		FROM tenders
		WHERE UPPER(TRIM(department)) = ?
			AND province IS NOT NULL AND TRIM(province) != ''
		ORDER BY 1
	`, normalizeTerm(department))
}

func (r *TenderRepository) ListDistricts(ctx context.Context, department, province string) ([]string, error) {
	return r.distinctColumn(ctx, `
		SELECT DISTINCT UPPER(TRIM(district))
		FROM tenders
		WHERE UPPER(TRIM(department)) = ?
			AND UPPER(TRIM(province)) = ?
			AND district IS NOT NULL AND TRIM(district) != ''
		ORDER BY 1
	`, normalizeTerm(department), normalizeTerm(province))
}

func (r *TenderRepository) ListStatuses(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, `
		SELECT DISTINCT process_status
		FROM tenders
		WHERE process_status IS NOT NULL AND process_status != ''
		ORDER BY 1
	`)
}

func (r *TenderRepository) ListCategories(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, `
		SELECT DISTINCT category
		FROM tenders
		WHERE category IS NOT NULL AND category != ''
		ORDER BY 1
	`)
}

func (r *TenderRepository) ListYears(ctx context.Context) ([]int, error) {
	var years []int
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT EXTRACT(YEAR FROM publication_date)::int
		FROM tenders
		WHERE publication_date IS NOT NULL
		ORDER BY 1 DESC
	`).Scan(&years).Error
	if err != nil {
		return nil, err
	}
	return years, nil
}

// ListBuyers is capped: the buyer dimension has tens of thousands of distinct
// values and the dropdown only needs the first page.
func (r *TenderRepository) ListBuyers(ctx context.Context, limit int) ([]string, error) {
	return r.distinctColumn(ctx, `
		SELECT DISTINCT buyer
		FROM tenders
		WHERE buyer IS NOT NULL AND buyer != ''
		ORDER BY 1
		LIMIT ?
	`, limit)
}

func (r *TenderRepository) ListGuaranteeTypes(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, `
		SELECT DISTINCT guarantee_type
		FROM awards
		WHERE guarantee_type IS NOT NULL AND guarantee_type != ''
		ORDER BY 1
	`)
}

// ListFinancialEntities returns the raw stored values; canonicalization is the
// service's job.
func (r *TenderRepository) ListFinancialEntities(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, `
		SELECT DISTINCT financial_entity
		FROM awards
		WHERE financial_entity IS NOT NULL AND financial_entity != ''
		ORDER BY 1
	`)
}

// ListForExport fetches the flattened export rows for a plan, with the award
// guarantee columns collapsed per tender.
func (r *TenderRepository) ListForExport(ctx context.Context, plan *Plan, limit int) ([]model.ExportRow, error) {
	query := `
		SELECT DISTINCT
			t.id,
			t.title,
			t.buyer,
			t.category,
			t.estimated_amount,
			t.publication_date,
			t.process_status,
			t.department,
			t.province,
			t.district,
			(SELECT STRING_AGG(DISTINCT a2.guarantee_type, ', ')
				FROM awards a2
				WHERE a2.tender_id = t.id AND a2.guarantee_type != '') AS guarantee_types,
			(SELECT STRING_AGG(DISTINCT a2.financial_entity, ', ')
				FROM awards a2
				WHERE a2.tender_id = t.id AND a2.financial_entity != '') AS financial_entities
		FROM tenders t` + plan.Join() + plan.Where() + tenderListOrder + `
		LIMIT ?`
	args := append(append([]interface{}{}, plan.Args()...), limit)

	var rows []model.ExportRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByIDs fetches export rows for an explicit id selection.
func (r *TenderRepository) ListByIDs(ctx context.Context, ids []string) ([]model.ExportRow, error) {
	var rows []model.ExportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			t.id,
			t.title,
			t.buyer,
			t.category,
			t.estimated_amount,
			t.publication_date,
			t.process_status,
			t.department,
			t.province,
			t.district,
			(SELECT STRING_AGG(DISTINCT a2.guarantee_type, ', ')
				FROM awards a2
				WHERE a2.tender_id = t.id AND a2.guarantee_type != '') AS guarantee_types,
			(SELECT STRING_AGG(DISTINCT a2.financial_entity, ', ')
				FROM awards a2
				WHERE a2.tender_id = t.id AND a2.financial_entity != '') AS financial_entities
		FROM tenders t
		WHERE t.id IN ?`+tenderListOrder+`
	`, ids).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func normalizeTerm(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
