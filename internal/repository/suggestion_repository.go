package repository

import (
	"context"

	"gorm.io/gorm"
)

// perSourceLimit caps each suggestion source; the service dedupes the union
// and applies the overall cap.
const perSourceLimit = 5

type SuggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

func (r *SuggestionRepository) matches(ctx context.Context, query, term string) ([]string, error) {
	var values []string
	pattern := "%" + normalizeTerm(term) + "%"
	if err := r.db.WithContext(ctx).Raw(query, pattern, perSourceLimit).Scan(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *SuggestionRepository) MatchBuyers(ctx context.Context, term string) ([]string, error) {
	return r.matches(ctx, `
		SELECT DISTINCT UPPER(TRIM(buyer))
		FROM tenders
		WHERE buyer IS NOT NULL AND UPPER(buyer) LIKE ?
		ORDER BY 1
		LIMIT ?
	`, term)
}

func (r *SuggestionRepository) MatchTitles(ctx context.Context, term string) ([]string, error) {
	return r.matches(ctx, `
		SELECT DISTINCT UPPER(TRIM(title))
		FROM tenders
		WHERE title IS NOT NULL AND UPPER(title) LIKE ?
		ORDER BY 1
		LIMIT ?
	`, term)
}

func (r *SuggestionRepository) MatchDepartments(ctx context.Context, term string) ([]string, error) {
	return r.matches(ctx, `
		SELECT DISTINCT UPPER(TRIM(department))
		FROM tenders
		WHERE department IS NOT NULL AND UPPER(department) LIKE ?
		ORDER BY 1
		LIMIT ?
	`, term)
}

// MatchDescriptions truncates long descriptions to a displayable excerpt.
func (r *SuggestionRepository) MatchDescriptions(ctx context.Context, term string) ([]string, error) {
	return r.matches(ctx, `
		SELECT DISTINCT UPPER(TRIM(LEFT(description, 120)))
		FROM tenders
		WHERE description IS NOT NULL AND UPPER(description) LIKE ?
		ORDER BY 1
		LIMIT ?
	`, term)
}

func (r *SuggestionRepository) MatchWinnerNames(ctx context.Context, term string) ([]string, error) {
	return r.matches(ctx, `
		SELECT DISTINCT UPPER(TRIM(winner_name))
		FROM awards
		WHERE winner_name IS NOT NULL AND UPPER(winner_name) LIKE ?
		ORDER BY 1
		LIMIT ?
	`, term)
}

func (r *SuggestionRepository) MatchWinnerTaxIDs(ctx context.Context, term string) ([]string, error) {
	return r.matches(ctx, `
		SELECT DISTINCT TRIM(winner_tax_id)
		FROM awards
		WHERE winner_tax_id IS NOT NULL AND winner_tax_id LIKE ?
		ORDER BY 1
		LIMIT ?
	`, term)
}

func (r *SuggestionRepository) MatchFinancialEntities(ctx context.Context, term string) ([]string, error) {
	return r.matches(ctx, `
		SELECT DISTINCT UPPER(TRIM(financial_entity))
		FROM awards
		WHERE financial_entity IS NOT NULL AND UPPER(financial_entity) LIKE ?
		ORDER BY 1
		LIMIT ?
	`, term)
}
