package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/licitaperu/tenders-api/internal/model"
)

const (
	// MinSuggestionLength is the shortest query the engine answers.
	MinSuggestionLength = 3
	maxSuggestions      = 10
)

var entityKeywords = []string{
	"MUNICIPALIDAD", "GOBIERNO", "MINISTERIO", "HOSPITAL", "UNIVERSIDAD",
	"INSTITUTO", "EMPRESA", "DIRECCION", "GERENCIA", "PROGRAMA",
}

// SuggestionSource provides the candidate values for one autocomplete source.
type SuggestionSource interface {
	MatchBuyers(ctx context.Context, term string) ([]string, error)
	MatchTitles(ctx context.Context, term string) ([]string, error)
	MatchDepartments(ctx context.Context, term string) ([]string, error)
	MatchDescriptions(ctx context.Context, term string) ([]string, error)
	MatchWinnerNames(ctx context.Context, term string) ([]string, error)
	MatchWinnerTaxIDs(ctx context.Context, term string) ([]string, error)
	MatchFinancialEntities(ctx context.Context, term string) ([]string, error)
}

type SuggestionService struct {
	source SuggestionSource
}

func NewSuggestionService(source SuggestionSource) *SuggestionService {
	return &SuggestionService{source: source}
}

// Suggest unions candidates from every source in a fixed precedence order,
// deduplicates by exact value (first source wins), and caps the result.
// Queries below the minimum length return an empty list, not an error.
func (s *SuggestionService) Suggest(ctx context.Context, query string) ([]model.Suggestion, error) {
	term := strings.TrimSpace(query)
	if len([]rune(term)) < MinSuggestionLength {
		return []model.Suggestion{}, nil
	}

	sources := []func(context.Context, string) ([]string, error){
		s.source.MatchBuyers,
		s.source.MatchTitles,
		s.source.MatchDepartments,
		s.source.MatchDescriptions,
		s.source.MatchWinnerNames,
		s.source.MatchWinnerTaxIDs,
		s.source.MatchFinancialEntities,
	}

	seen := make(map[string]struct{})
	suggestions := make([]model.Suggestion, 0, maxSuggestions)
	for _, match := range sources {
		values, err := match(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		for _, value := range values {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			suggestions = append(suggestions, model.Suggestion{
				Value: value,
				Type:  classifySuggestion(value),
			})
			if len(suggestions) >= maxSuggestions {
				return suggestions, nil
			}
		}
	}
	return suggestions, nil
}

// classifySuggestion guesses what kind of value this is for UI hinting. It is
// best effort; a mislabel costs an icon, not a result.
func classifySuggestion(value string) string {
	if isNumeric(value) {
		return "tax-id"
	}
	upper := strings.ToUpper(value)
	for _, keyword := range entityKeywords {
		if strings.Contains(upper, keyword) {
			return "entity"
		}
	}
	if strings.Contains(value, "-") && containsDigit(value) {
		return "code"
	}
	if len(value) > 60 && len(strings.Fields(value)) > 5 {
		return "description"
	}
	return "location"
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func containsDigit(value string) bool {
	for _, r := range value {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
