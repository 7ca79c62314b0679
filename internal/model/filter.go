package model

import "time"

// TenderFilter is the full set of optional list filters. Zero values mean the
// filter is absent; empty strings are never matched literally.
type TenderFilter struct {
	Search          string     `json:"search,omitempty"`
	Status          string     `json:"status,omitempty"`
	Category        string     `json:"category,omitempty"`
	Department      string     `json:"department,omitempty"`
	Province        string     `json:"province,omitempty"`
	District        string     `json:"district,omitempty"`
	Buyer           string     `json:"buyer,omitempty"`
	ProcedureType   string     `json:"procedure_type,omitempty"`
	Origin          string     `json:"origin,omitempty"`
	Year            int        `json:"year,omitempty"`
	Month           int        `json:"month,omitempty"`
	WinnerTaxID     string     `json:"winner_tax_id,omitempty"`
	FinancialEntity string     `json:"financial_entity,omitempty"`
	GuaranteeType   string     `json:"guarantee_type,omitempty"`
	AwardDateFrom   *time.Time `json:"award_date_from,omitempty"`
	AwardDateTo     *time.Time `json:"award_date_to,omitempty"`
}

type TenderPage struct {
	Items      []Tender `json:"items"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}

// FilterOptions backs the filters/all endpoint: distinct values per dimension.
type FilterOptions struct {
	Departments       []string `json:"departments"`
	Statuses          []string `json:"statuses"`
	Categories        []string `json:"categories"`
	Years             []int    `json:"years"`
	Buyers            []string `json:"buyers"`
	GuaranteeTypes    []string `json:"guarantee_types"`
	FinancialEntities []string `json:"financial_entities"`
}
