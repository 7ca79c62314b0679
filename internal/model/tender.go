package model

import "time"

type Origin string

const (
	// OriginManual marks tenders created through the write API.
	OriginManual Origin = "MANUAL"
	// OriginETL marks tenders loaded by the bulk import pipeline.
	OriginETL Origin = "ETL"
)

type Tender struct {
	ID              string     `json:"id"`
	OCID            string     `json:"ocid"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Buyer           string     `json:"buyer"`
	Category        string     `json:"category"`
	ProcedureType   string     `json:"procedure_type"`
	EstimatedAmount float64    `json:"estimated_amount"`
	Currency        string     `json:"currency"`
	PublicationDate *time.Time `json:"publication_date"`
	ProcessStatus   string     `json:"process_status"`
	FullLocation    string     `json:"full_location"`
	Department      string     `json:"department"`
	Province        string     `json:"province"`
	District        string     `json:"district"`
	Origin          Origin     `json:"origin"`
	SourceFile      string     `json:"source_file,omitempty"`
	LastUpdated     *time.Time `json:"last_updated,omitempty"`
}

type Award struct {
	ID              string     `json:"id"`
	TenderID        string     `json:"tender_id"`
	ContractID      string     `json:"contract_id,omitempty"`
	WinnerName      string     `json:"winner_name"`
	WinnerTaxID     string     `json:"winner_tax_id"`
	AwardedAmount   float64    `json:"awarded_amount"`
	AwardDate       *time.Time `json:"award_date"`
	ItemStatus      string     `json:"item_status"`
	FinancialEntity string     `json:"financial_entity"`
	GuaranteeType   string     `json:"guarantee_type"`
}

type ConsortiumMember struct {
	ID               int64   `json:"id"`
	ContractID       string  `json:"contract_id"`
	MemberName       string  `json:"member_name"`
	MemberTaxID      string  `json:"member_tax_id"`
	ParticipationPct float64 `json:"participation_pct"`
}

// TenderDetail is the full detail view: header plus awards and, when an award
// carries a contract id, the consortium members behind that contract.
type TenderDetail struct {
	Tender
	Awards     []Award            `json:"awards"`
	Consortium []ConsortiumMember `json:"consortium,omitempty"`
}
