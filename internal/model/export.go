package model

import "time"

type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportExcel ExportFormat = "excel"
	ExportPDF   ExportFormat = "pdf"
)

// ExportRequest selects rows either explicitly by id or by re-running the
// caller's current filter set. An empty id list with all_matches=false is an
// invalid request; there is no implicit "export everything".
type ExportRequest struct {
	Format     ExportFormat `json:"format"`
	IDs        []string     `json:"ids"`
	AllMatches bool         `json:"all_matches"`
	Filters    TenderFilter `json:"filters"`
}

// ExportRow is the flattened per-tender export record, with award guarantee
// columns collapsed to comma-joined distinct lists.
type ExportRow struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Buyer             string     `json:"buyer"`
	Category          string     `json:"category"`
	EstimatedAmount   float64    `json:"estimated_amount"`
	PublicationDate   *time.Time `json:"publication_date"`
	ProcessStatus     string     `json:"process_status"`
	Department        string     `json:"department"`
	Province          string     `json:"province"`
	District          string     `json:"district"`
	GuaranteeTypes    string     `json:"guarantee_types"`
	FinancialEntities string     `json:"financial_entities"`
}

type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
