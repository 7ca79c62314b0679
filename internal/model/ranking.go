package model

// EntityAwardRow is one raw grouped row from the store: a stored financial
// entity string with the department it appeared in. Canonicalization happens
// after retrieval, so the same canonical entity may arrive under several names.
type EntityAwardRow struct {
	Entity     string
	Department string
	Count      int64
	Amount     float64
}

// EntityRanking is one aggregated ranking entry keyed by canonical entity name.
type EntityRanking struct {
	Name      string  `json:"name"`
	Count     int64   `json:"count"`
	Amount    float64 `json:"amount"`
	DeptCount int     `json:"dept_count"`
}

type Suggestion struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// DimensionStat is a generic (label, count, amount) bucket used by the
// dashboard endpoints.
type DimensionStat struct {
	Name   string  `json:"name"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type MonthlyBucket struct {
	Month  int     `json:"month"`
	Name   string  `json:"name"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type DashboardKPIs struct {
	TotalEstimatedAmount float64         `json:"total_estimated_amount"`
	TotalTenders         int64           `json:"total_tenders"`
	TopDepartments       []DimensionStat `json:"top_departments"`
	TopBuyers            []DimensionStat `json:"top_buyers"`
	CategoryDistribution []DimensionStat `json:"category_distribution"`
	StatusDistribution   []DimensionStat `json:"status_distribution"`
}
