// Package normalizer resolves the inconsistent financial-entity names found in
// award records to stable canonical identities.
package normalizer

import "strings"

// Normalizer holds an immutable alias table. It has no internal state beyond
// the table, so a single instance is safe for concurrent use.
type Normalizer struct {
	table Table
}

func New(table Table) *Normalizer {
	return &Normalizer{table: table}
}

// Normalize cleans raw and resolves it against the alias table. Empty input
// yields "". Unmatched names pass through upper-trimmed, so distinct unknown
// spellings stay distinct buckets rather than collapsing into a catch-all.
func (n *Normalizer) Normalize(raw string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	if cleaned == "" {
		return ""
	}
	for _, alias := range n.table {
		if strings.Contains(cleaned, alias.Token) {
			return alias.Canonical
		}
	}
	return cleaned
}
