package normalizer

// Alias maps a name fragment to the canonical entity it identifies.
type Alias struct {
	Token     string
	Canonical string
}

// Table is scanned in declaration order and the first token contained in the
// input wins. A token must therefore never be a substring of a later, more
// specific token; TestDefaultTableOrdering asserts this.
type Table []Alias

// DefaultTable covers the banks and insurers that issue tender guarantees.
// Raw records spell these dozens of ways ("BANCO DE CREDITO DEL PERU", "BCP",
// "B. DE CREDITO"), so matching is by fragment, not equality.
func DefaultTable() Table {
	return Table{
		{"BBVA", "BBVA"},
		{"CREDITO", "BCP"},
		{"BCP", "BCP"},
		{"INTERBANK", "INTERBANK"},
		{"INTERNACIONAL", "INTERBANK"}, // Banco Internacional del Peru
		{"CESCE", "CESCE"},
		{"MAPFRE", "MAPFRE"},
		{"SECREX", "SECREX"},
		{"POSITIVA", "LA POSITIVA"},
		{"RIMAC", "RIMAC"},
		{"INSUR", "INSUR"},
		{"CRECER", "CRECER"},
		{"AVLA", "AVLA"},
		{"MUNDIAL", "MUNDIAL"},
		{"LIBERTY", "LIBERTY"},
		{"CITI", "CITIBANK"},
		{"CHUBB", "CHUBB"},
		{"CARDIF", "CARDIF"},
		{"CONFIANZA", "FINANCIERA CONFIANZA"},
		{"GNB", "BANCO GNB"},
		{"PICHINCHA", "BANCO PICHINCHA"},
		{"SCOTIABANK", "SCOTIABANK"},
		{"SCOTIA", "SCOTIABANK"},
		{"BANBIF", "BANBIF"},
		{"BIF", "BANBIF"},
		{"OH", "FINANCIERA OH"},
	}
}
