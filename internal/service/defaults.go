package service

// Static fallbacks for the filter dropdowns. They keep the dashboard usable
// when the store is empty or a dimension has no values yet.
var defaultDepartments = []string{
	"AMAZONAS", "ANCASH", "APURIMAC", "AREQUIPA", "AYACUCHO", "CAJAMARCA",
	"CALLAO", "CUSCO", "HUANCAVELICA", "HUANUCO", "ICA", "JUNIN",
	"LA LIBERTAD", "LAMBAYEQUE", "LIMA", "LORETO", "MADRE DE DIOS",
	"MOQUEGUA", "PASCO", "PIURA", "PUNO", "SAN MARTIN", "TACNA",
	"TUMBES", "UCAYALI",
}

var defaultStatuses = []string{
	"Convocado", "Adjudicado", "Contratado", "Desierto", "Nulo", "Cancelado",
}

var defaultCategories = []string{
	"Bien", "Obra", "Servicio", "Consultoría de Obra",
}

var defaultGuaranteeTypes = []string{
	"CARTA FIANZA", "POLIZA DE CAUCION", "RETENCION",
}

func defaultFinancialEntities() []string {
	return []string{
		"BBVA", "BCP", "INTERBANK", "LA POSITIVA", "MAPFRE", "RIMAC",
		"SCOTIABANK", "SECREX",
	}
}
