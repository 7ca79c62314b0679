package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/licitaperu/tenders-api/internal/model"
	"github.com/licitaperu/tenders-api/internal/service"
)

type Handler struct {
	tenders     *service.TenderService
	aggregates  *service.AggregateService
	suggestions *service.SuggestionService
	exports     *service.ExportService
	log         zerolog.Logger
}

func NewHandler(
	tenders *service.TenderService,
	aggregates *service.AggregateService,
	suggestions *service.SuggestionService,
	exports *service.ExportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		tenders:     tenders,
		aggregates:  aggregates,
		suggestions: suggestions,
		exports:     exports,
		log:         log,
	}
}

// listTenders serves the filtered, paginated list. Storage failures come back
// as a well-formed empty page with an error marker instead of a 5xx: the
// dashboard keeps rendering through transient database trouble.
func (h *Handler) listTenders(c *gin.Context) {
	filter := parseFilter(c)
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 0)

	result, err := h.tenders.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list tenders failed")
		if page < 1 {
			page = 1
		}
		c.JSON(http.StatusOK, gin.H{
			"items":       []model.Tender{},
			"total":       0,
			"page":        page,
			"limit":       h.tenders.ClampLimit(limit),
			"total_pages": 0,
			"error":       "storage unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getTender(c *gin.Context) {
	id := c.Param("id")
	detail, err := h.tenders.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tender not found", "id": id})
			return
		}
		h.handleError(c, err, "get tender failed")
		return
	}
	c.JSON(http.StatusOK, detail)
}

type awardPayload struct {
	ID              string     `json:"id"`
	ContractID      string     `json:"contract_id"`
	WinnerName      string     `json:"winner_name"`
	WinnerTaxID     string     `json:"winner_tax_id"`
	AwardedAmount   float64    `json:"awarded_amount"`
	AwardDate       *time.Time `json:"award_date"`
	ItemStatus      string     `json:"item_status"`
	FinancialEntity string     `json:"financial_entity"`
	GuaranteeType   string     `json:"guarantee_type"`
}

type tenderPayload struct {
	ID              string          `json:"id"`
	OCID            string          `json:"ocid"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Buyer           string          `json:"buyer"`
	Category        string          `json:"category"`
	ProcedureType   string          `json:"procedure_type"`
	EstimatedAmount float64         `json:"estimated_amount"`
	Currency        string          `json:"currency"`
	PublicationDate string          `json:"publication_date"`
	ProcessStatus   string          `json:"process_status"`
	FullLocation    string          `json:"full_location"`
	Department      string          `json:"department"`
	Province        string          `json:"province"`
	District        string          `json:"district"`
	Awards          *[]awardPayload `json:"awards"`
}

func (p tenderPayload) toModel() (model.Tender, error) {
	tender := model.Tender{
		ID:              strings.TrimSpace(p.ID),
		OCID:            p.OCID,
		Title:           p.Title,
		Description:     p.Description,
		Buyer:           p.Buyer,
		Category:        p.Category,
		ProcedureType:   p.ProcedureType,
		EstimatedAmount: p.EstimatedAmount,
		Currency:        p.Currency,
		ProcessStatus:   p.ProcessStatus,
		FullLocation:    p.FullLocation,
		Department:      p.Department,
		Province:        p.Province,
		District:        p.District,
	}
	if p.PublicationDate != "" {
		parsed, err := parseDate(p.PublicationDate)
		if err != nil {
			return model.Tender{}, err
		}
		tender.PublicationDate = &parsed
	}
	return tender, nil
}

func (p tenderPayload) awards() []model.Award {
	if p.Awards == nil {
		return nil
	}
	awards := make([]model.Award, 0, len(*p.Awards))
	for _, a := range *p.Awards {
		awards = append(awards, model.Award{
			ID:              a.ID,
			ContractID:      a.ContractID,
			WinnerName:      a.WinnerName,
			WinnerTaxID:     a.WinnerTaxID,
			AwardedAmount:   a.AwardedAmount,
			AwardDate:       a.AwardDate,
			ItemStatus:      a.ItemStatus,
			FinancialEntity: a.FinancialEntity,
			GuaranteeType:   a.GuaranteeType,
		})
	}
	return awards
}

func (h *Handler) createTender(c *gin.Context) {
	var payload tenderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tender, err := payload.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publication_date"})
		return
	}

	detail, err := h.tenders.Create(c.Request.Context(), tender, payload.awards())
	if err != nil {
		h.handleError(c, err, "create tender failed")
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *Handler) updateTender(c *gin.Context) {
	var payload tenderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tender, err := payload.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publication_date"})
		return
	}

	// A request without an awards field updates the header only; a request
	// with one (even empty) replaces the whole award set.
	replaceAwards := payload.Awards != nil
	detail, err := h.tenders.Update(c.Request.Context(), c.Param("id"), tender, payload.awards(), replaceAwards)
	if err != nil {
		h.handleError(c, err, "update tender failed")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) deleteTender(c *gin.Context) {
	if err := h.tenders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err, "delete tender failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tender deleted"})
}

type filterOptionsResponse struct {
	model.FilterOptions
	Error string `json:"error,omitempty"`
}

// filterOptions always answers with a full set of dimension lists. When the
// store fails, the service substitutes static defaults per dimension and the
// response carries an error marker alongside them.
func (h *Handler) filterOptions(c *gin.Context) {
	options, err := h.tenders.FilterOptions(c.Request.Context())
	response := filterOptionsResponse{FilterOptions: *options}
	if err != nil {
		h.log.Error().Err(err).Msg("filter options degraded to defaults")
		response.Error = "storage unavailable"
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) suggest(c *gin.Context) {
	results, err := h.suggestions.Suggest(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.log.Error().Err(err).Msg("suggestions failed")
		c.JSON(http.StatusOK, gin.H{"suggestions": []model.Suggestion{}, "error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": results})
}

func (h *Handler) locations(c *gin.Context) {
	values, err := h.tenders.Locations(c.Request.Context(), c.Query("department"), c.Query("province"))
	if err != nil {
		h.log.Error().Err(err).Msg("locations failed")
		c.JSON(http.StatusOK, gin.H{"data": []string{}, "error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": values})
}

func (h *Handler) financialEntityRanking(c *gin.Context) {
	year := intQuery(c, "year", 0)
	ranking, err := h.aggregates.FinancialEntityRanking(c.Request.Context(), year, c.Query("department"))
	if err != nil {
		h.log.Error().Err(err).Msg("financial entity ranking failed")
		c.JSON(http.StatusOK, gin.H{"data": []model.EntityRanking{}, "error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ranking})
}

func (h *Handler) dashboardKPIs(c *gin.Context) {
	filter := model.TenderFilter{
		Year:          intQuery(c, "year", 0),
		Status:        c.Query("status"),
		Category:      c.Query("category"),
		Department:    c.Query("department"),
		ProcedureType: c.Query("procedure_type"),
	}
	kpis, err := h.aggregates.KPIs(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("dashboard kpis failed")
		c.JSON(http.StatusOK, gin.H{
			"total_estimated_amount": 0,
			"total_tenders":          0,
			"error":                  "storage unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, kpis)
}

func (h *Handler) monthlyTrend(c *gin.Context) {
	buckets, err := h.aggregates.MonthlyTrend(c.Request.Context(), intQuery(c, "year", 0))
	if err != nil {
		h.log.Error().Err(err).Msg("monthly trend failed")
		c.JSON(http.StatusOK, gin.H{"data": []model.MonthlyBucket{}, "error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": buckets})
}

func (h *Handler) export(c *gin.Context) {
	var req model.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.exports.Export(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "export failed")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func (h *Handler) handleError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg(logMsg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseFilter(c *gin.Context) model.TenderFilter {
	filter := model.TenderFilter{
		Search:          c.Query("search"),
		Status:          c.Query("status"),
		Category:        c.Query("category"),
		Department:      c.Query("department"),
		Province:        c.Query("province"),
		District:        c.Query("district"),
		Buyer:           c.Query("buyer"),
		ProcedureType:   c.Query("procedure_type"),
		Origin:          c.Query("origin"),
		Year:            intQuery(c, "year", 0),
		Month:           intQuery(c, "month", 0),
		WinnerTaxID:     c.Query("winner_tax_id"),
		FinancialEntity: c.Query("financial_entity"),
		GuaranteeType:   c.Query("guarantee_type"),
	}
	if from, err := parseDate(c.Query("award_date_from")); err == nil {
		filter.AwardDateFrom = &from
	}
	if to, err := parseDate(c.Query("award_date_to")); err == nil {
		filter.AwardDateTo = &to
	}
	return filter
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}
