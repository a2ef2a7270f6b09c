package handlers

import (
	"log/slog"
	"net/http"

	"github.com/famfin/homeledger/internal/core/domain"
	portssvc "github.com/famfin/homeledger/internal/core/ports/services"
	"github.com/famfin/homeledger/internal/dto"
	"github.com/famfin/homeledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles multi-currency summary requests.
type reportingHandler struct {
	registry    portssvc.CurrencyRegistrySvc
	aggregation portssvc.AggregationSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(registry portssvc.CurrencyRegistrySvc, aggregation portssvc.AggregationSvcFacade) *reportingHandler {
	return &reportingHandler{registry: registry, aggregation: aggregation}
}

// registerReportingRoutes registers routes related to reporting.
func registerReportingRoutes(rg *gin.RouterGroup, registry portssvc.CurrencyRegistrySvc, aggregation portssvc.AggregationSvcFacade) {
	h := newReportingHandler(registry, aggregation)

	reports := rg.Group("/reports")
	{
		reports.POST("/summary", h.summary)
	}
}

// summary godoc
// @Summary Aggregate a mixed-currency batch into one currency
// @Description Sums the items per currency and converts the subtotals into the target currency with one consistent rate snapshot
// @Tags reports
// @Accept json
// @Produce json
// @Param summary body dto.SummaryRequest true "Amounts and target currency"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} map[string]string "Invalid input or unsupported currency"
// @Failure 404 {object} map[string]string "No historical rate for the requested instant"
// @Failure 503 {object} map[string]string "Live rate unavailable"
// @Router /reports/summary [post]
func (h *reportingHandler) summary(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Summary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	values := make([]domain.Money, 0, len(req.Items))
	for _, item := range req.Items {
		currency, err := h.registry.Lookup(item.Currency)
		if err != nil {
			respondWithError(c, err)
			return
		}
		money, err := domain.NewMoney(item.Amount, currency)
		if err != nil {
			logger.Warn("Rejected summary input", slog.String("error", err.Error()))
			respondWithError(c, err)
			return
		}
		values = append(values, money)
	}

	var summary portssvc.AggregationSummary
	var err error
	if req.AsOf != nil {
		summary, err = h.aggregation.SummarizeAt(c.Request.Context(), values, req.TargetCurrency, *req.AsOf)
	} else {
		summary, err = h.aggregation.Summarize(c.Request.Context(), values, req.TargetCurrency)
	}
	if err != nil {
		logger.Warn("Summary aggregation failed",
			slog.String("target", req.TargetCurrency),
			slog.Int("items", len(req.Items)),
			slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}
