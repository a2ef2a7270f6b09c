package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/famfin/homeledger/internal/core/ports/services"
	"github.com/famfin/homeledger/internal/dto"
	"github.com/famfin/homeledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	registry portssvc.CurrencyRegistrySvc
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(registry portssvc.CurrencyRegistrySvc) *currencyHandler {
	return &currencyHandler{registry: registry}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, registry portssvc.CurrencyRegistrySvc) {
	h := newCurrencyHandler(registry)

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrencyByCode)
	}
}

// listCurrencies godoc
// @Summary List supported currencies
// @Description Returns every registered currency, fiat first
// @Tags currencies
// @Produce json
// @Success 200 {array} dto.CurrencyResponse
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	currencies := h.registry.ListCurrencies()
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}

// getCurrencyByCode godoc
// @Summary Get a currency by code
// @Description Returns the registry metadata for one currency code
// @Tags currencies
// @Produce json
// @Param code path string true "Currency code (e.g. USD)"
// @Success 200 {object} dto.CurrencyResponse
// @Failure 400 {object} map[string]string "Unsupported currency code"
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	code := c.Param("code")

	currency, err := h.registry.Lookup(code)
	if err != nil {
		logger.Warn("Currency lookup failed", slog.String("code", code), slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}
