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

// conversionHandler handles HTTP requests for currency conversion.
type conversionHandler struct {
	registry   portssvc.CurrencyRegistrySvc
	conversion portssvc.ConversionSvcFacade
}

// newConversionHandler creates a new conversionHandler.
func newConversionHandler(registry portssvc.CurrencyRegistrySvc, conversion portssvc.ConversionSvcFacade) *conversionHandler {
	return &conversionHandler{registry: registry, conversion: conversion}
}

// registerConversionRoutes registers routes related to conversion.
func registerConversionRoutes(rg *gin.RouterGroup, registry portssvc.CurrencyRegistrySvc, conversion portssvc.ConversionSvcFacade) {
	h := newConversionHandler(registry, conversion)
	rg.POST("/convert", h.convert)
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts an amount at current rates, or at a past instant when asOf is set
// @Tags conversion
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertRequest true "Conversion details"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid input or unsupported currency"
// @Failure 404 {object} map[string]string "No historical rate for the requested instant"
// @Failure 503 {object} map[string]string "Live rate unavailable"
// @Router /convert [post]
func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	// Resolve the source currency up front so an unknown code fails before
	// any Money is built.
	sourceCurrency, err := h.registry.Lookup(req.FromCurrency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	money, err := domain.NewMoney(req.Amount, sourceCurrency)
	if err != nil {
		logger.Warn("Rejected conversion input", slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	var result domain.ConversionResult
	if req.AsOf != nil {
		result, err = h.conversion.ConvertAt(c.Request.Context(), money, req.ToCurrency, *req.AsOf)
	} else {
		result, err = h.conversion.Convert(c.Request.Context(), money, req.ToCurrency)
	}
	if err != nil {
		logger.Warn("Conversion failed",
			slog.String("from", req.FromCurrency),
			slog.String("to", req.ToCurrency),
			slog.String("error", err.Error()))
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConvertResponse(result))
}
