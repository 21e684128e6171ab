package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/loja-backend/internal/adapter/api/dto"
	"github.com/hugohenrick/loja-backend/internal/adapter/repository"
	"github.com/hugohenrick/loja-backend/internal/domain/exchange"
	"github.com/hugohenrick/loja-backend/internal/domain/pricing"
)

// PricingController gerencia as requisições de precificação e cotação
type PricingController struct {
	rateProvider       *exchange.Provider
	settingsRepository pricing.Repository
}

// NewPricingController cria uma nova instância de PricingController
func NewPricingController(rateProvider *exchange.Provider, settingsRepository pricing.Repository) *PricingController {
	return &PricingController{
		rateProvider:       rateProvider,
		settingsRepository: settingsRepository,
	}
}

// GetDollarRate retorna a cotação vigente do dólar
// @Summary Busca a cotação do dólar
// @Description Retorna a cotação vigente; se o cache estiver vencido, busca uma nova no provedor
// @Tags pricing
// @Produce json
// @Success 200 {object} dto.DollarRateResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /pricing/dollar-rate [get]
func (c *PricingController) GetDollarRate(ctx *gin.Context) {
	rate, err := c.rateProvider.Get(ctx)
	if err != nil {
		if errors.Is(err, exchange.ErrRateUnavailable) {
			ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "Cotação indisponível", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar cotação", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDollarRateResponse(rate))
}

// RefreshDollarRate força a atualização da cotação do dólar
// @Summary Atualiza a cotação do dólar
// @Description Força uma busca no provedor externo ignorando o cache
// @Tags pricing
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.DollarRateResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /pricing/dollar-rate/refresh [post]
func (c *PricingController) RefreshDollarRate(ctx *gin.Context) {
	rate, err := c.rateProvider.Refresh(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "Falha ao atualizar cotação", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDollarRateResponse(rate))
}

// SetManualRate fixa uma cotação manual do dólar
// @Summary Fixa uma cotação manual
// @Description Enquanto ativa, a cotação manual vence o cache e o provedor externo
// @Tags pricing
// @Accept json
// @Produce json
// @Security Bearer
// @Param rate body dto.ManualRateRequest true "Cotação manual"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /pricing/dollar-rate/manual [put]
func (c *PricingController) SetManualRate(ctx *gin.Context) {
	var request dto.ManualRateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	if err := c.rateProvider.SetManual(request.Rate); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Cotação manual inválida", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Cotação manual fixada", nil))
}

// ClearManualRate remove a cotação manual do dólar
// @Summary Remove a cotação manual
// @Description Volta a usar o cache e o provedor externo
// @Tags pricing
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.SuccessResponse
// @Router /pricing/dollar-rate/manual [delete]
func (c *PricingController) ClearManualRate(ctx *gin.Context) {
	c.rateProvider.ClearManual()
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Cotação manual removida", nil))
}

// GetSettings retorna o subconjunto público da configuração de precificação
// @Summary Busca a configuração de precificação
// @Description Retorna o subconjunto da configuração usado pela vitrine para pré-cálculo
// @Tags pricing
// @Produce json
// @Success 200 {object} dto.PublicPricingSettingsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /pricing/settings [get]
func (c *PricingController) GetSettings(ctx *gin.Context) {
	settings, err := c.settingsRepository.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Configuração não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar configuração", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPublicPricingSettingsResponse(settings))
}

// GetAdminSettings retorna a configuração completa de precificação
// @Summary Busca a configuração completa
// @Description Retorna a configuração completa, incluindo margem padrão e custos da operadora
// @Tags pricing
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.PricingSettingsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /pricing/settings/admin [get]
func (c *PricingController) GetAdminSettings(ctx *gin.Context) {
	settings, err := c.settingsRepository.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Configuração não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar configuração", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPricingSettingsResponse(settings))
}

// UpdateSettings atualiza a configuração de precificação da loja
// @Summary Atualiza a configuração de precificação
// @Description Substitui a configuração vigente; valores percentuais são validados
// @Tags pricing
// @Accept json
// @Produce json
// @Security Bearer
// @Param settings body dto.PricingSettingsRequest true "Nova configuração"
// @Success 200 {object} dto.PricingSettingsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /pricing/settings [put]
func (c *PricingController) UpdateSettings(ctx *gin.Context) {
	var request dto.PricingSettingsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	// Manter o ID da configuração vigente quando houver
	var id string
	if current, err := c.settingsRepository.Get(ctx); err == nil {
		id = current.ID
	}

	settings := &pricing.Settings{
		ID:                         id,
		TaxPercent:                 request.TaxPercent,
		ProcessorPercent:           request.ProcessorPercent,
		ProcessorFixedFee:          request.ProcessorFixedFee,
		DefaultMarginPercent:       request.DefaultMarginPercent,
		MaxInstallments:            request.MaxInstallments,
		NoFeeInstallments:          request.NoFeeInstallments,
		InstallmentInterestPercent: request.InstallmentInterestPercent,
		MinInstallmentValue:        request.MinInstallmentValue,
	}

	if err := settings.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Configuração inválida", err.Error()))
		return
	}

	if err := c.settingsRepository.Save(ctx, settings); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gravar configuração", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPricingSettingsResponse(settings))
}

// CalculatePrice calcula o detalhamento de preço de venda
// @Summary Calcula o preço de venda
// @Description Deriva o preço final, o detalhamento de margem, imposto e taxas, e a tabela de parcelamento
// @Tags pricing
// @Accept json
// @Produce json
// @Param input body dto.CalculatePriceRequest true "Entradas do cálculo"
// @Success 200 {object} dto.PriceBreakdownResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /pricing/calculate [post]
func (c *PricingController) CalculatePrice(ctx *gin.Context) {
	var request dto.CalculatePriceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	settings, err := c.settingsRepository.Get(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar configuração", err.Error()))
		return
	}

	// A cotação só é necessária quando o custo vem em dólar
	var rate exchange.Rate
	if request.CostUSD != nil {
		rate, err = c.rateProvider.Get(ctx)
		if err != nil {
			ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "Cotação indisponível para converter o custo", err.Error()))
			return
		}
	}

	breakdown, err := pricing.Calculate(pricing.CalculateInput{
		Cost:            request.Cost,
		CostUSD:         request.CostUSD,
		Rate:            rate,
		MarginPercent:   request.MarginPercent,
		DiscountPercent: request.DiscountPercent,
	}, *settings)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Entrada inválida", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPriceBreakdownResponse(breakdown))
}
