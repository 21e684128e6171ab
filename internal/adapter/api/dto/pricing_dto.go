package dto

import (
	"time"

	"github.com/hugohenrick/loja-backend/internal/domain/exchange"
	"github.com/hugohenrick/loja-backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// DollarRateResponse representa a cotação do dólar exposta pela API
type DollarRateResponse struct {
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToDollarRateResponse converte uma cotação de domínio para o DTO de resposta
func ToDollarRateResponse(rate exchange.Rate) DollarRateResponse {
	return DollarRateResponse{
		Rate:      rate.Value,
		Source:    string(rate.Source),
		UpdatedAt: rate.ObservedAt,
	}
}

// ManualRateRequest representa os dados para fixar uma cotação manual
type ManualRateRequest struct {
	Rate decimal.Decimal `json:"rate" binding:"required"`
}

// PricingSettingsRequest representa os dados para atualizar a configuração de precificação
type PricingSettingsRequest struct {
	TaxPercent                 decimal.Decimal `json:"tax_percent"`
	ProcessorPercent           decimal.Decimal `json:"processor_percent"`
	ProcessorFixedFee          decimal.Decimal `json:"processor_fixed_fee"`
	DefaultMarginPercent       decimal.Decimal `json:"default_margin_percent"`
	MaxInstallments            int             `json:"max_installments" binding:"required,min=1"`
	NoFeeInstallments          int             `json:"no_fee_installments"`
	InstallmentInterestPercent decimal.Decimal `json:"installment_interest_percent"`
	MinInstallmentValue        decimal.Decimal `json:"min_installment_value"`
}

// PricingSettingsResponse representa a configuração completa, visível ao painel
type PricingSettingsResponse struct {
	TaxPercent                 decimal.Decimal `json:"tax_percent"`
	ProcessorPercent           decimal.Decimal `json:"processor_percent"`
	ProcessorFixedFee          decimal.Decimal `json:"processor_fixed_fee"`
	DefaultMarginPercent       decimal.Decimal `json:"default_margin_percent"`
	MaxInstallments            int             `json:"max_installments"`
	NoFeeInstallments          int             `json:"no_fee_installments"`
	InstallmentInterestPercent decimal.Decimal `json:"installment_interest_percent"`
	MinInstallmentValue        decimal.Decimal `json:"min_installment_value"`
	UpdatedAt                  time.Time       `json:"updated_at"`
}

// PublicPricingSettingsResponse representa o subconjunto da configuração
// exposto à vitrine para pré-cálculo no cliente. Margem padrão e custos da
// operadora são internos e ficam de fora.
type PublicPricingSettingsResponse struct {
	MaxInstallments            int             `json:"max_installments"`
	NoFeeInstallments          int             `json:"no_fee_installments"`
	InstallmentInterestPercent decimal.Decimal `json:"installment_interest_percent"`
	MinInstallmentValue        decimal.Decimal `json:"min_installment_value"`
}

// ToPricingSettingsResponse converte a configuração de domínio para o DTO completo
func ToPricingSettingsResponse(s *pricing.Settings) PricingSettingsResponse {
	return PricingSettingsResponse{
		TaxPercent:                 s.TaxPercent,
		ProcessorPercent:           s.ProcessorPercent,
		ProcessorFixedFee:          s.ProcessorFixedFee,
		DefaultMarginPercent:       s.DefaultMarginPercent,
		MaxInstallments:            s.MaxInstallments,
		NoFeeInstallments:          s.NoFeeInstallments,
		InstallmentInterestPercent: s.InstallmentInterestPercent,
		MinInstallmentValue:        s.MinInstallmentValue,
		UpdatedAt:                  s.UpdatedAt,
	}
}

// ToPublicPricingSettingsResponse converte a configuração para o DTO público
func ToPublicPricingSettingsResponse(s *pricing.Settings) PublicPricingSettingsResponse {
	return PublicPricingSettingsResponse{
		MaxInstallments:            s.MaxInstallments,
		NoFeeInstallments:          s.NoFeeInstallments,
		InstallmentInterestPercent: s.InstallmentInterestPercent,
		MinInstallmentValue:        s.MinInstallmentValue,
	}
}

// CalculatePriceRequest representa as entradas do cálculo de preço.
// Exatamente um entre cost e cost_usd deve ser informado.
type CalculatePriceRequest struct {
	Cost            *decimal.Decimal `json:"cost"`
	CostUSD         *decimal.Decimal `json:"cost_usd"`
	MarginPercent   *decimal.Decimal `json:"margin_percent"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
}

// InstallmentResponse representa uma opção de parcelamento
type InstallmentResponse struct {
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
	NoFee bool            `json:"no_fee"`
}

// PriceBreakdownResponse representa o detalhamento completo do preço calculado
type PriceBreakdownResponse struct {
	Cost            decimal.Decimal       `json:"cost"`
	MarginAmount    decimal.Decimal       `json:"margin_amount"`
	TaxAmount       decimal.Decimal       `json:"tax_amount"`
	ProcessorAmount decimal.Decimal       `json:"processor_amount"`
	DiscountAmount  decimal.Decimal       `json:"discount_amount"`
	IdealValue      decimal.Decimal       `json:"ideal_value"`
	DeviceValue     decimal.Decimal       `json:"device_value"`
	RealValue       decimal.Decimal       `json:"real_value"`
	Profit          decimal.Decimal       `json:"profit"`
	ProfitMargin    decimal.Decimal       `json:"profit_margin"`
	Installments    []InstallmentResponse `json:"installments"`
}

// ToPriceBreakdownResponse converte o detalhamento de domínio para o DTO de resposta
func ToPriceBreakdownResponse(b *pricing.Breakdown) PriceBreakdownResponse {
	installments := make([]InstallmentResponse, 0, len(b.Installments))
	for _, opt := range b.Installments {
		installments = append(installments, InstallmentResponse{
			Count: opt.Count,
			Value: opt.Value,
			NoFee: opt.NoFee,
		})
	}

	return PriceBreakdownResponse{
		Cost:            b.Cost,
		MarginAmount:    b.MarginAmount,
		TaxAmount:       b.TaxAmount,
		ProcessorAmount: b.ProcessorAmount,
		DiscountAmount:  b.DiscountAmount,
		IdealValue:      b.IdealValue,
		DeviceValue:     b.DeviceValue,
		RealValue:       b.RealValue,
		Profit:          b.Profit,
		ProfitMargin:    b.ProfitMargin,
		Installments:    installments,
	}
}
