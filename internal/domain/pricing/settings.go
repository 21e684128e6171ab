package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTaxPercent        = errors.New("taxa de imposto deve estar entre 0 e 100")
	ErrInvalidProcessorPercent  = errors.New("taxa da operadora deve estar entre 0 e 100")
	ErrInvalidProcessorFixedFee = errors.New("tarifa fixa da operadora não pode ser negativa")
	ErrInvalidMargin            = errors.New("margem de lucro não pode ser negativa")
	ErrInvalidMaxInstallments   = errors.New("número máximo de parcelas deve ser no mínimo 1")
	ErrInvalidNoFeeInstallments = errors.New("parcelas sem juros deve estar entre 0 e o máximo de parcelas")
	ErrInvalidInterestPercent   = errors.New("juros por parcela não pode ser negativo")
	ErrInvalidMinInstallment    = errors.New("valor mínimo de parcela não pode ser negativo")
)

// Settings representa a configuração de precificação da loja.
// É criada uma única vez (seed) e alterada apenas pelo painel administrativo;
// os cálculos recebem uma cópia por valor, nenhum componente lê estado global.
type Settings struct {
	ID                         string          `json:"id"`
	TaxPercent                 decimal.Decimal `json:"tax_percent"`                  // Imposto sobre a venda (%)
	ProcessorPercent           decimal.Decimal `json:"processor_percent"`            // Taxa percentual da operadora de cartão
	ProcessorFixedFee          decimal.Decimal `json:"processor_fixed_fee"`          // Tarifa fixa da operadora por transação
	DefaultMarginPercent       decimal.Decimal `json:"default_margin_percent"`       // Margem de lucro padrão (%)
	MaxInstallments            int             `json:"max_installments"`             // Número máximo de parcelas
	NoFeeInstallments          int             `json:"no_fee_installments"`          // Parcelas sem juros
	InstallmentInterestPercent decimal.Decimal `json:"installment_interest_percent"` // Juros por parcela, composto (%)
	MinInstallmentValue        decimal.Decimal `json:"min_installment_value"`        // Valor mínimo de uma parcela
	UpdatedAt                  time.Time       `json:"updated_at"`
}

// DefaultSettings retorna a configuração inicial usada no seed da loja.
func DefaultSettings() Settings {
	return Settings{
		TaxPercent:                 decimal.NewFromInt(0),
		ProcessorPercent:           decimal.NewFromInt(0),
		ProcessorFixedFee:          decimal.NewFromInt(0),
		DefaultMarginPercent:       decimal.NewFromInt(30),
		MaxInstallments:            12,
		NoFeeInstallments:          3,
		InstallmentInterestPercent: decimal.NewFromInt(0),
		MinInstallmentValue:        decimal.NewFromInt(5),
		UpdatedAt:                  time.Now(),
	}
}

// Validate verifica os invariantes da configuração.
// Margem pode passar de 100 (markup é livre), imposto não.
func (s Settings) Validate() error {
	if !percentInRange(s.TaxPercent) {
		return ErrInvalidTaxPercent
	}
	if !percentInRange(s.ProcessorPercent) {
		return ErrInvalidProcessorPercent
	}
	if s.ProcessorFixedFee.IsNegative() {
		return ErrInvalidProcessorFixedFee
	}
	if s.DefaultMarginPercent.IsNegative() {
		return ErrInvalidMargin
	}
	if s.MaxInstallments < 1 {
		return ErrInvalidMaxInstallments
	}
	if s.NoFeeInstallments < 0 || s.NoFeeInstallments > s.MaxInstallments {
		return ErrInvalidNoFeeInstallments
	}
	if s.InstallmentInterestPercent.IsNegative() {
		return ErrInvalidInterestPercent
	}
	if s.MinInstallmentValue.IsNegative() {
		return ErrInvalidMinInstallment
	}
	return nil
}

func percentInRange(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(decimal.NewFromInt(100))
}

// Repository define as operações de persistência para a configuração de precificação
type Repository interface {
	// Get busca a configuração vigente da loja
	Get(ctx context.Context) (*Settings, error)

	// Save grava a configuração, substituindo a vigente
	Save(ctx context.Context, settings *Settings) error
}
