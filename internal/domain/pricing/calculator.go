package pricing

import (
	"errors"
	"fmt"

	"github.com/hugohenrick/loja-backend/internal/domain/exchange"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput é retornado quando os argumentos do cálculo são inválidos
	ErrInvalidInput = errors.New("entrada inválida para o cálculo de preço")
)

var oneHundred = decimal.NewFromInt(100)

// CalculateInput representa as entradas do cálculo de preço.
// Exatamente um entre Cost e CostUSD deve ser informado; CostUSD é convertido
// pela cotação recebida. MarginPercent nulo usa a margem padrão da configuração.
type CalculateInput struct {
	Cost            *decimal.Decimal
	CostUSD         *decimal.Decimal
	Rate            exchange.Rate
	MarginPercent   *decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Breakdown representa o detalhamento completo do preço de venda.
// É calculado sob demanda e nunca persistido; todos os valores monetários
// são arredondados para 2 casas apenas na montagem do resultado.
type Breakdown struct {
	Cost            decimal.Decimal `json:"cost"`             // Custo do produto em reais
	MarginAmount    decimal.Decimal `json:"margin_amount"`    // Margem de lucro desejada em valor
	TaxAmount       decimal.Decimal `json:"tax_amount"`       // Imposto embutido
	ProcessorAmount decimal.Decimal `json:"processor_amount"` // Taxas da operadora embutidas
	DiscountAmount  decimal.Decimal `json:"discount_amount"`  // Desconto promocional aplicado
	IdealValue      decimal.Decimal `json:"ideal_value"`      // Preço de tabela, antes do desconto
	DeviceValue     decimal.Decimal `json:"device_value"`     // Preço final de venda, após o desconto
	RealValue       decimal.Decimal `json:"real_value"`       // Valor líquido recebido pela loja
	Profit          decimal.Decimal `json:"profit"`           // Lucro efetivo (real - custo)
	ProfitMargin    decimal.Decimal `json:"profit_margin"`    // Margem efetiva sobre o valor líquido (%)
	Installments    []Installment   `json:"installments"`     // Tabela de parcelamento
}

// Calculate deriva o detalhamento de preço a partir do custo e da configuração.
// Função pura: entradas idênticas produzem sempre o mesmo resultado, o que
// permite espelhar o cálculo no formulário do painel sem divergência.
//
// Ordem de composição (cada passo incide sobre a base acumulada):
//
//	ideal = ((custo + margem) + imposto) + taxas da operadora
//	venda = ideal - desconto
//
// As taxas são calculadas sobre a base sem desconto e não são refeitas após o
// desconto: um desconto reduz o lucro da loja, não o custo das taxas. Essa é
// uma decisão de política comercial, não um efeito colateral.
func Calculate(in CalculateInput, settings Settings) (*Breakdown, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cost, err := resolveCost(in)
	if err != nil {
		return nil, err
	}

	margin := settings.DefaultMarginPercent
	if in.MarginPercent != nil {
		margin = *in.MarginPercent
	}
	if margin.IsNegative() {
		return nil, fmt.Errorf("%w: margem de lucro não pode ser negativa", ErrInvalidInput)
	}
	if !percentInRange(in.DiscountPercent) {
		return nil, fmt.Errorf("%w: desconto deve estar entre 0 e 100", ErrInvalidInput)
	}

	marginAmount := cost.Mul(margin).Div(oneHundred)
	running := cost.Add(marginAmount)

	taxAmount := running.Mul(settings.TaxPercent).Div(oneHundred)
	running = running.Add(taxAmount)

	processorAmount := running.Mul(settings.ProcessorPercent).Div(oneHundred).Add(settings.ProcessorFixedFee)
	idealValue := running.Add(processorAmount)

	discountAmount := idealValue.Mul(in.DiscountPercent).Div(oneHundred)
	deviceValue := idealValue.Sub(discountAmount)

	realValue := deviceValue.Sub(taxAmount).Sub(processorAmount)
	profit := realValue.Sub(cost)

	profitMargin := decimal.Zero
	if !realValue.IsZero() {
		// Venda totalmente descontada zera o valor líquido; a margem é
		// reportada como 0 em vez de estourar a divisão.
		profitMargin = profit.Div(realValue).Mul(oneHundred)
	}

	return &Breakdown{
		Cost:            round(cost),
		MarginAmount:    round(marginAmount),
		TaxAmount:       round(taxAmount),
		ProcessorAmount: round(processorAmount),
		DiscountAmount:  round(discountAmount),
		IdealValue:      round(idealValue),
		DeviceValue:     round(deviceValue),
		RealValue:       round(realValue),
		Profit:          round(profit),
		ProfitMargin:    round(profitMargin),
		Installments:    PlanInstallments(deviceValue, settings),
	}, nil
}

// resolveCost valida e resolve o custo em reais a partir da entrada.
func resolveCost(in CalculateInput) (decimal.Decimal, error) {
	switch {
	case in.Cost != nil && in.CostUSD != nil:
		return decimal.Zero, fmt.Errorf("%w: informe o custo em reais ou em dólar, não ambos", ErrInvalidInput)
	case in.Cost == nil && in.CostUSD == nil:
		return decimal.Zero, fmt.Errorf("%w: custo não informado", ErrInvalidInput)
	case in.Cost != nil:
		if in.Cost.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: custo não pode ser negativo", ErrInvalidInput)
		}
		return *in.Cost, nil
	default:
		if in.CostUSD.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: custo em dólar não pode ser negativo", ErrInvalidInput)
		}
		if !in.Rate.Value.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: cotação do dólar inválida", ErrInvalidInput)
		}
		return in.CostUSD.Mul(in.Rate.Value), nil
	}
}

// round aplica o arredondamento de apresentação: meio para cima, 2 casas.
func round(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
