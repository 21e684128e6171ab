package pricing

import "github.com/shopspring/decimal"

// Installment representa uma opção de parcelamento oferecida ao cliente
type Installment struct {
	Count int             `json:"count"`  // Número de parcelas
	Value decimal.Decimal `json:"value"`  // Valor de cada parcela
	NoFee bool            `json:"no_fee"` // Indica parcelamento sem juros
}

// PlanInstallments monta a tabela de parcelamento para um preço de venda.
// Função pura e determinística: gera uma opção por número de parcelas de 1 até
// o máximo configurado, marca como sem juros as que estão dentro do limite da
// loja e aplica juros compostos por parcela nas demais. Opções cuja parcela
// ficaria abaixo do valor mínimo são suprimidas; a lista resultante é sempre
// crescente no número de parcelas e pode legitimamente ser vazia.
func PlanInstallments(deviceValue decimal.Decimal, settings Settings) []Installment {
	options := make([]Installment, 0, settings.MaxInstallments)

	interestFactor := decimal.NewFromInt(1).Add(settings.InstallmentInterestPercent.Div(oneHundred))

	for count := 1; count <= settings.MaxInstallments; count++ {
		noFee := count <= settings.NoFeeInstallments

		total := deviceValue
		if !noFee {
			total = deviceValue.Mul(interestFactor.Pow(decimal.NewFromInt(int64(count))))
		}

		value := total.Div(decimal.NewFromInt(int64(count))).Round(2)
		if value.LessThan(settings.MinInstallmentValue) {
			continue
		}

		options = append(options, Installment{
			Count: count,
			Value: value,
			NoFee: noFee,
		})
	}

	return options
}
