package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/loja-backend/internal/domain/exchange"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testSettings() Settings {
	return Settings{
		TaxPercent:                 dec("15"),
		ProcessorPercent:           dec("4"),
		ProcessorFixedFee:          dec("0.5"),
		DefaultMarginPercent:       dec("30"),
		MaxInstallments:            12,
		NoFeeInstallments:          3,
		InstallmentInterestPercent: dec("0"),
		MinInstallmentValue:        dec("5"),
		UpdatedAt:                  time.Now(),
	}
}

func TestCalculateBreakdown(t *testing.T) {
	b, err := Calculate(CalculateInput{Cost: decPtr("1000")}, testSettings())
	require.NoError(t, err)

	assert.Equal(t, "1000", b.Cost.String())
	assert.Equal(t, "300", b.MarginAmount.String())
	assert.Equal(t, "195", b.TaxAmount.String())
	assert.Equal(t, "60.3", b.ProcessorAmount.String())
	assert.Equal(t, "0", b.DiscountAmount.String())
	assert.Equal(t, "1555.3", b.IdealValue.String())
	assert.Equal(t, "1555.3", b.DeviceValue.String())
	assert.Equal(t, "1300", b.RealValue.String())
	assert.Equal(t, "300", b.Profit.String())
	assert.Equal(t, "23.08", b.ProfitMargin.String())
}

func TestCalculateDeterministic(t *testing.T) {
	in := CalculateInput{Cost: decPtr("757.43"), DiscountPercent: dec("7.5")}
	settings := testSettings()

	first, err := Calculate(in, settings)
	require.NoError(t, err)
	second, err := Calculate(in, settings)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculateWithDiscount(t *testing.T) {
	b, err := Calculate(CalculateInput{Cost: decPtr("1000"), DiscountPercent: dec("10")}, testSettings())
	require.NoError(t, err)

	// O desconto incide sobre o preço de tabela; as taxas não são refeitas,
	// então o desconto sai inteiro do lucro.
	assert.Equal(t, "155.53", b.DiscountAmount.String())
	assert.Equal(t, "1399.77", b.DeviceValue.String())
	assert.Equal(t, "1144.47", b.RealValue.String())
	assert.Equal(t, "144.47", b.Profit.String())
}

func TestCalculateCostInDollars(t *testing.T) {
	rate := exchange.Rate{Value: dec("5.25"), Source: exchange.SourceFresh, ObservedAt: time.Now()}

	b, err := Calculate(CalculateInput{CostUSD: decPtr("200"), Rate: rate}, testSettings())
	require.NoError(t, err)

	assert.Equal(t, "1050", b.Cost.String())
}

func TestCalculateMarginRoundTrip(t *testing.T) {
	// Sem desconto, o valor líquido menos o custo devolve exatamente a
	// margem pedida.
	costs := []string{"10", "123.45", "999.99", "14350"}
	margins := []string{"0", "12.5", "30", "150"}

	for _, cost := range costs {
		for _, margin := range margins {
			b, err := Calculate(CalculateInput{Cost: decPtr(cost), MarginPercent: decPtr(margin)}, testSettings())
			require.NoError(t, err)

			expected := dec(cost).Mul(dec(margin)).Div(decimal.NewFromInt(100)).Round(2)
			assert.True(t, b.RealValue.Sub(b.Cost).Sub(expected).Abs().LessThanOrEqual(dec("0.01")),
				"cost=%s margin=%s real=%s", cost, margin, b.RealValue)
		}
	}
}

func TestCalculateMonotonicity(t *testing.T) {
	base := testSettings()

	baseline, err := Calculate(CalculateInput{Cost: decPtr("500")}, base)
	require.NoError(t, err)

	higherMargin, err := Calculate(CalculateInput{Cost: decPtr("500"), MarginPercent: decPtr("31")}, base)
	require.NoError(t, err)
	assert.True(t, higherMargin.IdealValue.GreaterThan(baseline.IdealValue))

	moreTax := base
	moreTax.TaxPercent = dec("16")
	taxed, err := Calculate(CalculateInput{Cost: decPtr("500")}, moreTax)
	require.NoError(t, err)
	assert.True(t, taxed.IdealValue.GreaterThan(baseline.IdealValue))

	moreProcessor := base
	moreProcessor.ProcessorPercent = dec("5")
	processed, err := Calculate(CalculateInput{Cost: decPtr("500")}, moreProcessor)
	require.NoError(t, err)
	assert.True(t, processed.IdealValue.GreaterThan(baseline.IdealValue))

	discounted, err := Calculate(CalculateInput{Cost: decPtr("500"), DiscountPercent: dec("1")}, base)
	require.NoError(t, err)
	assert.True(t, discounted.DeviceValue.LessThan(baseline.DeviceValue))
}

func TestCalculateDegenerateSale(t *testing.T) {
	// Custo zero sem taxas zera o valor líquido; a margem efetiva é
	// reportada como zero em vez de dividir por zero.
	settings := testSettings()
	settings.TaxPercent = decimal.Zero
	settings.ProcessorPercent = decimal.Zero
	settings.ProcessorFixedFee = decimal.Zero

	b, err := Calculate(CalculateInput{Cost: decPtr("0"), MarginPercent: decPtr("0")}, settings)
	require.NoError(t, err)

	assert.True(t, b.RealValue.IsZero())
	assert.True(t, b.ProfitMargin.IsZero())
}

func TestCalculateInvalidInput(t *testing.T) {
	settings := testSettings()

	tests := []struct {
		name string
		in   CalculateInput
	}{
		{"sem custo", CalculateInput{}},
		{"custo em reais e em dólar", CalculateInput{Cost: decPtr("10"), CostUSD: decPtr("2")}},
		{"custo negativo", CalculateInput{Cost: decPtr("-1")}},
		{"custo em dólar negativo", CalculateInput{CostUSD: decPtr("-1"), Rate: exchange.Rate{Value: dec("5")}}},
		{"cotação inválida", CalculateInput{CostUSD: decPtr("10")}},
		{"margem negativa", CalculateInput{Cost: decPtr("10"), MarginPercent: decPtr("-5")}},
		{"desconto acima de 100", CalculateInput{Cost: decPtr("10"), DiscountPercent: dec("101")}},
		{"desconto negativo", CalculateInput{Cost: decPtr("10"), DiscountPercent: dec("-1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.in, settings)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCalculateRejectsInvalidSettings(t *testing.T) {
	settings := testSettings()
	settings.TaxPercent = dec("120")

	_, err := Calculate(CalculateInput{Cost: decPtr("10")}, settings)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculateMarginAboveOneHundred(t *testing.T) {
	b, err := Calculate(CalculateInput{Cost: decPtr("100"), MarginPercent: decPtr("250")}, testSettings())
	require.NoError(t, err)

	assert.Equal(t, "250", b.MarginAmount.String())
}
