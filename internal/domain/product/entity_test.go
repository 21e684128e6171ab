package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSerialVariant(t *testing.T) *Variant {
	t.Helper()
	v, err := NewVariant("prod-1", "IPH15-128-PRETO", []Attribute{
		{Name: "cor", Value: "preto"},
		{Name: "armazenamento", Value: "128GB"},
	}, decimal.NewFromInt(3500), true)
	require.NoError(t, err)
	return v
}

func TestNewProductValidation(t *testing.T) {
	p, err := NewProduct("iPhone 15", "Smartphone Apple", true)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Active)
	assert.Zero(t, p.Stock)

	_, err = NewProduct("", "sem nome", false)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestNewVariantValidation(t *testing.T) {
	_, err := NewVariant("prod-1", "", nil, decimal.Zero, false)
	assert.ErrorIs(t, err, ErrEmptySKU)

	_, err = NewVariant("prod-1", "SKU-1", []Attribute{{Name: "cor", Value: ""}}, decimal.Zero, false)
	assert.ErrorIs(t, err, ErrInvalidAttributes)

	_, err = NewVariant("prod-1", "SKU-1", []Attribute{{Name: "", Value: "preto"}}, decimal.Zero, false)
	assert.ErrorIs(t, err, ErrInvalidAttributes)
}

func TestVariantSerialLifecycle(t *testing.T) {
	v := newSerialVariant(t)

	require.NoError(t, v.AddSerial("SN-001"))
	require.NoError(t, v.AddSerial("SN-002"))
	assert.Equal(t, 2, v.Stock)
	assert.Len(t, v.Serials, v.Stock)

	require.NoError(t, v.RemoveSerial("SN-001"))
	assert.Equal(t, 1, v.Stock)
	assert.Equal(t, []string{"SN-002"}, v.Serials)
}

func TestVariantAddSerialRejectsDuplicate(t *testing.T) {
	v := newSerialVariant(t)

	require.NoError(t, v.AddSerial("SN-001"))
	err := v.AddSerial("SN-001")
	assert.ErrorIs(t, err, ErrDuplicateSerial)

	// A falha não pode deixar o invariante quebrado.
	assert.Equal(t, 1, v.Stock)
	assert.Len(t, v.Serials, 1)
}

func TestVariantAddSerialRejectsEmpty(t *testing.T) {
	v := newSerialVariant(t)
	assert.ErrorIs(t, v.AddSerial(""), ErrEmptySerial)
	assert.Zero(t, v.Stock)
}

func TestVariantRemoveSerialNotFound(t *testing.T) {
	v := newSerialVariant(t)
	require.NoError(t, v.AddSerial("SN-001"))

	assert.ErrorIs(t, v.RemoveSerial("SN-999"), ErrSerialNotFound)
	assert.Equal(t, 1, v.Stock)
}

func TestVariantSetStock(t *testing.T) {
	v, err := NewVariant("prod-1", "CABO-USB-C", nil, decimal.NewFromInt(15), false)
	require.NoError(t, err)

	require.NoError(t, v.SetStock(42))
	assert.Equal(t, 42, v.Stock)

	assert.ErrorIs(t, v.SetStock(-1), ErrNegativeStock)
	assert.Equal(t, 42, v.Stock)
}

func TestVariantSetStockRejectedWhenSerialControlled(t *testing.T) {
	v := newSerialVariant(t)
	require.NoError(t, v.AddSerial("SN-001"))

	assert.ErrorIs(t, v.SetStock(10), ErrSerialControlled)
	assert.Equal(t, 1, v.Stock, "estoque continua derivado dos números de série")
}

func TestProductRecomputeStock(t *testing.T) {
	p, err := NewProduct("iPhone 15", "", true)
	require.NoError(t, err)

	variants := []Variant{
		{SKU: "A", Stock: 3, Active: true},
		{SKU: "B", Stock: 5, Active: true},
		{SKU: "C", Stock: 7, Active: false},
	}

	p.RecomputeStock(variants)
	assert.Equal(t, 8, p.Stock, "variações inativas ficam de fora da soma")

	// Idempotente.
	p.RecomputeStock(variants)
	assert.Equal(t, 8, p.Stock)

	p.RecomputeStock(nil)
	assert.Zero(t, p.Stock)
}

func TestProductRecomputeStockWithoutVariations(t *testing.T) {
	p, err := NewProduct("Cabo USB-C", "", false)
	require.NoError(t, err)
	p.Stock = 42

	p.RecomputeStock([]Variant{{SKU: "A", Stock: 3, Active: true}})
	assert.Equal(t, 42, p.Stock, "produto sem variações mantém estoque próprio")
}
