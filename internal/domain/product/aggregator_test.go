package product

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/loja-backend/pkg/logger"
)

// memoryStockStore simula o banco em memória serializando as transações com um
// mutex; mutações só são aplicadas no commit, como no Postgres.
type memoryStockStore struct {
	mu       sync.Mutex
	products map[string]*Product
	variants map[string]*Variant
}

func newMemoryStockStore() *memoryStockStore {
	return &memoryStockStore{
		products: make(map[string]*Product),
		variants: make(map[string]*Variant),
	}
}

func (s *memoryStockStore) InStockTx(ctx context.Context, fn func(tx StockTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryStockTx{
		store:    s,
		products: make(map[string]*Product),
		variants: make(map[string]*Variant),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type memoryStockTx struct {
	store    *memoryStockStore
	products map[string]*Product
	variants map[string]*Variant
}

func (t *memoryStockTx) commit() {
	for id, v := range t.variants {
		t.store.variants[id] = v
	}
	for id, p := range t.products {
		t.store.products[id] = p
	}
}

func (t *memoryStockTx) VariantForUpdate(ctx context.Context, variantID string) (*Variant, error) {
	if v, ok := t.variants[variantID]; ok {
		return v, nil
	}
	stored, ok := t.store.variants[variantID]
	if !ok {
		return nil, errors.New("variação não encontrada")
	}
	clone := *stored
	clone.Serials = append([]string(nil), stored.Serials...)
	t.variants[variantID] = &clone
	return &clone, nil
}

func (t *memoryStockTx) SaveVariant(ctx context.Context, v *Variant) error {
	t.variants[v.ID] = v
	return nil
}

func (t *memoryStockTx) ProductOfVariant(ctx context.Context, variantID string) (*Product, error) {
	v, err := t.VariantForUpdate(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return t.ProductForUpdate(ctx, v.ProductID)
}

func (t *memoryStockTx) ProductForUpdate(ctx context.Context, productID string) (*Product, error) {
	if p, ok := t.products[productID]; ok {
		return p, nil
	}
	stored, ok := t.store.products[productID]
	if !ok {
		return nil, errors.New("produto não encontrado")
	}
	clone := *stored
	t.products[productID] = &clone
	return &clone, nil
}

func (t *memoryStockTx) SumActiveVariantStock(ctx context.Context, productID string) (int, error) {
	seen := make(map[string]bool)
	total := 0
	for id, v := range t.variants {
		seen[id] = true
		if v.ProductID == productID && v.Active {
			total += v.Stock
		}
	}
	for id, v := range t.store.variants {
		if seen[id] {
			continue
		}
		if v.ProductID == productID && v.Active {
			total += v.Stock
		}
	}
	return total, nil
}

func (t *memoryStockTx) SetProductStock(ctx context.Context, productID string, stock int) error {
	p, err := t.ProductForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	p.Stock = stock
	return nil
}

func seedCatalog(t *testing.T, store *memoryStockStore) (*Product, *Variant, *Variant) {
	t.Helper()

	p, err := NewProduct("iPhone 15", "", true)
	require.NoError(t, err)
	store.products[p.ID] = p

	serial, err := NewVariant(p.ID, "IPH15-128", nil, decimal.NewFromInt(3500), true)
	require.NoError(t, err)
	store.variants[serial.ID] = serial

	plain, err := NewVariant(p.ID, "IPH15-CAPA", nil, decimal.NewFromInt(50), false)
	require.NoError(t, err)
	store.variants[plain.ID] = plain

	return p, serial, plain
}

func TestAggregatorAddSerialUpdatesProduct(t *testing.T) {
	store := newMemoryStockStore()
	p, serial, _ := seedCatalog(t, store)
	agg := NewAggregator(store, logger.Nop{})

	v, err := agg.AddSerial(context.Background(), serial.ID, "SN-001")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Stock)

	_, err = agg.AddSerial(context.Background(), serial.ID, "SN-002")
	require.NoError(t, err)

	assert.Equal(t, 2, store.products[p.ID].Stock)
	assert.Equal(t, []string{"SN-001", "SN-002"}, store.variants[serial.ID].Serials)
}

func TestAggregatorRemoveSerialUpdatesProduct(t *testing.T) {
	store := newMemoryStockStore()
	p, serial, _ := seedCatalog(t, store)
	agg := NewAggregator(store, logger.Nop{})

	_, err := agg.AddSerial(context.Background(), serial.ID, "SN-001")
	require.NoError(t, err)
	_, err = agg.RemoveSerial(context.Background(), serial.ID, "SN-001")
	require.NoError(t, err)

	assert.Zero(t, store.products[p.ID].Stock)
	assert.Empty(t, store.variants[serial.ID].Serials)
}

func TestAggregatorSetVariantStock(t *testing.T) {
	store := newMemoryStockStore()
	p, _, plain := seedCatalog(t, store)
	agg := NewAggregator(store, logger.Nop{})

	v, err := agg.SetVariantStock(context.Background(), plain.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, v.Stock)
	assert.Equal(t, 10, store.products[p.ID].Stock)
}

func TestAggregatorFailedMutationLeavesStateUntouched(t *testing.T) {
	store := newMemoryStockStore()
	p, serial, _ := seedCatalog(t, store)
	agg := NewAggregator(store, logger.Nop{})

	_, err := agg.AddSerial(context.Background(), serial.ID, "SN-001")
	require.NoError(t, err)

	_, err = agg.AddSerial(context.Background(), serial.ID, "SN-001")
	assert.ErrorIs(t, err, ErrDuplicateSerial)

	_, err = agg.SetVariantStock(context.Background(), serial.ID, 99)
	assert.ErrorIs(t, err, ErrSerialControlled)

	assert.Equal(t, 1, store.products[p.ID].Stock)
	assert.Equal(t, []string{"SN-001"}, store.variants[serial.ID].Serials)
}

func TestAggregatorConcurrentSiblingMutations(t *testing.T) {
	store := newMemoryStockStore()
	p, serial, plain := seedCatalog(t, store)
	agg := NewAggregator(store, logger.Nop{})

	const serialsToAdd = 20
	var wg sync.WaitGroup

	for i := 0; i < serialsToAdd; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := agg.AddSerial(context.Background(), serial.ID, serialNumber(i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := agg.SetVariantStock(context.Background(), plain.ID, 5)
		assert.NoError(t, err)
	}()
	wg.Wait()

	assert.Equal(t, serialsToAdd, store.variants[serial.ID].Stock)
	assert.Equal(t, serialsToAdd+5, store.products[p.ID].Stock)
}

func TestAggregatorRecomputeProductStock(t *testing.T) {
	store := newMemoryStockStore()
	p, serial, plain := seedCatalog(t, store)
	agg := NewAggregator(store, logger.Nop{})

	// Estoques gravados por fora, produto desalinhado.
	store.variants[serial.ID].Stock = 3
	store.variants[plain.ID].Stock = 4
	store.products[p.ID].Stock = 0

	require.NoError(t, agg.RecomputeProductStock(context.Background(), p.ID))
	assert.Equal(t, 7, store.products[p.ID].Stock)

	// Variação inativa sai da soma.
	store.variants[plain.ID].Active = false
	require.NoError(t, agg.RecomputeProductStock(context.Background(), p.ID))
	assert.Equal(t, 3, store.products[p.ID].Stock)
}

func serialNumber(i int) string {
	return string(rune('A'+i/10)) + string(rune('0'+i%10))
}
