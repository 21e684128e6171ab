package exchange

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/loja-backend/pkg/logger"
)

// fakeFetcher simula o provedor externo de cotação
type fakeFetcher struct {
	mu    sync.Mutex
	value decimal.Decimal
	err   error
	delay time.Duration
	calls int32
}

func (f *fakeFetcher) Fetch(ctx context.Context) (decimal.Decimal, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return decimal.Decimal{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

func (f *fakeFetcher) set(value decimal.Decimal, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = value
	f.err = err
}

func (f *fakeFetcher) callCount() int32 {
	return atomic.LoadInt32(&f.calls)
}

func TestProviderFetchesWhenCacheEmpty(t *testing.T) {
	fetcher := &fakeFetcher{value: decimal.NewFromFloat(5.25)}
	provider := NewProvider(fetcher, 30*time.Minute, logger.Nop{})

	rate, err := provider.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.25", rate.Value.String())
	assert.Equal(t, SourceFresh, rate.Source)
	assert.EqualValues(t, 1, fetcher.callCount())
}

func TestProviderServesFreshCacheWithoutRefetch(t *testing.T) {
	fetcher := &fakeFetcher{value: decimal.NewFromFloat(5.25)}
	provider := NewProvider(fetcher, 30*time.Minute, logger.Nop{})

	_, err := provider.Get(context.Background())
	require.NoError(t, err)

	// Cotação mudou no provedor, mas o cache ainda vale.
	fetcher.set(decimal.NewFromFloat(6.00), nil)

	rate, err := provider.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.25", rate.Value.String())
	assert.Equal(t, SourceCached, rate.Source)
	assert.EqualValues(t, 1, fetcher.callCount())
}

func TestProviderRefetchesAfterTTL(t *testing.T) {
	fetcher := &fakeFetcher{value: decimal.NewFromFloat(5.25)}
	provider := NewProvider(fetcher, time.Nanosecond, logger.Nop{})

	_, err := provider.Get(context.Background())
	require.NoError(t, err)

	fetcher.set(decimal.NewFromFloat(5.40), nil)
	time.Sleep(time.Millisecond)

	rate, err := provider.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.4", rate.Value.String())
	assert.Equal(t, SourceFresh, rate.Source)
	assert.EqualValues(t, 2, fetcher.callCount())
}

func TestProviderManualRateWins(t *testing.T) {
	fetcher := &fakeFetcher{value: decimal.NewFromFloat(5.25)}
	provider := NewProvider(fetcher, 30*time.Minute, logger.Nop{})

	require.NoError(t, provider.SetManual(decimal.NewFromFloat(4.90)))

	rate, err := provider.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.9", rate.Value.String())
	assert.Equal(t, SourceManual, rate.Source)
	assert.EqualValues(t, 0, fetcher.callCount(), "cotação manual não deve consultar o provedor")

	provider.ClearManual()

	rate, err = provider.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.25", rate.Value.String())
	assert.Equal(t, SourceFresh, rate.Source)
}

func TestProviderRejectsNonPositiveManualRate(t *testing.T) {
	provider := NewProvider(&fakeFetcher{}, 30*time.Minute, logger.Nop{})

	assert.ErrorIs(t, provider.SetManual(decimal.Zero), ErrInvalidManualRate)
	assert.ErrorIs(t, provider.SetManual(decimal.NewFromFloat(-1)), ErrInvalidManualRate)
}

func TestProviderFallsBackToStaleCache(t *testing.T) {
	fetcher := &fakeFetcher{value: decimal.NewFromFloat(5.25)}
	provider := NewProvider(fetcher, time.Nanosecond, logger.Nop{})

	_, err := provider.Get(context.Background())
	require.NoError(t, err)

	fetcher.set(decimal.Decimal{}, errors.New("timeout do provedor"))
	time.Sleep(time.Millisecond)

	rate, err := provider.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.25", rate.Value.String())
	assert.Equal(t, SourceCached, rate.Source)
}

func TestProviderUnavailableWithoutCache(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("timeout do provedor")}
	provider := NewProvider(fetcher, 30*time.Minute, logger.Nop{})

	_, err := provider.Get(context.Background())
	assert.ErrorIs(t, err, ErrRateUnavailable)
}

func TestProviderRejectsNonPositiveFetchedRate(t *testing.T) {
	fetcher := &fakeFetcher{value: decimal.Zero}
	provider := NewProvider(fetcher, 30*time.Minute, logger.Nop{})

	_, err := provider.Get(context.Background())
	assert.ErrorIs(t, err, ErrRateUnavailable)
}

func TestProviderRefreshIgnoresTTL(t *testing.T) {
	fetcher := &fakeFetcher{value: decimal.NewFromFloat(5.25)}
	provider := NewProvider(fetcher, 30*time.Minute, logger.Nop{})

	_, err := provider.Get(context.Background())
	require.NoError(t, err)

	fetcher.set(decimal.NewFromFloat(5.60), nil)

	rate, err := provider.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.6", rate.Value.String())
	assert.EqualValues(t, 2, fetcher.callCount())

	// O cache foi renovado pelo Refresh.
	rate, err = provider.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.6", rate.Value.String())
	assert.Equal(t, SourceCached, rate.Source)
}

func TestProviderRefreshFailureKeepsCache(t *testing.T) {
	fetcher := &fakeFetcher{value: decimal.NewFromFloat(5.25)}
	provider := NewProvider(fetcher, 30*time.Minute, logger.Nop{})

	_, err := provider.Get(context.Background())
	require.NoError(t, err)

	fetcher.set(decimal.Decimal{}, errors.New("timeout do provedor"))

	_, err = provider.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRateRefreshFailed)

	rate, err := provider.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.25", rate.Value.String())
}

func TestProviderDeduplicatesConcurrentFetches(t *testing.T) {
	fetcher := &fakeFetcher{value: decimal.NewFromFloat(5.25), delay: 50 * time.Millisecond}
	provider := NewProvider(fetcher, 30*time.Minute, logger.Nop{})

	const goroutines = 10
	var wg sync.WaitGroup
	results := make([]Rate, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = provider.Get(context.Background())
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, fetcher.callCount(), "buscas concorrentes devem compartilhar uma única chamada")
	for i := 0; i < goroutines; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "5.25", results[i].Value.String())
	}
}

func TestRateFreshWithin(t *testing.T) {
	now := time.Now()
	rate := Rate{Value: decimal.NewFromFloat(5.25), Source: SourceFresh, ObservedAt: now.Add(-10 * time.Minute)}

	assert.True(t, rate.FreshWithin(30*time.Minute, now))
	assert.False(t, rate.FreshWithin(5*time.Minute, now))
}
