package exchange

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hugohenrick/loja-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrRateUnavailable é retornado quando não há cotação alguma disponível
	ErrRateUnavailable = errors.New("cotação indisponível: sem cache e sem resposta do provedor")
	// ErrRateRefreshFailed é retornado quando a atualização forçada falha
	ErrRateRefreshFailed = errors.New("falha ao atualizar a cotação")
	// ErrInvalidManualRate é retornado ao fixar uma cotação manual não positiva
	ErrInvalidManualRate = errors.New("cotação manual deve ser maior que zero")
)

// Fetcher busca a cotação atual em um provedor externo
type Fetcher interface {
	Fetch(ctx context.Context) (decimal.Decimal, error)
}

// Provider mantém a cotação do dólar usada pela precificação.
// O cache é o único estado mutável do componente e só é escrito aqui;
// buscas concorrentes com cache vencido compartilham uma única chamada
// ao provedor externo via singleflight.
type Provider struct {
	fetcher      Fetcher
	ttl          time.Duration
	fetchTimeout time.Duration
	logger       logger.Logger

	mu     sync.RWMutex
	cached *Rate
	manual *decimal.Decimal

	group singleflight.Group
}

// NewProvider cria um novo Provider com o TTL de cache informado
func NewProvider(fetcher Fetcher, ttl time.Duration, log logger.Logger) *Provider {
	return &Provider{
		fetcher:      fetcher,
		ttl:          ttl,
		fetchTimeout: 5 * time.Second,
		logger:       log,
	}
}

// Get retorna a cotação vigente.
// Prioridade: cotação manual, cache dentro do TTL, busca ao vivo. Se a busca
// falhar e existir cache (mesmo vencido), o cache é retornado como "cached" em
// vez de propagar a indisponibilidade do provedor; sem cache algum, falha com
// ErrRateUnavailable.
func (p *Provider) Get(ctx context.Context) (Rate, error) {
	p.mu.RLock()
	manual := p.manual
	cached := p.cached
	p.mu.RUnlock()

	if manual != nil {
		return Rate{Value: *manual, Source: SourceManual, ObservedAt: time.Now()}, nil
	}

	if cached != nil && cached.FreshWithin(p.ttl, time.Now()) {
		return Rate{Value: cached.Value, Source: SourceCached, ObservedAt: cached.ObservedAt}, nil
	}

	rate, err := p.fetchShared(ctx)
	if err == nil {
		return rate, nil
	}

	if cached != nil {
		p.logger.Warn("cotação: usando cache vencido após falha do provedor", "erro", err)
		return Rate{Value: cached.Value, Source: SourceCached, ObservedAt: cached.ObservedAt}, nil
	}

	return Rate{}, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
}

// Refresh força uma busca ao provedor externo ignorando o TTL.
// Em caso de falha o cache existente permanece intacto.
func (p *Provider) Refresh(ctx context.Context) (Rate, error) {
	rate, err := p.fetchShared(ctx)
	if err != nil {
		return Rate{}, fmt.Errorf("%w: %v", ErrRateRefreshFailed, err)
	}
	return rate, nil
}

// SetManual fixa uma cotação manual; enquanto ativa, ela vence o cache e o provedor
func (p *Provider) SetManual(value decimal.Decimal) error {
	if !value.IsPositive() {
		return ErrInvalidManualRate
	}
	p.mu.Lock()
	p.manual = &value
	p.mu.Unlock()
	return nil
}

// ClearManual remove a cotação manual, voltando ao fluxo cache/provedor
func (p *Provider) ClearManual() {
	p.mu.Lock()
	p.manual = nil
	p.mu.Unlock()
}

// fetchShared executa a busca ao vivo compartilhando chamadas concorrentes
func (p *Provider) fetchShared(ctx context.Context) (Rate, error) {
	v, err, _ := p.group.Do("usd-brl", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()

		value, err := p.fetcher.Fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if !value.IsPositive() {
			return nil, fmt.Errorf("provedor retornou cotação inválida: %s", value)
		}

		rate := Rate{Value: value, Source: SourceFresh, ObservedAt: time.Now()}

		p.mu.Lock()
		p.cached = &rate
		p.mu.Unlock()

		return rate, nil
	})
	if err != nil {
		return Rate{}, err
	}
	return v.(Rate), nil
}
