package product

import (
	"context"
	"fmt"

	"github.com/hugohenrick/loja-backend/pkg/logger"
)

// Aggregator mantém os invariantes de estoque do catálogo:
//
//	variação com controle de série: estoque == quantidade de números de série
//	produto variante-dirigido:      estoque == soma das variações ativas
//
// Toda operação mutadora roda inteira dentro de uma única transação; qualquer
// erro aborta a mutação sem persistir estado parcial.
type Aggregator struct {
	store  StockStore
	logger logger.Logger
}

// NewAggregator cria um novo Aggregator
func NewAggregator(store StockStore, log logger.Logger) *Aggregator {
	return &Aggregator{store: store, logger: log}
}

// RecomputeProductStock rederiva o estoque agregado de um produto.
// Sem efeito para produtos que não derivam estoque das variações.
func (a *Aggregator) RecomputeProductStock(ctx context.Context, productID string) error {
	return a.store.InStockTx(ctx, func(tx StockTx) error {
		p, err := tx.ProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		return a.syncProduct(ctx, tx, p)
	})
}

// SetVariantStock ajusta o estoque de uma variação sem controle de série e
// rederiva o total do produto na mesma transação
func (a *Aggregator) SetVariantStock(ctx context.Context, variantID string, qty int) (*Variant, error) {
	return a.mutateVariant(ctx, variantID, func(v *Variant) error {
		return v.SetStock(qty)
	})
}

// AddSerial registra um número de série em uma variação, rederivando o
// estoque da variação e o total do produto na mesma transação
func (a *Aggregator) AddSerial(ctx context.Context, variantID, serial string) (*Variant, error) {
	return a.mutateVariant(ctx, variantID, func(v *Variant) error {
		return v.AddSerial(serial)
	})
}

// RemoveSerial remove um número de série de uma variação, rederivando o
// estoque da variação e o total do produto na mesma transação
func (a *Aggregator) RemoveSerial(ctx context.Context, variantID, serial string) (*Variant, error) {
	return a.mutateVariant(ctx, variantID, func(v *Variant) error {
		return v.RemoveSerial(serial)
	})
}

func (a *Aggregator) mutateVariant(ctx context.Context, variantID string, mutate func(*Variant) error) (*Variant, error) {
	var result *Variant

	err := a.store.InStockTx(ctx, func(tx StockTx) error {
		v, err := tx.VariantForUpdate(ctx, variantID)
		if err != nil {
			return err
		}

		if err := mutate(v); err != nil {
			return err
		}

		if err := tx.SaveVariant(ctx, v); err != nil {
			return fmt.Errorf("falha ao gravar variação: %w", err)
		}

		p, err := tx.ProductOfVariant(ctx, variantID)
		if err != nil {
			return err
		}

		if err := a.syncProduct(ctx, tx, p); err != nil {
			return err
		}

		result = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// syncProduct rederiva o estoque agregado com as variações já travadas
func (a *Aggregator) syncProduct(ctx context.Context, tx StockTx, p *Product) error {
	if !p.HasVariations {
		return nil
	}

	total, err := tx.SumActiveVariantStock(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("falha ao somar estoque das variações: %w", err)
	}

	if err := tx.SetProductStock(ctx, p.ID, total); err != nil {
		return fmt.Errorf("falha ao gravar estoque do produto: %w", err)
	}

	a.logger.Debug("estoque agregado atualizado", "produto", p.ID, "estoque", total)
	return nil
}
