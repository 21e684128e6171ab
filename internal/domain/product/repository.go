package product

import (
	"context"
)

// Repository define as operações de persistência para produtos e variações
type Repository interface {
	// CreateProduct persiste um novo produto
	CreateProduct(ctx context.Context, p *Product) error

	// FindProductByID busca um produto pelo ID
	FindProductByID(ctx context.Context, id string) (*Product, error)

	// ListProducts retorna uma lista paginada de produtos ativos
	ListProducts(ctx context.Context, limit, offset int) ([]*Product, error)

	// CreateVariant persiste uma nova variação
	CreateVariant(ctx context.Context, v *Variant) error

	// FindVariantByID busca uma variação pelo ID
	FindVariantByID(ctx context.Context, id string) (*Variant, error)

	// ListVariantsByProduct retorna as variações de um produto
	ListVariantsByProduct(ctx context.Context, productID string) ([]Variant, error)
}

// StockTx expõe as operações de estoque disponíveis dentro de uma transação.
// As leituras travam as linhas envolvidas até o commit, de modo que mutações
// concorrentes em variações irmãs do mesmo produto se serializam e a soma
// recalculada sempre enxerga o conjunto de variações já atualizado.
type StockTx interface {
	// VariantForUpdate carrega uma variação com trava de escrita
	VariantForUpdate(ctx context.Context, variantID string) (*Variant, error)

	// SaveVariant grava estoque e números de série de uma variação
	SaveVariant(ctx context.Context, v *Variant) error

	// ProductOfVariant carrega o produto dono de uma variação com trava de escrita
	ProductOfVariant(ctx context.Context, variantID string) (*Product, error)

	// ProductForUpdate carrega um produto com trava de escrita
	ProductForUpdate(ctx context.Context, productID string) (*Product, error)

	// SumActiveVariantStock soma o estoque das variações ativas de um produto
	SumActiveVariantStock(ctx context.Context, productID string) (int, error)

	// SetProductStock grava o estoque agregado do produto
	SetProductStock(ctx context.Context, productID string, stock int) error
}

// StockStore abre transações de estoque.
// Nenhum estado intermediário da mutação é observável fora da transação.
type StockStore interface {
	InStockTx(ctx context.Context, fn func(tx StockTx) error) error
}
