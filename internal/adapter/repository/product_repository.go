package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hugohenrick/loja-backend/internal/domain/product"
	"github.com/hugohenrick/loja-backend/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Erros específicos do repositório
var (
	ErrProductNotFound     = errors.New("produto não encontrado")
	ErrVariantNotFound     = errors.New("variação não encontrada")
	ErrVariantDuplicateSKU = errors.New("variação com mesmo SKU já existe")
)

// PostgresProductRepository implementa as interfaces product.Repository e
// product.StockStore usando PostgreSQL
type PostgresProductRepository struct {
	db *database.PostgresDB
}

// NewPostgresProductRepository cria uma nova instância de PostgresProductRepository
func NewPostgresProductRepository(db *database.PostgresDB) *PostgresProductRepository {
	return &PostgresProductRepository{
		db: db,
	}
}

// CreateProduct implementa product.Repository.CreateProduct
func (r *PostgresProductRepository) CreateProduct(ctx context.Context, p *product.Product) error {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return fmt.Errorf("falha ao obter conexão: %w", err)
	}
	defer conn.Release()

	query := `
		INSERT INTO products (id, name, description, has_variations, stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = conn.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.HasVariations, p.Stock, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao inserir produto: %w", err)
	}

	return nil
}

// FindProductByID implementa product.Repository.FindProductByID
func (r *PostgresProductRepository) FindProductByID(ctx context.Context, id string) (*product.Product, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao obter conexão: %w", err)
	}
	defer conn.Release()

	return scanProduct(conn.QueryRow(ctx, productSelect+" WHERE id = $1", id))
}

// ListProducts implementa product.Repository.ListProducts
func (r *PostgresProductRepository) ListProducts(ctx context.Context, limit, offset int) ([]*product.Product, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao obter conexão: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, productSelect+" WHERE active = true ORDER BY name LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar produtos: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// CreateVariant implementa product.Repository.CreateVariant
func (r *PostgresProductRepository) CreateVariant(ctx context.Context, v *product.Variant) error {
	attrs, err := json.Marshal(v.Attributes)
	if err != nil {
		return fmt.Errorf("falha ao serializar atributos: %w", err)
	}

	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO variants (id, product_id, sku, attributes, cost_price, stock, serial_control, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`

		_, err := tx.Exec(ctx, query,
			v.ID, v.ProductID, v.SKU, attrs, v.CostPrice, v.Stock, v.SerialControl, v.Active, v.CreatedAt, v.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				if pgErr.Code == "23505" { // Unique violation
					return ErrVariantDuplicateSKU
				}
				if pgErr.Code == "23503" { // Foreign key violation
					return ErrProductNotFound
				}
			}
			return fmt.Errorf("falha ao inserir variação: %w", err)
		}

		return nil
	})
}

// FindVariantByID implementa product.Repository.FindVariantByID
func (r *PostgresProductRepository) FindVariantByID(ctx context.Context, id string) (*product.Variant, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao obter conexão: %w", err)
	}
	defer conn.Release()

	return scanVariant(conn.QueryRow(ctx, variantSelect+" WHERE v.id = $1 GROUP BY v.id", id))
}

// ListVariantsByProduct implementa product.Repository.ListVariantsByProduct
func (r *PostgresProductRepository) ListVariantsByProduct(ctx context.Context, productID string) ([]product.Variant, error) {
	conn, err := r.db.GetConnection(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao obter conexão: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, variantSelect+" WHERE v.product_id = $1 GROUP BY v.id ORDER BY v.sku", productID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar variações: %w", err)
	}
	defer rows.Close()

	var variants []product.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		variants = append(variants, *v)
	}

	return variants, rows.Err()
}

// InStockTx implementa product.StockStore.InStockTx
func (r *PostgresProductRepository) InStockTx(ctx context.Context, fn func(tx product.StockTx) error) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		return fn(&stockTx{tx: tx})
	})
}

const productSelect = `
	SELECT id, name, description, has_variations, stock, active, created_at, updated_at
	FROM products
`

const variantSelect = `
	SELECT v.id, v.product_id, v.sku, v.attributes, v.cost_price, v.stock, v.serial_control, v.active,
	       v.created_at, v.updated_at,
	       COALESCE(array_agg(s.serial ORDER BY s.serial) FILTER (WHERE s.serial IS NOT NULL), '{}')
	FROM variants v
	LEFT JOIN variant_serials s ON s.variant_id = v.id
`

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.HasVariations, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("falha ao buscar produto: %w", err)
	}
	return &p, nil
}

func scanVariant(row pgx.Row) (*product.Variant, error) {
	var v product.Variant
	var attrs []byte

	err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &attrs, &v.CostPrice, &v.Stock, &v.SerialControl, &v.Active,
		&v.CreatedAt, &v.UpdatedAt, &v.Serials)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("falha ao buscar variação: %w", err)
	}

	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &v.Attributes); err != nil {
			return nil, fmt.Errorf("falha ao desserializar atributos: %w", err)
		}
	}

	return &v, nil
}

// stockTx implementa product.StockTx sobre uma transação pgx.
// As leituras usam FOR UPDATE para que mutações concorrentes em variações
// irmãs se serializem no registro do produto.
type stockTx struct {
	tx pgx.Tx
}

// VariantForUpdate implementa product.StockTx.VariantForUpdate
func (s *stockTx) VariantForUpdate(ctx context.Context, variantID string) (*product.Variant, error) {
	// Trava o produto dono antes de ler a variação: toda mutação de estoque
	// serializa no registro do produto, então a leitura abaixo já é estável.
	if _, err := s.lockProductOfVariant(ctx, variantID); err != nil {
		return nil, err
	}

	return scanVariant(s.tx.QueryRow(ctx, variantSelect+" WHERE v.id = $1 GROUP BY v.id", variantID))
}

// SaveVariant implementa product.StockTx.SaveVariant
func (s *stockTx) SaveVariant(ctx context.Context, v *product.Variant) error {
	_, err := s.tx.Exec(ctx,
		"UPDATE variants SET stock = $1, updated_at = $2 WHERE id = $3",
		v.Stock, v.UpdatedAt, v.ID,
	)
	if err != nil {
		return fmt.Errorf("falha ao atualizar variação: %w", err)
	}

	// Reescrever a lista de séries por completo mantém a tabela como um
	// espelho exato do estado da variação.
	if _, err := s.tx.Exec(ctx, "DELETE FROM variant_serials WHERE variant_id = $1", v.ID); err != nil {
		return fmt.Errorf("falha ao limpar números de série: %w", err)
	}

	for _, serial := range v.Serials {
		if _, err := s.tx.Exec(ctx,
			"INSERT INTO variant_serials (variant_id, serial) VALUES ($1, $2)",
			v.ID, serial,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return product.ErrDuplicateSerial
			}
			return fmt.Errorf("falha ao gravar número de série: %w", err)
		}
	}

	return nil
}

// ProductOfVariant implementa product.StockTx.ProductOfVariant
func (s *stockTx) ProductOfVariant(ctx context.Context, variantID string) (*product.Product, error) {
	productID, err := s.lockProductOfVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return scanProduct(s.tx.QueryRow(ctx, productSelect+" WHERE id = $1", productID))
}

// ProductForUpdate implementa product.StockTx.ProductForUpdate
func (s *stockTx) ProductForUpdate(ctx context.Context, productID string) (*product.Product, error) {
	return scanProduct(s.tx.QueryRow(ctx, productSelect+" WHERE id = $1 FOR UPDATE", productID))
}

// SumActiveVariantStock implementa product.StockTx.SumActiveVariantStock
func (s *stockTx) SumActiveVariantStock(ctx context.Context, productID string) (int, error) {
	var total int
	err := s.tx.QueryRow(ctx,
		"SELECT COALESCE(SUM(stock), 0) FROM variants WHERE product_id = $1 AND active = true",
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("falha ao somar estoque das variações: %w", err)
	}
	return total, nil
}

// SetProductStock implementa product.StockTx.SetProductStock
func (s *stockTx) SetProductStock(ctx context.Context, productID string, stock int) error {
	tag, err := s.tx.Exec(ctx,
		"UPDATE products SET stock = $1, updated_at = now() WHERE id = $2",
		stock, productID,
	)
	if err != nil {
		return fmt.Errorf("falha ao atualizar estoque do produto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// lockProductOfVariant trava o produto dono de uma variação e retorna seu ID
func (s *stockTx) lockProductOfVariant(ctx context.Context, variantID string) (string, error) {
	var productID string
	err := s.tx.QueryRow(ctx, `
		SELECT p.id FROM products p
		JOIN variants v ON v.product_id = p.id
		WHERE v.id = $1
		FOR UPDATE OF p
	`, variantID).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrVariantNotFound
		}
		return "", fmt.Errorf("falha ao travar produto da variação: %w", err)
	}
	return productID, nil
}
