package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName         = errors.New("nome do produto não pode ser vazio")
	ErrEmptySKU          = errors.New("SKU não pode ser vazio")
	ErrEmptySerial       = errors.New("número de série não pode ser vazio")
	ErrDuplicateSerial   = errors.New("número de série já cadastrado nesta variação")
	ErrSerialNotFound    = errors.New("número de série não encontrado nesta variação")
	ErrNegativeStock     = errors.New("estoque não pode ser negativo")
	ErrSerialControlled  = errors.New("estoque desta variação é derivado dos números de série")
	ErrInvalidAttributes = errors.New("atributos da variação devem ter nome e valor")
)

// Attribute representa um par nome/valor que distingue uma variação
// (ex.: cor=preto, armazenamento=128GB). A lista é ordenada e tipada;
// a cardinalidade é livre por produto.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant representa uma variação de um produto.
// Quando SerialControl está ativo, o estoque é sempre derivado da lista de
// números de série e nunca pode ser ajustado diretamente.
type Variant struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	Attributes    []Attribute     `json:"attributes"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Stock         int             `json:"stock"`
	SerialControl bool            `json:"serial_control"`
	Serials       []string        `json:"serials,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Product representa um produto do catálogo.
// Com HasVariations ativo o estoque exibido é sempre a soma das variações
// ativas; caso contrário o estoque é definido diretamente.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	HasVariations bool      `json:"has_variations"`
	Stock         int       `json:"stock"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewProduct cria um novo produto
func NewProduct(name, description string, hasVariations bool) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	return &Product{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   description,
		HasVariations: hasVariations,
		Active:        true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}, nil
}

// NewVariant cria uma nova variação para um produto
func NewVariant(productID, sku string, attributes []Attribute, costPrice decimal.Decimal, serialControl bool) (*Variant, error) {
	if sku == "" {
		return nil, ErrEmptySKU
	}
	for _, attr := range attributes {
		if attr.Name == "" || attr.Value == "" {
			return nil, ErrInvalidAttributes
		}
	}

	return &Variant{
		ID:            uuid.New().String(),
		ProductID:     productID,
		SKU:           sku,
		Attributes:    attributes,
		CostPrice:     costPrice,
		SerialControl: serialControl,
		Active:        true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}, nil
}

// AddSerial registra um número de série e rederiva o estoque da variação.
// Invariante restaurado antes do retorno: Stock == len(Serials).
func (v *Variant) AddSerial(serial string) error {
	if serial == "" {
		return ErrEmptySerial
	}
	for _, s := range v.Serials {
		if s == serial {
			return ErrDuplicateSerial
		}
	}

	v.Serials = append(v.Serials, serial)
	v.Stock = len(v.Serials)
	v.UpdatedAt = time.Now()
	return nil
}

// RemoveSerial remove um número de série e rederiva o estoque da variação
func (v *Variant) RemoveSerial(serial string) error {
	for i, s := range v.Serials {
		if s == serial {
			v.Serials = append(v.Serials[:i], v.Serials[i+1:]...)
			v.Stock = len(v.Serials)
			v.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrSerialNotFound
}

// SetStock ajusta diretamente o estoque de uma variação sem controle de série
func (v *Variant) SetStock(qty int) error {
	if v.SerialControl {
		return ErrSerialControlled
	}
	if qty < 0 {
		return ErrNegativeStock
	}
	v.Stock = qty
	v.UpdatedAt = time.Now()
	return nil
}

// RecomputeStock restaura o invariante de estoque do produto a partir das
// variações: soma das variações ativas quando o produto é variante-dirigido,
// sem efeito caso contrário. Idempotente.
func (p *Product) RecomputeStock(variants []Variant) {
	if !p.HasVariations {
		return
	}

	total := 0
	for _, v := range variants {
		if v.Active {
			total += v.Stock
		}
	}
	p.Stock = total
	p.UpdatedAt = time.Now()
}
