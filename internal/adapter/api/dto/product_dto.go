package dto

import (
	"time"

	"github.com/hugohenrick/loja-backend/internal/domain/product"
	"github.com/shopspring/decimal"
)

// ProductRequest representa os dados para criação de um produto
type ProductRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	HasVariations bool   `json:"has_variations"`
}

// AttributeRequest representa um atributo de variação
type AttributeRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// VariantRequest representa os dados para criação de uma variação
type VariantRequest struct {
	SKU           string             `json:"sku" binding:"required"`
	Attributes    []AttributeRequest `json:"attributes"`
	CostPrice     decimal.Decimal    `json:"cost_price"`
	SerialControl bool               `json:"serial_control"`
}

// VariantStockRequest representa o ajuste direto de estoque de uma variação
type VariantStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

// SerialRequest representa o cadastro de um número de série
type SerialRequest struct {
	Serial string `json:"serial" binding:"required"`
}

// ProductResponse representa a resposta com os dados de um produto
type ProductResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	HasVariations bool              `json:"has_variations"`
	Stock         int               `json:"stock"`
	Active        bool              `json:"active"`
	Variants      []VariantResponse `json:"variants,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// VariantResponse representa a resposta com os dados de uma variação
type VariantResponse struct {
	ID            string             `json:"id"`
	ProductID     string             `json:"product_id"`
	SKU           string             `json:"sku"`
	Attributes    []AttributeRequest `json:"attributes"`
	CostPrice     decimal.Decimal    `json:"cost_price"`
	Stock         int                `json:"stock"`
	SerialControl bool               `json:"serial_control"`
	Serials       []string           `json:"serials,omitempty"`
	Active        bool               `json:"active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToProductResponse converte um produto de domínio para o DTO de resposta
func ToProductResponse(p *product.Product, variants []product.Variant) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		HasVariations: p.HasVariations,
		Stock:         p.Stock,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	for _, v := range variants {
		variant := v
		resp.Variants = append(resp.Variants, ToVariantResponse(&variant))
	}

	return resp
}

// ToVariantResponse converte uma variação de domínio para o DTO de resposta
func ToVariantResponse(v *product.Variant) VariantResponse {
	attrs := make([]AttributeRequest, 0, len(v.Attributes))
	for _, a := range v.Attributes {
		attrs = append(attrs, AttributeRequest{Name: a.Name, Value: a.Value})
	}

	return VariantResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		SKU:           v.SKU,
		Attributes:    attrs,
		CostPrice:     v.CostPrice,
		Stock:         v.Stock,
		SerialControl: v.SerialControl,
		Serials:       v.Serials,
		Active:        v.Active,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
