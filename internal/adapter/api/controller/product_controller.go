package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/loja-backend/internal/adapter/api/dto"
	"github.com/hugohenrick/loja-backend/internal/adapter/repository"
	"github.com/hugohenrick/loja-backend/internal/domain/product"
)

// ProductController gerencia as requisições de catálogo e estoque
type ProductController struct {
	productRepository product.Repository
	aggregator        *product.Aggregator
}

// NewProductController cria uma nova instância de ProductController
func NewProductController(productRepository product.Repository, aggregator *product.Aggregator) *ProductController {
	return &ProductController{
		productRepository: productRepository,
		aggregator:        aggregator,
	}
}

// Create cria um novo produto
// @Summary Cria um novo produto
// @Description Cria um novo produto no catálogo
// @Tags products
// @Accept json
// @Produce json
// @Security Bearer
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /products [post]
func (c *ProductController) Create(ctx *gin.Context) {
	var request dto.ProductRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	p, err := product.NewProduct(request.Name, request.Description, request.HasVariations)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Produto inválido", err.Error()))
		return
	}

	if err := c.productRepository.CreateProduct(ctx, p); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar produto", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToProductResponse(p, nil))
}

// GetByID busca um produto pelo ID, incluindo suas variações
// @Summary Busca um produto pelo ID
// @Description Busca um produto e suas variações
// @Tags products
// @Produce json
// @Param id path string true "ID do produto"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /products/{id} [get]
func (c *ProductController) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID não fornecido", ""))
		return
	}

	p, err := c.productRepository.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Produto não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar produto", err.Error()))
		return
	}

	variants, err := c.productRepository.ListVariantsByProduct(ctx, id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar variações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToProductResponse(p, variants))
}

// List retorna uma lista paginada de produtos
// @Summary Lista os produtos
// @Description Retorna uma lista paginada de produtos ativos
// @Tags products
// @Produce json
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {array} dto.ProductResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /products [get]
func (c *ProductController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	pagination := dto.GetPagination(page, pageSize)

	products, err := c.productRepository.ListProducts(ctx, pagination.PageSize, (pagination.Page-1)*pagination.PageSize)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar produtos", err.Error()))
		return
	}

	response := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, dto.ToProductResponse(p, nil))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateVariant cria uma nova variação para um produto
// @Summary Cria uma variação
// @Description Cria uma nova variação e rederiva o estoque agregado do produto
// @Tags products
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do produto"
// @Param variant body dto.VariantRequest true "Dados da variação"
// @Success 201 {object} dto.VariantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /products/{id}/variants [post]
func (c *ProductController) CreateVariant(ctx *gin.Context) {
	productID := ctx.Param("id")
	if productID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID não fornecido", ""))
		return
	}

	var request dto.VariantRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	attrs := make([]product.Attribute, 0, len(request.Attributes))
	for _, a := range request.Attributes {
		attrs = append(attrs, product.Attribute{Name: a.Name, Value: a.Value})
	}

	v, err := product.NewVariant(productID, request.SKU, attrs, request.CostPrice, request.SerialControl)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Variação inválida", err.Error()))
		return
	}

	if err := c.productRepository.CreateVariant(ctx, v); err != nil {
		switch {
		case errors.Is(err, repository.ErrVariantDuplicateSKU):
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Variação com mesmo SKU já existe", ""))
		case errors.Is(err, repository.ErrProductNotFound):
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Produto não encontrado", ""))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar variação", err.Error()))
		}
		return
	}

	// Restaurar o invariante de estoque do produto antes de responder
	if err := c.aggregator.RecomputeProductStock(ctx, productID); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao recalcular estoque", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToVariantResponse(v))
}

// UpdateVariantStock ajusta o estoque de uma variação sem controle de série
// @Summary Ajusta o estoque de uma variação
// @Description Define o estoque diretamente e rederiva o total do produto na mesma transação
// @Tags products
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID da variação"
// @Param stock body dto.VariantStockRequest true "Novo estoque"
// @Success 200 {object} dto.VariantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /variants/{id}/stock [patch]
func (c *ProductController) UpdateVariantStock(ctx *gin.Context) {
	variantID := ctx.Param("id")

	var request dto.VariantStockRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	v, err := c.aggregator.SetVariantStock(ctx, variantID, request.Stock)
	if err != nil {
		c.writeStockError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToVariantResponse(v))
}

// AddSerial registra um número de série em uma variação
// @Summary Registra um número de série
// @Description Registra um número de série e rederiva o estoque da variação e do produto
// @Tags products
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID da variação"
// @Param serial body dto.SerialRequest true "Número de série"
// @Success 201 {object} dto.VariantResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /variants/{id}/serial-numbers [post]
func (c *ProductController) AddSerial(ctx *gin.Context) {
	variantID := ctx.Param("id")

	var request dto.SerialRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	v, err := c.aggregator.AddSerial(ctx, variantID, request.Serial)
	if err != nil {
		c.writeStockError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToVariantResponse(v))
}

// RemoveSerial remove um número de série de uma variação
// @Summary Remove um número de série
// @Description Remove um número de série e rederiva o estoque da variação e do produto
// @Tags products
// @Produce json
// @Security Bearer
// @Param id path string true "ID da variação"
// @Param serial path string true "Número de série"
// @Success 200 {object} dto.VariantResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /variants/{id}/serial-numbers/{serial} [delete]
func (c *ProductController) RemoveSerial(ctx *gin.Context) {
	variantID := ctx.Param("id")
	serial := ctx.Param("serial")

	v, err := c.aggregator.RemoveSerial(ctx, variantID, serial)
	if err != nil {
		c.writeStockError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToVariantResponse(v))
}

// writeStockError mapeia erros das mutações de estoque para o status HTTP adequado
func (c *ProductController) writeStockError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrVariantNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Variação não encontrada", ""))
	case errors.Is(err, repository.ErrProductNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Produto não encontrado", ""))
	case errors.Is(err, product.ErrDuplicateSerial):
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Número de série já cadastrado", ""))
	case errors.Is(err, product.ErrSerialNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Número de série não encontrado", ""))
	case errors.Is(err, product.ErrSerialControlled),
		errors.Is(err, product.ErrNegativeStock),
		errors.Is(err, product.ErrEmptySerial):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Operação de estoque inválida", err.Error()))
	default:
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar estoque", err.Error()))
	}
}
