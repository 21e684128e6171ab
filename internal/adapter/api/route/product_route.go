package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/loja-backend/internal/adapter/api/controller"
	"github.com/hugohenrick/loja-backend/pkg/middleware"
)

// SetupProductRoutes configura as rotas de catálogo e estoque
func SetupProductRoutes(router *gin.RouterGroup, productController *controller.ProductController) {
	productsRouter := router.Group("/products")
	{
		// Rotas públicas: vitrine
		productsRouter.GET("", productController.List)
		productsRouter.GET("/:id", productController.GetByID)

		// Rotas administrativas
		admin := productsRouter.Group("")
		admin.Use(middleware.AuthMiddleware())
		{
			admin.POST("", productController.Create)
			admin.POST("/:id/variants", productController.CreateVariant)
		}
	}

	variantsRouter := router.Group("/variants")
	variantsRouter.Use(middleware.AuthMiddleware())
	{
		variantsRouter.PATCH("/:id/stock", productController.UpdateVariantStock)
		variantsRouter.POST("/:id/serial-numbers", productController.AddSerial)
		variantsRouter.DELETE("/:id/serial-numbers/:serial", productController.RemoveSerial)
	}
}
