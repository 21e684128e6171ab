package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/loja-backend/internal/adapter/api/controller"
	"github.com/hugohenrick/loja-backend/pkg/middleware"
)

// SetupPricingRoutes configura as rotas de precificação e cotação
func SetupPricingRoutes(router *gin.RouterGroup, pricingController *controller.PricingController) {
	pricingRouter := router.Group("/pricing")
	{
		// Rotas públicas: vitrine e pré-cálculo no cliente
		pricingRouter.GET("/dollar-rate", pricingController.GetDollarRate)
		pricingRouter.GET("/settings", pricingController.GetSettings)
		pricingRouter.POST("/calculate", pricingController.CalculatePrice)

		// Rotas administrativas
		admin := pricingRouter.Group("")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
		{
			admin.POST("/dollar-rate/refresh", pricingController.RefreshDollarRate)
			admin.PUT("/dollar-rate/manual", pricingController.SetManualRate)
			admin.DELETE("/dollar-rate/manual", pricingController.ClearManualRate)
			admin.GET("/settings/admin", pricingController.GetAdminSettings)
			admin.PUT("/settings", pricingController.UpdateSettings)
		}
	}
}
