package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/loja-backend/internal/adapter/api/controller"
	"github.com/hugohenrick/loja-backend/pkg/middleware"
)

// SetupAuthRoutes configura as rotas para autenticação
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	authRouter := router.Group("/auth")
	{
		// Rota de login (não requer autenticação)
		authRouter.POST("/login", authController.Login)

		// Rota para obter informações do usuário logado (requer autenticação)
		authRouter.GET("/me", middleware.AuthMiddleware(), authController.Me)
	}
}
