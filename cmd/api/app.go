package main

import (
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hugohenrick/loja-backend/internal/adapter/api/controller"
	"github.com/hugohenrick/loja-backend/internal/adapter/api/route"
	adapterexchange "github.com/hugohenrick/loja-backend/internal/adapter/exchange"
	"github.com/hugohenrick/loja-backend/internal/adapter/repository"
	"github.com/hugohenrick/loja-backend/internal/domain/exchange"
	"github.com/hugohenrick/loja-backend/internal/domain/product"
	"github.com/hugohenrick/loja-backend/internal/infrastructure/database"
	"github.com/hugohenrick/loja-backend/pkg/logger"
)

// App representa a aplicação e suas dependências
type App struct {
	router            *gin.Engine
	db                *database.PostgresDB
	log               logger.Logger
	rateProvider      *exchange.Provider
	aggregator        *product.Aggregator
	pricingController *controller.PricingController
	productController *controller.ProductController
	authController    *controller.AuthController
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Configurar banco de dados
	config := database.NewPostgresConfigFromEnv()
	db, err := database.NewPostgresDB(config)
	if err != nil {
		return nil, err
	}

	// Criar repositórios
	settingsRepo := repository.NewPostgresSettingsRepository(db)
	productRepo := repository.NewPostgresProductRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	// Criar o provedor de cotação do dólar
	fetcher := adapterexchange.NewAwesomeAPIClient()
	rateProvider := exchange.NewProvider(fetcher, rateTTLFromEnv(), log)

	// Criar o agregador de estoque
	aggregator := product.NewAggregator(productRepo, log)

	// Criar controllers
	pricingController := controller.NewPricingController(rateProvider, settingsRepo)
	productController := controller.NewProductController(productRepo, aggregator)
	authController := controller.NewAuthController(userRepo)

	// Configurar router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	return &App{
		router:            router,
		db:                db,
		log:               log,
		rateProvider:      rateProvider,
		aggregator:        aggregator,
		pricingController: pricingController,
		productController: productController,
		authController:    authController,
	}, nil
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes(basePath string) {
	api := a.router.Group(basePath)

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	route.SetupAuthRoutes(api, a.authController)
	route.SetupPricingRoutes(api, a.pricingController)
	route.SetupProductRoutes(api, a.productController)

	// Documentação Swagger
	a.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// Start inicia o servidor HTTP
func (a *App) Start() error {
	a.SetupRoutes("/api/v1")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	a.log.Info("servidor iniciado", "porta", port)
	return a.router.Run(":" + port)
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// rateTTLFromEnv lê o TTL do cache de cotação (em minutos) do ambiente
func rateTTLFromEnv() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("DOLLAR_RATE_TTL_MINUTES"))
	if err != nil || minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}
