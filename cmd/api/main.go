package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/config"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/database"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/docs"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/handlers"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/keylock"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/logger"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/middleware"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/notification"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/validator"
)

// @title           PSoft Wallet API
// @version         1.0
// @description     Investment wallet platform: an admin-managed asset catalog, client wallets with escrowed purchases, taxed withdraws and one-shot asset notifications.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey AdminEmail
// @in header
// @name X-Admin-Email

// @securityDefinitions.apikey AdminCode
// @in header
// @name X-Admin-Code

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()
	if !appConfig.Admin.Configured() {
		log.Warn("ADMIN_EMAIL or ADMIN_ACCESS_CODE is unset; admin endpoints will reject every request")
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	locks := keylock.New()
	notifier := notification.NewLogNotifier(logger.Named("notification"))
	format := notification.NewFormatter(appConfig.Currency)

	credentialService := services.NewCredentialService(db, appConfig.Admin)
	walletService := services.NewWalletService(db)
	subscriptionService := services.NewSubscriptionService(db, credentialService, notifier)
	assetService := services.NewAssetService(db, credentialService, subscriptionService, format, locks)
	clientService := services.NewClientService(db, credentialService, locks)
	purchaseService := services.NewPurchaseService(db, credentialService, walletService, notifier, format, locks)
	withdrawService := services.NewWithdrawService(db, credentialService, walletService, locks)
	reportService := services.NewReportService(db)
	auditService := services.NewAuditService(db, credentialService)

	if err := assetService.EnsureAssetTypes(); err != nil {
		return fmt.Errorf("failed to seed asset types: %w", err)
	}

	h := handlers.NewSet(credentialService, assetService, clientService, walletService,
		purchaseService, withdrawService, subscriptionService, reportService, auditService)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Authorization, "+middleware.AdminEmailHeader+", "+middleware.AdminCodeHeader+", "+middleware.RequestIDHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, "+middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	docs.SwaggerInfo.Host = "localhost:" + appConfig.Port
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.RegisterRoutes(router, h, credentialService)

	log.Infof("Starting PSoft Wallet server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
