package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/middleware"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

// Set is every handler the API serves.
type Set struct {
	Auth          *AuthHandler
	Assets        *AssetHandler
	Clients       *ClientHandler
	Purchases     *PurchaseHandler
	Withdraws     *WithdrawHandler
	Subscriptions *SubscriptionHandler
	Wallet        *WalletHandler
	Audit         *AuditHandler
}

// NewSet builds every handler from the service layer.
func NewSet(
	credentials services.CredentialServicer,
	assets services.AssetServicer,
	clients services.ClientServicer,
	wallets services.WalletServicer,
	purchases services.PurchaseServicer,
	withdraws services.WithdrawServicer,
	subscriptions services.SubscriptionServicer,
	reports services.ReportServicer,
	audit services.AuditServicer,
) *Set {
	return &Set{
		Auth:          NewAuthHandler(credentials, audit),
		Assets:        NewAssetHandler(assets, audit),
		Clients:       NewClientHandler(clients, audit),
		Purchases:     NewPurchaseHandler(purchases, audit),
		Withdraws:     NewWithdrawHandler(withdraws, audit),
		Subscriptions: NewSubscriptionHandler(subscriptions, audit),
		Wallet:        NewWalletHandler(wallets, purchases, withdraws, reports),
		Audit:         NewAuditHandler(audit),
	}
}

// Health reports that the process is serving.
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]string "Service is up"
// @Router      /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterRoutes mounts the /api/v1 surface and the health check on router.
func RegisterRoutes(router *gin.Engine, h *Set, credentials services.CredentialServicer) {
	router.GET("/api/health", Health)
	router.NoRoute(func(c *gin.Context) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrNotFound,
			fmt.Sprintf("No route for %s %s", c.Request.Method, c.Request.URL.Path)))
	})

	v1 := router.Group("/api/v1")
	admin := middleware.AdminAuth(credentials)
	bearer := middleware.AuthMiddleware()

	v1.POST("/auth/login", h.Auth.Login)
	v1.GET("/asset-types", h.Assets.ListAssetTypes)

	assets := v1.Group("/assets")
	assets.GET("", h.Assets.ListAssets)
	assets.GET("/:id", h.Assets.GetAsset)
	assets.POST("", admin, h.Assets.CreateAsset)
	assets.PUT("/:id", admin, h.Assets.UpdateAsset)
	assets.PATCH("/:id/activation", admin, h.Assets.SetActivation)
	assets.PATCH("/:id/quotation", admin, h.Assets.UpdateQuotation)
	assets.DELETE("/:id", admin, h.Assets.DeleteAsset)

	clients := v1.Group("/clients")
	clients.POST("", h.Clients.CreateClient)
	clients.GET("", admin, h.Clients.ListClients)
	clients.GET("/:id", bearer, h.Clients.GetClient)
	clients.PUT("/:id", h.Clients.UpdateClient)
	clients.DELETE("/:id", admin, h.Clients.DeleteClient)
	clients.POST("/:id/purchases", h.Purchases.RequestPurchase)
	clients.POST("/:id/purchases/:purchaseId/confirmation", h.Purchases.ConfirmPurchase)
	clients.DELETE("/:id/purchases/:purchaseId", h.Purchases.CancelPurchase)
	clients.POST("/:id/withdraws", h.Withdraws.RequestWithdraw)
	clients.POST("/:id/subscriptions", h.Subscriptions.Subscribe)
	clients.POST("/:id/subscriptions/list", h.Subscriptions.ListSubscriptions)
	clients.DELETE("/:id/subscriptions/:subscriptionId", h.Subscriptions.Unsubscribe)

	wallet := v1.Group("/wallet", bearer)
	wallet.GET("", h.Wallet.GetWallet)
	wallet.GET("/purchases", h.Wallet.ListPurchases)
	wallet.GET("/withdraws", h.Wallet.ListWithdraws)
	wallet.GET("/history", h.Wallet.History)
	wallet.GET("/history/export", h.Wallet.ExportHistory)

	adminGroup := v1.Group("/admin", admin)
	adminGroup.GET("/assets", h.Assets.ListAllAssets)
	adminGroup.GET("/purchases", h.Purchases.ListPurchases)
	adminGroup.POST("/purchases/:id/availability", h.Purchases.MarkAvailable)
	adminGroup.GET("/withdraws", h.Withdraws.ListWithdraws)
	adminGroup.POST("/withdraws/:id/confirmation", h.Withdraws.ConfirmWithdraw)
	adminGroup.GET("/audit-logs", h.Audit.ListAuditLogs)
}
