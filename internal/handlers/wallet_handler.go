package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/export"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

// WalletHandler serves the authenticated client's wallet read models.
type WalletHandler struct {
	walletService   services.WalletServicer
	purchaseService services.PurchaseServicer
	withdrawService services.WithdrawServicer
	reportService   services.ReportServicer
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(
	walletService services.WalletServicer,
	purchaseService services.PurchaseServicer,
	withdrawService services.WithdrawServicer,
	reportService services.ReportServicer,
) *WalletHandler {
	return &WalletHandler{
		walletService:   walletService,
		purchaseService: purchaseService,
		withdrawService: withdrawService,
		reportService:   reportService,
	}
}

// HistoryQuery holds the history filters shared by the wallet listings.
type HistoryQuery struct {
	pagination.PageRequest
	pagination.DateRange
	Types  []models.AssetKind `form:"type" binding:"omitempty,dive,asset_kind"`
	State  string             `form:"state"`
	Format string             `form:"format" binding:"omitempty,export_format"`
}

func (q HistoryQuery) filter() services.HistoryFilter {
	return services.HistoryFilter{Kinds: q.Types, State: q.State, DateRange: q.DateRange}
}

// bindHistory resolves the client and its history filters.
func bindHistory(c *gin.Context) (string, HistoryQuery, bool) {
	var q HistoryQuery
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return "", q, false
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return "", q, false
	}
	return clientID, q, true
}

// GetWallet handles reading the client's wallet with valued holdings.
// @Summary     Get wallet
// @Tags        wallet
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.WalletView "Wallet"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.walletService.GetWallet(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListPurchases handles the client's purchase history.
// @Summary     List wallet purchases
// @Tags        wallet
// @Produce     json
// @Security    BearerAuth
// @Param       type      query []string false "Asset types" collectionFormat(multi)
// @Param       state     query string   false "Purchase state"
// @Param       from      query string   false "From date (YYYY-MM-DD)"
// @Param       to        query string   false "To date (YYYY-MM-DD)"
// @Param       page      query int      false "Page number (default 1)"
// @Param       page_size query int      false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Purchase] "Paginated purchases"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /wallet/purchases [get]
func (h *WalletHandler) ListPurchases(c *gin.Context) {
	clientID, q, ok := bindHistory(c)
	if !ok {
		return
	}

	result, err := h.purchaseService.ListClientPurchases(clientID, q.filter(), q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListWithdraws handles the client's withdraw history.
// @Summary     List wallet withdraws
// @Tags        wallet
// @Produce     json
// @Security    BearerAuth
// @Param       type      query []string false "Asset types" collectionFormat(multi)
// @Param       state     query string   false "Withdraw state"
// @Param       from      query string   false "From date (YYYY-MM-DD)"
// @Param       to        query string   false "To date (YYYY-MM-DD)"
// @Param       page      query int      false "Page number (default 1)"
// @Param       page_size query int      false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Withdraw] "Paginated withdraws"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /wallet/withdraws [get]
func (h *WalletHandler) ListWithdraws(c *gin.Context) {
	clientID, q, ok := bindHistory(c)
	if !ok {
		return
	}

	result, err := h.withdrawService.ListClientWithdraws(clientID, q.filter(), q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// History handles the unified purchase and withdraw history.
// @Summary     Transaction history
// @Tags        wallet
// @Produce     json
// @Security    BearerAuth
// @Param       type      query []string false "Asset types" collectionFormat(multi)
// @Param       state     query string   false "Lifecycle state"
// @Param       from      query string   false "From date (YYYY-MM-DD)"
// @Param       to        query string   false "To date (YYYY-MM-DD)"
// @Param       page      query int      false "Page number (default 1)"
// @Param       page_size query int      false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.HistoryEntry] "Paginated history"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /wallet/history [get]
func (h *WalletHandler) History(c *gin.Context) {
	clientID, q, ok := bindHistory(c)
	if !ok {
		return
	}

	result, err := h.reportService.History(clientID, q.filter(), q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportHistory handles downloading the filtered history as CSV or XLSX.
// @Summary     Export transaction history
// @Tags        wallet
// @Produce     text/csv
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       format query string   false "csv (default) or xlsx"
// @Param       type   query []string false "Asset types" collectionFormat(multi)
// @Param       state  query string   false "Lifecycle state"
// @Param       from   query string   false "From date (YYYY-MM-DD)"
// @Param       to     query string   false "To date (YYYY-MM-DD)"
// @Success     200 {file} file "History file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /wallet/history/export [get]
func (h *WalletHandler) ExportHistory(c *gin.Context) {
	clientID, q, ok := bindHistory(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(q.Format)
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, err := h.reportService.Export(clientID, q.filter(), format)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
