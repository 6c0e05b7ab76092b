package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/services"
)

// AssetHandler handles asset catalogue requests.
type AssetHandler struct {
	assetService services.AssetServicer
	auditService services.AuditServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer, auditService services.AuditServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService, auditService: auditService}
}

// CreateAssetRequest represents the request payload for creating an asset.
type CreateAssetRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=1000"`
	AssetType     models.AssetKind `json:"asset_type" binding:"required,asset_kind"`
	Quotation     decimal.Decimal  `json:"quotation" swaggertype:"string" example:"100.50"`
	QuotaQuantity decimal.Decimal  `json:"quota_quantity" swaggertype:"string" example:"1000"`
	IsActive      bool             `json:"is_active"`
}

// UpdateAssetRequest represents the request payload for editing an asset.
type UpdateAssetRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=1000"`
	QuotaQuantity *decimal.Decimal `json:"quota_quantity" swaggertype:"string"`
}

// ActivationRequest represents the request payload for activating or deactivating an asset.
type ActivationRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// QuotationRequest represents the request payload for a quotation update.
type QuotationRequest struct {
	Quotation decimal.Decimal `json:"quotation" swaggertype:"string" example:"101.00"`
}

// AssetQuery holds the asset listing filters.
type AssetQuery struct {
	pagination.PageRequest
	Types []models.AssetKind `form:"type" binding:"omitempty,dive,asset_kind"`
}

// ListAssetTypes handles listing the supported asset types.
// @Summary     List asset types
// @Tags        assets
// @Produce     json
// @Success     200 {array}  models.AssetType "Asset types"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /asset-types [get]
func (h *AssetHandler) ListAssetTypes(c *gin.Context) {
	types, err := h.assetService.ListAssetTypes()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateAsset handles asset creation.
// @Summary     Create asset
// @Description Create an asset of a given type. Admin only.
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       request body CreateAssetRequest true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Failure     404 {object} ErrorResponse "Asset type not found"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	admin := adminCredentials(c)
	asset, err := h.assetService.CreateAsset(admin, services.CreateAssetInput{
		Name:          req.Name,
		Description:   req.Description,
		Kind:          req.AssetType,
		Quotation:     req.Quotation,
		QuotaQuantity: req.QuotaQuantity,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.AdminActor(admin), models.AuditCreateAsset, asset.ID,
		map[string]any{"name": asset.Name, "asset_type": string(req.AssetType), "quotation": asset.Quotation.String()})

	c.JSON(http.StatusCreated, asset)
}

// ListAssets handles listing active assets.
// @Summary     List assets
// @Description Paginated list of active assets, optionally filtered by type
// @Tags        assets
// @Produce     json
// @Param       type      query []string false "Asset types" collectionFormat(multi)
// @Param       page      query int      false "Page number (default 1)"
// @Param       page_size query int      false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Asset] "Paginated assets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /assets [get]
func (h *AssetHandler) ListAssets(c *gin.Context) {
	h.listAssets(c, true)
}

// ListAllAssets handles listing every asset, active or not.
// @Summary     List all assets
// @Description Paginated list of all assets, optionally filtered by type. Admin only.
// @Tags        admin
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       type      query []string false "Asset types" collectionFormat(multi)
// @Param       page      query int      false "Page number (default 1)"
// @Param       page_size query int      false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Asset] "Paginated assets"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Router      /admin/assets [get]
func (h *AssetHandler) ListAllAssets(c *gin.Context) {
	h.listAssets(c, false)
}

func (h *AssetHandler) listAssets(c *gin.Context, activeOnly bool) {
	var q AssetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.assetService.ListAssets(services.AssetFilter{ActiveOnly: activeOnly, Kinds: q.Types}, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAsset handles fetching one asset.
// @Summary     Get asset
// @Tags        assets
// @Produce     json
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.Asset "Asset"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAsset(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// UpdateAsset handles editing an asset's descriptive fields and quota.
// @Summary     Update asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       id      path string             true "Asset ID"
// @Param       request body UpdateAssetRequest true "Fields to change"
// @Success     200 {object} models.Asset "Asset updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	admin := adminCredentials(c)
	asset, err := h.assetService.UpdateAsset(admin, id, services.UpdateAssetInput{
		Name:          req.Name,
		Description:   req.Description,
		QuotaQuantity: req.QuotaQuantity,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.AdminActor(admin), models.AuditUpdateAsset, asset.ID, nil)
	c.JSON(http.StatusOK, asset)
}

// SetActivation handles activating or deactivating an asset. Activation
// notifies AVAILABILITY subscribers.
// @Summary     Activate or deactivate asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       id      path string            true "Asset ID"
// @Param       request body ActivationRequest true "Activation flag"
// @Success     200 {object} models.Asset "Asset updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Failure     404 {object} ErrorResponse "Asset or subscriber not found"
// @Router      /assets/{id}/activation [patch]
func (h *AssetHandler) SetActivation(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	admin := adminCredentials(c)
	asset, err := h.assetService.SetActive(admin, id, *req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.AdminActor(admin), models.AuditSetAssetActive, asset.ID,
		map[string]any{"is_active": asset.IsActive})
	c.JSON(http.StatusOK, asset)
}

// UpdateQuotation handles a quotation change. Changes of 1% or more notify
// PRICE_VARIATION subscribers.
// @Summary     Update quotation
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    AdminEmail
// @Security    AdminCode
// @Param       id      path string           true "Asset ID"
// @Param       request body QuotationRequest true "New quotation"
// @Success     200 {object} models.Asset "Asset updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     422 {object} ErrorResponse "Variation below 1% or treasury asset"
// @Router      /assets/{id}/quotation [patch]
func (h *AssetHandler) UpdateQuotation(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req QuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	admin := adminCredentials(c)
	asset, err := h.assetService.UpdateQuotation(admin, id, req.Quotation)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.AdminActor(admin), models.AuditUpdateQuotation, asset.ID,
		map[string]any{"quotation": asset.Quotation.String()})
	c.JSON(http.StatusOK, asset)
}

// DeleteAsset handles removing an asset no purchase or withdraw refers to.
// @Summary     Delete asset
// @Tags        assets
// @Security    AdminEmail
// @Security    AdminCode
// @Param       id path string true "Asset ID"
// @Success     204 "Asset deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized admin"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     409 {object} ErrorResponse "Asset referenced"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	admin := adminCredentials(c)
	if err := h.assetService.DeleteAsset(admin, id); err != nil {
		respondWithError(c, err)
		return
	}

	recordAudit(c, h.auditService, services.AdminActor(admin), models.AuditDeleteAsset, id, nil)
	c.Status(http.StatusNoContent)
}
