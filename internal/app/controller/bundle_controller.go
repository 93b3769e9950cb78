package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bundlecart-backend/internal/app/service"
	apperrors "github.com/ikkim/bundlecart-backend/internal/errors"
	"github.com/ikkim/bundlecart-backend/internal/middleware"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
)

type BundleController struct {
	bundleService     service.BundleService
	bundleCartService service.BundleCartService
}

func NewBundleController(bundleService service.BundleService, bundleCartService service.BundleCartService) *BundleController {
	return &BundleController{
		bundleService:     bundleService,
		bundleCartService: bundleCartService,
	}
}

type ValidateSelectionsRequest struct {
	Selections service.Selections `json:"selections"`
}

type AddBundleToCartRequest struct {
	CartID           string             `json:"cart_id" binding:"required"`
	Quantity         *int               `json:"quantity" binding:"omitempty,gte=1,lte=10000"`
	Selections       service.Selections `json:"selections"`
	PersonalizedNote *string            `json:"personalized_note" binding:"omitempty,max=500"`
}

// ListBundles returns every active bundle with its children
// GET /api/v1/admin/bundles
// GET /api/v1/store/bundles
func (ctrl *BundleController) ListBundles(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bundles, err := ctrl.bundleService.ListActiveBundlesWithDetails()
	if err != nil {
		log.Error("Failed to list bundles", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list bundles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bundles": bundles,
		"count":   len(bundles),
	})
}

// CreateBundle creates a bundle with items, choice slots and texts
// POST /api/v1/admin/bundles
func (ctrl *BundleController) CreateBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.CreateBundleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid create bundle request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	bundle, err := ctrl.bundleService.CreateBundle(&input)
	if err != nil {
		respondBundleError(c, log, err, "create bundle")
		return
	}

	log.Info("Bundle created", map[string]interface{}{
		"bundle_id": bundle.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"bundle": bundle,
	})
}

// GetBundle returns a bundle regardless of its active flag
// GET /api/v1/admin/bundles/:id
func (ctrl *BundleController) GetBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bundle, err := ctrl.bundleService.GetBundleWithDetails(c.Param("id"))
	if err != nil {
		respondBundleError(c, log, err, "get bundle")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bundle": bundle,
	})
}

// GetStoreBundle returns an active bundle; inactive bundles are hidden from the store
// GET /api/v1/store/bundles/:id
func (ctrl *BundleController) GetStoreBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	bundle, err := ctrl.bundleService.GetBundleWithDetails(c.Param("id"))
	if err != nil {
		respondBundleError(c, log, err, "get bundle")
		return
	}
	if !bundle.IsActive {
		apperrors.NotFound(c, apperrors.BundleNotFound, "Bundle not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bundle": bundle,
	})
}

// UpdateBundle applies a partial update; child collections present in the body are replaced
// PATCH /api/v1/admin/bundles/:id
func (ctrl *BundleController) UpdateBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var input service.UpdateBundleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid update bundle request", map[string]interface{}{
			"bundle_id": id,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	bundle, err := ctrl.bundleService.UpdateBundle(id, &input)
	if err != nil {
		respondBundleError(c, log, err, "update bundle")
		return
	}

	log.Info("Bundle updated", map[string]interface{}{
		"bundle_id": id,
	})
	c.JSON(http.StatusOK, gin.H{
		"bundle": bundle,
	})
}

// DeleteBundle soft-deletes a bundle with its children and product links
// DELETE /api/v1/admin/bundles/:id
func (ctrl *BundleController) DeleteBundle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	if err := ctrl.bundleService.DeleteBundleCascade(id); err != nil {
		respondBundleError(c, log, err, "delete bundle")
		return
	}

	log.Info("Bundle deleted", map[string]interface{}{
		"bundle_id": id,
	})
	c.JSON(http.StatusOK, gin.H{
		"id":      id,
		"deleted": true,
	})
}

// ValidateSelections reports every slot rule the selections break
// POST /api/v1/store/bundles/:id/validate
func (ctrl *BundleController) ValidateSelections(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ValidateSelectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid validate selections request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	result, err := ctrl.bundleService.ValidateSelections(c.Param("id"), req.Selections)
	if err != nil {
		respondBundleError(c, log, err, "validate bundle selections")
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddToCart adds the bundle to a cart as a single line item
// POST /api/v1/store/bundles/:id/add-to-cart
func (ctrl *BundleController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	bundleID := c.Param("id")

	var req AddBundleToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add bundle to cart request", map[string]interface{}{
			"bundle_id": bundleID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	lineItem, err := ctrl.bundleCartService.AddBundleToCart(bundleID, req.CartID, quantity, req.Selections, req.PersonalizedNote)
	if err != nil {
		respondBundleError(c, log, err, "add bundle to cart")
		return
	}

	log.Info("Bundle added to cart", map[string]interface{}{
		"bundle_id":    bundleID,
		"cart_id":      req.CartID,
		"line_item_id": lineItem.ID,
		"quantity":     lineItem.Quantity,
	})
	c.JSON(http.StatusOK, gin.H{
		"line_item": lineItem,
	})
}

// respondBundleError maps service errors of the bundle and cart flows to responses.
func respondBundleError(c *gin.Context, log *logger.Logger, err error, context string) {
	var selectionErr *service.SelectionError
	var inventoryErr *service.InsufficientInventoryError
	var inputErr *service.InputError

	switch {
	case errors.As(err, &inputErr):
		log.Warn("Rejected input", map[string]interface{}{
			"context": context,
			"fields":  inputErr.Fields,
		})
		apperrors.RespondWithValidationError(c, inputErr.Fields)
	case errors.As(err, &selectionErr):
		log.Warn("Rejected selections", map[string]interface{}{
			"context": context,
			"errors":  selectionErr.Errors,
		})
		apperrors.RespondWithSelectionErrors(c, selectionErr.Errors)
	case errors.As(err, &inventoryErr):
		log.Warn("Insufficient inventory", map[string]interface{}{
			"context":    context,
			"variant_id": inventoryErr.VariantID,
			"required":   inventoryErr.Required,
			"available":  inventoryErr.Available,
		})
		apperrors.RespondWithDetails(c, http.StatusBadRequest, apperrors.InventoryInsufficient,
			"Insufficient inventory", inventoryErr)
	case errors.Is(err, service.ErrBundleNotFound):
		apperrors.NotFound(c, apperrors.BundleNotFound, "Bundle not found")
	case errors.Is(err, service.ErrCartNotFound):
		apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
	case errors.Is(err, service.ErrBundleInactive):
		apperrors.BadRequest(c, apperrors.BundleInactive, "Bundle is not active")
	case errors.Is(err, service.ErrBundleVariantMissing):
		apperrors.BadRequest(c, apperrors.BundleVariantMissing, "Bundle has no linked variant")
	case errors.Is(err, service.ErrCartUpdateFailed):
		log.Error("Cart update failed", err, map[string]interface{}{
			"context": context,
		})
		resp := apperrors.ErrorResponse{
			Error:   apperrors.CartUpdateFailed,
			Message: "Failed to update cart",
		}
		if gin.Mode() != gin.ReleaseMode {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	default:
		log.Error("Unexpected bundle error", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
