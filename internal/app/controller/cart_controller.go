package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bundlecart-backend/internal/app/service"
	apperrors "github.com/ikkim/bundlecart-backend/internal/errors"
	"github.com/ikkim/bundlecart-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type CreateCartRequest struct {
	Email        string `json:"email" binding:"omitempty,email"`
	CurrencyCode string `json:"currency_code" binding:"omitempty,len=3"`
}

// CreateCart opens an empty cart
// POST /api/v1/store/carts
func (ctrl *CartController) CreateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.CreateCart(req.Email, req.CurrencyCode)
	if err != nil {
		log.Error("Failed to create cart", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create cart")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"cart": cart,
	})
}

// GetCart returns a cart with its line items
// GET /api/v1/store/carts/:id
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	cart, err := ctrl.cartService.GetCart(id)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			apperrors.NotFound(c, apperrors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"cart_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":  cart,
		"count": len(cart.Items),
	})
}
