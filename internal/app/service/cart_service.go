package service

import (
	"errors"

	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/internal/app/repository"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartUpdateFailed = errors.New("failed to update cart")
)

type CartService interface {
	CreateCart(email, currencyCode string) (*model.Cart, error)
	GetCart(id string) (*model.Cart, error)
}

type cartService struct {
	cartRepo repository.CartRepository
}

func NewCartService(cartRepo repository.CartRepository) CartService {
	return &cartService{cartRepo: cartRepo}
}

func (s *cartService) CreateCart(email, currencyCode string) (*model.Cart, error) {
	logger.Info("Creating cart", map[string]interface{}{
		"email":         email,
		"currency_code": currencyCode,
	})

	cart := &model.Cart{
		Email:        email,
		CurrencyCode: currencyCode,
	}
	if cart.CurrencyCode == "" {
		cart.CurrencyCode = "inr"
	}

	if err := s.cartRepo.Create(cart); err != nil {
		logger.Error("Failed to create cart", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("Cart created successfully", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return s.GetCart(cart.ID)
}

func (s *cartService) GetCart(id string) (*model.Cart, error) {
	logger.Debug("Fetching cart", map[string]interface{}{
		"cart_id": id,
	})

	cart, err := s.cartRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart not found", map[string]interface{}{
				"cart_id": id,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"cart_id": id,
		})
		return nil, err
	}
	return cart, nil
}
