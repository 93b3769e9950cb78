package repository

import (
	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindByID(id string) (*model.Cart, error)
	CreateLineItem(item *model.LineItem) error
	UpdateLineItem(item *model.LineItem) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"email":         cart.Email,
		"currency_code": cart.CurrencyCode,
	})

	if err := r.db.Omit("Items").Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"email": cart.Email,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return nil
}

// FindByID loads the cart with its line items in insertion order.
func (r *cartRepository) FindByID(id string) (*model.Cart, error) {
	logger.Debug("Finding cart by ID in database", map[string]interface{}{
		"cart_id": id,
	})

	var cart model.Cart
	err := r.db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&cart).Error
	if err != nil {
		logger.Error("Failed to find cart by ID in database", err, map[string]interface{}{
			"cart_id": id,
		})
		return nil, err
	}

	logger.Debug("Cart found by ID in database", map[string]interface{}{
		"cart_id":    cart.ID,
		"item_count": len(cart.Items),
	})
	return &cart, nil
}

func (r *cartRepository) CreateLineItem(item *model.LineItem) error {
	logger.Debug("Creating line item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"variant_id": item.VariantID,
		"quantity":   item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create line item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"variant_id": item.VariantID,
		})
		return err
	}

	logger.Debug("Line item created in database", map[string]interface{}{
		"line_item_id": item.ID,
		"cart_id":      item.CartID,
	})
	return nil
}

func (r *cartRepository) UpdateLineItem(item *model.LineItem) error {
	logger.Debug("Updating line item in database", map[string]interface{}{
		"line_item_id": item.ID,
		"quantity":     item.Quantity,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update line item in database", err, map[string]interface{}{
			"line_item_id": item.ID,
		})
		return err
	}

	logger.Debug("Line item updated in database", map[string]interface{}{
		"line_item_id": item.ID,
	})
	return nil
}
