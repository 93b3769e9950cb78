package repository

import (
	"errors"

	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository interface {
	FindItemByVariant(variantID string) (*model.InventoryItem, error)
	FindLevelsByItem(itemID string) ([]model.InventoryLevel, error)
	UpsertItemForVariant(variantID, sku string) (*model.InventoryItem, error)
	UpsertLevel(level *model.InventoryLevel) error
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// FindItemByVariant looks the stock record up by its metadata variant tag.
func (r *inventoryRepository) FindItemByVariant(variantID string) (*model.InventoryItem, error) {
	logger.Debug("Finding inventory item by variant tag", map[string]interface{}{
		"variant_id": variantID,
	})

	var item model.InventoryItem
	err := r.db.
		Where(datatypes.JSONQuery("metadata").Equals(variantID, model.InventoryVariantTag)).
		Order("created_at ASC").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("No inventory item tagged with variant", map[string]interface{}{
				"variant_id": variantID,
			})
			return nil, err
		}
		logger.Error("Failed to find inventory item by variant tag", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return nil, err
	}

	logger.Debug("Inventory item found by variant tag", map[string]interface{}{
		"variant_id":        variantID,
		"inventory_item_id": item.ID,
	})
	return &item, nil
}

func (r *inventoryRepository) FindLevelsByItem(itemID string) ([]model.InventoryLevel, error) {
	logger.Debug("Finding inventory levels", map[string]interface{}{
		"inventory_item_id": itemID,
	})

	var levels []model.InventoryLevel
	if err := r.db.Where("inventory_item_id = ?", itemID).Find(&levels).Error; err != nil {
		logger.Error("Failed to find inventory levels", err, map[string]interface{}{
			"inventory_item_id": itemID,
		})
		return nil, err
	}

	logger.Debug("Inventory levels found", map[string]interface{}{
		"inventory_item_id": itemID,
		"count":             len(levels),
	})
	return levels, nil
}

func (r *inventoryRepository) UpsertItemForVariant(variantID, sku string) (*model.InventoryItem, error) {
	logger.Debug("Upserting inventory item for variant", map[string]interface{}{
		"variant_id": variantID,
		"sku":        sku,
	})

	item, err := r.FindItemByVariant(variantID)
	if err == nil {
		if sku != "" && item.SKU != sku {
			item.SKU = sku
			if err := r.db.Model(item).Update("sku", sku).Error; err != nil {
				logger.Error("Failed to update inventory item SKU", err, map[string]interface{}{
					"inventory_item_id": item.ID,
				})
				return nil, err
			}
		}
		return item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item = &model.InventoryItem{
		SKU:      sku,
		Metadata: datatypes.JSONMap{model.InventoryVariantTag: variantID},
	}
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create inventory item", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return nil, err
	}

	logger.Debug("Inventory item created for variant", map[string]interface{}{
		"variant_id":        variantID,
		"inventory_item_id": item.ID,
	})
	return item, nil
}

// UpsertLevel replaces the quantities of the (item, location) level, creating it when absent.
func (r *inventoryRepository) UpsertLevel(level *model.InventoryLevel) error {
	logger.Debug("Upserting inventory level", map[string]interface{}{
		"inventory_item_id": level.InventoryItemID,
		"location_id":       level.LocationID,
		"available":         level.AvailableQuantity,
	})

	var existing model.InventoryLevel
	err := r.db.
		Where("inventory_item_id = ? AND location_id = ?", level.InventoryItemID, level.LocationID).
		First(&existing).Error
	switch {
	case err == nil:
		level.ID = existing.ID
		level.CreatedAt = existing.CreatedAt
		err = r.db.Omit(clause.Associations).Save(level).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = r.db.Create(level).Error
	}
	if err != nil {
		logger.Error("Failed to upsert inventory level", err, map[string]interface{}{
			"inventory_item_id": level.InventoryItemID,
			"location_id":       level.LocationID,
		})
		return err
	}

	logger.Debug("Inventory level upserted", map[string]interface{}{
		"inventory_level_id": level.ID,
	})
	return nil
}
