package repository

import (
	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BundleChanges describes an update. Nil collections are left untouched;
// non-nil collections (even empty) replace the existing children.
type BundleChanges struct {
	Fields      map[string]interface{}
	Items       *[]model.BundleItem
	ChoiceSlots *[]model.ChoiceSlot
	Texts       *[]model.BundleText
}

type BundleRepository interface {
	Create(bundle *model.Bundle) error
	FindByID(id string) (*model.Bundle, error)
	FindActive() ([]model.Bundle, error)
	Update(id string, changes BundleChanges) error
	Delete(id string) error
}

type bundleRepository struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

// withDetails preloads the composition tree in display order.
func withDetails(db *gorm.DB) *gorm.DB {
	ordered := func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC").Order("created_at ASC")
	}
	return db.
		Preload("Items", ordered).
		Preload("ChoiceSlots", ordered).
		Preload("ChoiceSlots.Options", ordered).
		Preload("Texts", ordered)
}

// Create writes the bundle row, then its fixed items, then each slot followed by
// its options, then texts, in one transaction.
func (r *bundleRepository) Create(bundle *model.Bundle) error {
	logger.Debug("Creating bundle in database", map[string]interface{}{
		"title":        bundle.Title,
		"items":        len(bundle.Items),
		"choice_slots": len(bundle.ChoiceSlots),
		"texts":        len(bundle.Texts),
	})

	items, slots, texts := bundle.Items, bundle.ChoiceSlots, bundle.Texts

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(bundle).Error; err != nil {
			return err
		}
		if err := insertItems(tx, bundle.ID, items); err != nil {
			return err
		}
		if err := insertSlots(tx, bundle.ID, slots); err != nil {
			return err
		}
		if err := insertTexts(tx, bundle.ID, texts); err != nil {
			return err
		}
		if bundle.ProductID != nil && *bundle.ProductID != "" {
			return ensureProductLink(tx, bundle.ID, *bundle.ProductID)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create bundle in database", err, map[string]interface{}{
			"title": bundle.Title,
		})
		return err
	}

	logger.Debug("Bundle created in database", map[string]interface{}{
		"bundle_id": bundle.ID,
	})
	return nil
}

func (r *bundleRepository) FindByID(id string) (*model.Bundle, error) {
	logger.Debug("Finding bundle by ID in database", map[string]interface{}{
		"bundle_id": id,
	})

	var bundle model.Bundle
	if err := withDetails(r.db).Where("id = ?", id).First(&bundle).Error; err != nil {
		logger.Error("Failed to find bundle by ID in database", err, map[string]interface{}{
			"bundle_id": id,
		})
		return nil, err
	}

	logger.Debug("Bundle found by ID in database", map[string]interface{}{
		"bundle_id":    bundle.ID,
		"items":        len(bundle.Items),
		"choice_slots": len(bundle.ChoiceSlots),
	})
	return &bundle, nil
}

func (r *bundleRepository) FindActive() ([]model.Bundle, error) {
	logger.Debug("Finding active bundles in database")

	var bundles []model.Bundle
	err := withDetails(r.db).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&bundles).Error
	if err != nil {
		logger.Error("Failed to find active bundles in database", err)
		return nil, err
	}

	logger.Debug("Active bundles found in database", map[string]interface{}{
		"count": len(bundles),
	})
	return bundles, nil
}

func (r *bundleRepository) Update(id string, changes BundleChanges) error {
	logger.Debug("Updating bundle in database", map[string]interface{}{
		"bundle_id":     id,
		"fields":        len(changes.Fields),
		"replace_items": changes.Items != nil,
		"replace_slots": changes.ChoiceSlots != nil,
		"replace_texts": changes.Texts != nil,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var bundle model.Bundle
		if err := tx.Where("id = ?", id).First(&bundle).Error; err != nil {
			return err
		}

		if len(changes.Fields) > 0 {
			if err := tx.Model(&bundle).Omit(clause.Associations).Updates(changes.Fields).Error; err != nil {
				return err
			}
			if productID, ok := changes.Fields["product_id"].(string); ok {
				if err := relinkProduct(tx, id, productID); err != nil {
					return err
				}
			}
		}

		if changes.Items != nil {
			if err := tx.Where("bundle_id = ?", id).Delete(&model.BundleItem{}).Error; err != nil {
				return err
			}
			if err := insertItems(tx, id, *changes.Items); err != nil {
				return err
			}
		}

		if changes.ChoiceSlots != nil {
			if err := deleteSlots(tx, id); err != nil {
				return err
			}
			if err := insertSlots(tx, id, *changes.ChoiceSlots); err != nil {
				return err
			}
		}

		if changes.Texts != nil {
			if err := tx.Where("bundle_id = ?", id).Delete(&model.BundleText{}).Error; err != nil {
				return err
			}
			if err := insertTexts(tx, id, *changes.Texts); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update bundle in database", err, map[string]interface{}{
			"bundle_id": id,
		})
		return err
	}

	logger.Debug("Bundle updated in database", map[string]interface{}{
		"bundle_id": id,
	})
	return nil
}

// Delete soft-deletes the bundle with its items, slots, options, texts and
// product links.
func (r *bundleRepository) Delete(id string) error {
	logger.Debug("Deleting bundle from database", map[string]interface{}{
		"bundle_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var bundle model.Bundle
		if err := tx.Where("id = ?", id).First(&bundle).Error; err != nil {
			return err
		}
		if err := tx.Where("bundle_id = ?", id).Delete(&model.ProductBundleLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("bundle_id = ?", id).Delete(&model.BundleItem{}).Error; err != nil {
			return err
		}
		if err := deleteSlots(tx, id); err != nil {
			return err
		}
		if err := tx.Where("bundle_id = ?", id).Delete(&model.BundleText{}).Error; err != nil {
			return err
		}
		return tx.Delete(&bundle).Error
	})
	if err != nil {
		logger.Error("Failed to delete bundle from database", err, map[string]interface{}{
			"bundle_id": id,
		})
		return err
	}

	logger.Debug("Bundle deleted from database", map[string]interface{}{
		"bundle_id": id,
	})
	return nil
}

func insertItems(tx *gorm.DB, bundleID string, items []model.BundleItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]model.BundleItem, len(items))
	for i, item := range items {
		item.ID = ""
		item.BundleID = bundleID
		rows[i] = item
	}
	return tx.Create(&rows).Error
}

func insertSlots(tx *gorm.DB, bundleID string, slots []model.ChoiceSlot) error {
	for _, slot := range slots {
		options := slot.Options
		slot.ID = ""
		slot.BundleID = bundleID
		slot.Options = nil
		if err := tx.Omit(clause.Associations).Create(&slot).Error; err != nil {
			return err
		}
		if len(options) == 0 {
			continue
		}
		rows := make([]model.ChoiceOption, len(options))
		for i, option := range options {
			option.ID = ""
			option.ChoiceSlotID = slot.ID
			rows[i] = option
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

func insertTexts(tx *gorm.DB, bundleID string, texts []model.BundleText) error {
	if len(texts) == 0 {
		return nil
	}
	rows := make([]model.BundleText, len(texts))
	for i, text := range texts {
		text.ID = ""
		text.BundleID = bundleID
		rows[i] = text
	}
	return tx.Create(&rows).Error
}

func deleteSlots(tx *gorm.DB, bundleID string) error {
	slotIDs := tx.Model(&model.ChoiceSlot{}).Select("id").Where("bundle_id = ?", bundleID)
	if err := tx.Where("choice_slot_id IN (?)", slotIDs).Delete(&model.ChoiceOption{}).Error; err != nil {
		return err
	}
	return tx.Where("bundle_id = ?", bundleID).Delete(&model.ChoiceSlot{}).Error
}

// relinkProduct dismisses links to any other product, then links productID.
// An empty productID leaves the bundle unlinked.
func relinkProduct(tx *gorm.DB, bundleID, productID string) error {
	if err := tx.Where("bundle_id = ? AND product_id <> ?", bundleID, productID).
		Delete(&model.ProductBundleLink{}).Error; err != nil {
		return err
	}
	if productID == "" {
		return nil
	}
	return ensureProductLink(tx, bundleID, productID)
}

func ensureProductLink(tx *gorm.DB, bundleID, productID string) error {
	var count int64
	if err := tx.Model(&model.ProductBundleLink{}).
		Where("bundle_id = ? AND product_id = ?", bundleID, productID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.Create(&model.ProductBundleLink{BundleID: bundleID, ProductID: productID}).Error
}
