package repository

import (
	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepository interface {
	FindVariantsByIDs(ids []string) ([]model.ProductVariant, error)
	UpsertProduct(product *model.Product) error
	UpsertVariant(variant *model.ProductVariant) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) FindVariantsByIDs(ids []string) ([]model.ProductVariant, error) {
	logger.Debug("Finding variants by IDs", map[string]interface{}{
		"count": len(ids),
	})

	var variants []model.ProductVariant
	if len(ids) == 0 {
		return variants, nil
	}
	if err := r.db.Preload("Product").Where("id IN ?", ids).Find(&variants).Error; err != nil {
		logger.Error("Failed to find variants by IDs", err, map[string]interface{}{
			"ids": ids,
		})
		return nil, err
	}

	logger.Debug("Variants found by IDs", map[string]interface{}{
		"requested": len(ids),
		"found":     len(variants),
	})
	return variants, nil
}

func (r *catalogRepository) UpsertProduct(product *model.Product) error {
	logger.Debug("Upserting product", map[string]interface{}{
		"product_id": product.ID,
	})

	err := r.db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "updated_at"}),
	}).Create(product).Error
	if err != nil {
		logger.Error("Failed to upsert product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *catalogRepository) UpsertVariant(variant *model.ProductVariant) error {
	logger.Debug("Upserting product variant", map[string]interface{}{
		"variant_id": variant.ID,
		"product_id": variant.ProductID,
	})

	err := r.db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"product_id", "title", "sku", "updated_at"}),
	}).Create(variant).Error
	if err != nil {
		logger.Error("Failed to upsert product variant", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}
	return nil
}
