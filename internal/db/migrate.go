package db

import (
	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Product{},
		&model.ProductVariant{},
		&model.InventoryItem{},
		&model.InventoryLevel{},
		&model.Bundle{},
		&model.BundleItem{},
		&model.ChoiceSlot{},
		&model.ChoiceOption{},
		&model.BundleText{},
		&model.ProductBundleLink{},
		&model.Cart{},
		&model.LineItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return migrate(DB)
}

func migrate(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
