package model

import (
	"time"

	"gorm.io/gorm"
)

// Product and ProductVariant mirror the catalog records bundles point at.
// Ids are assigned by the catalog, not generated here.
type Product struct {
	ID        string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

type ProductVariant struct {
	ID        string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ProductID string         `gorm:"type:varchar(64);not null;index" json:"product_id"`
	Title     string         `gorm:"not null" json:"title"`
	SKU       string         `gorm:"type:varchar(100);index" json:"sku"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}
