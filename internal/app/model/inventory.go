package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InventoryVariantTag is the metadata key tying a stock record to a catalog variant.
const InventoryVariantTag = "variantId"

// InventoryItem is a stock-tracked unit. It is linked to a catalog variant only
// through Metadata[InventoryVariantTag], not through a foreign key.
type InventoryItem struct {
	ID        string            `gorm:"primaryKey;type:varchar(64)" json:"id"`
	SKU       string            `gorm:"type:varchar(100);index" json:"sku"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`

	Levels []InventoryLevel `gorm:"foreignKey:InventoryItemID" json:"levels,omitempty"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID("iitem")
	}
	return nil
}

// InventoryLevel is the stock of one inventory item at one location.
type InventoryLevel struct {
	ID                string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	InventoryItemID   string         `gorm:"type:varchar(64);not null;index" json:"inventory_item_id"`
	LocationID        string         `gorm:"type:varchar(64);not null" json:"location_id"`
	StockedQuantity   int            `gorm:"not null;default:0" json:"stocked_quantity"`
	ReservedQuantity  int            `gorm:"not null;default:0" json:"reserved_quantity"`
	AvailableQuantity int            `gorm:"not null;default:0" json:"available_quantity"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InventoryLevel) TableName() string {
	return "inventory_levels"
}

func (l *InventoryLevel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = newID("ilev")
	}
	return nil
}
