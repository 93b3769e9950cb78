package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Line item metadata keys stamped by the bundle cart flow.
const (
	MetaBundleID          = "_bundle_id"
	MetaBundleTitle       = "_bundle_title"
	MetaBundlePrice       = "_bundle_price"
	MetaBundleSelections  = "_bundle_selections"
	MetaBundleItems       = "_bundle_items"
	MetaBundleChoiceItems = "_bundle_choice_items"
	MetaBundleNote        = "_bundle_personalized_note"
)

type Cart struct {
	ID           string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email        string         `json:"email"`
	CurrencyCode string         `gorm:"type:varchar(3);not null;default:'inr'" json:"currency_code"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Items []LineItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID("cart")
	}
	return nil
}

type LineItem struct {
	ID        string            `gorm:"primaryKey;type:varchar(64)" json:"id"`
	CartID    string            `gorm:"type:varchar(64);not null;index" json:"cart_id"`
	VariantID string            `gorm:"type:varchar(64);not null" json:"variant_id"`
	Title     string            `gorm:"not null" json:"title"`
	Quantity  int               `gorm:"not null;default:1" json:"quantity"`
	UnitPrice decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (LineItem) TableName() string {
	return "line_items"
}

func (i *LineItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID("litem")
	}
	return nil
}

// BundleID returns the bundle id stamped in the metadata, or "".
func (i *LineItem) BundleID() string {
	if i.Metadata == nil {
		return ""
	}
	id, _ := i.Metadata[MetaBundleID].(string)
	return id
}
