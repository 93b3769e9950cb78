package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bundle is a sellable composite: fixed items plus pick-N-of-M choice slots
// sold under one price and one representative catalog variant.
type Bundle struct {
	ID          string            `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Title       string            `gorm:"not null" json:"title"`
	Description *string           `gorm:"type:text" json:"description"`
	ProductID   *string           `gorm:"type:varchar(64);index" json:"product_id"` // 연결된 카탈로그 상품
	VariantID   *string           `gorm:"type:varchar(64)" json:"variant_id"`       // 장바구니에 담기는 대표 SKU
	Price       decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"bundle_price"`
	Image       *string           `json:"bundle_image"`
	IsActive    bool              `gorm:"not null;index" json:"is_active"`
	IsFeatured  bool              `gorm:"not null" json:"is_featured"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships (assembled explicitly by the repository)
	Items       []BundleItem `gorm:"foreignKey:BundleID" json:"items"`
	ChoiceSlots []ChoiceSlot `gorm:"foreignKey:BundleID" json:"choice_slots"`
	Texts       []BundleText `gorm:"foreignKey:BundleID" json:"bundle_texts"`
}

func (Bundle) TableName() string {
	return "bundles"
}

func (b *Bundle) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = newID("bndl")
	}
	return nil
}

// RepresentativeVariant returns the linked variant id or "" when none is set.
func (b *Bundle) RepresentativeVariant() string {
	if b.VariantID == nil {
		return ""
	}
	return *b.VariantID
}

// BundleItem is always included when the bundle is added to a cart.
type BundleItem struct {
	ID        string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BundleID  string         `gorm:"type:varchar(64);not null;index" json:"bundle_id"`
	VariantID string         `gorm:"type:varchar(64);not null" json:"variant_id"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BundleItem) TableName() string {
	return "bundle_items"
}

func (i *BundleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID("bitem")
	}
	return nil
}

// ChoiceSlot is a named pick-N-of-M decision point within a bundle.
type ChoiceSlot struct {
	ID            string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BundleID      string         `gorm:"type:varchar(64);not null;index" json:"bundle_id"`
	Name          string         `gorm:"not null" json:"slot_name"`
	Description   *string        `gorm:"type:text" json:"slot_description"`
	Required      bool           `gorm:"not null" json:"required"`
	MinSelections int            `gorm:"not null;default:1" json:"min_selections"`
	MaxSelections int            `gorm:"not null;default:1" json:"max_selections"`
	SortOrder     int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Options []ChoiceOption `gorm:"foreignKey:ChoiceSlotID" json:"options"`
}

func (ChoiceSlot) TableName() string {
	return "choice_slots"
}

func (s *ChoiceSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = newID("cslot")
	}
	return nil
}

// ChoiceOption is one selectable alternative within its slot.
type ChoiceOption struct {
	ID           string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ChoiceSlotID string         `gorm:"type:varchar(64);not null;index" json:"choice_slot_id"`
	VariantID    string         `gorm:"type:varchar(64);not null" json:"variant_id"`
	Quantity     int            `gorm:"not null;default:1" json:"quantity"`
	SortOrder    int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ChoiceOption) TableName() string {
	return "choice_options"
}

func (o *ChoiceOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = newID("copt")
	}
	return nil
}

// BundleText is a display-only line shown with the bundle.
type BundleText struct {
	ID        string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BundleID  string         `gorm:"type:varchar(64);not null;index" json:"bundle_id"`
	Text      string         `gorm:"type:varchar(300);not null" json:"text"`
	SortOrder int            `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BundleText) TableName() string {
	return "bundle_texts"
}

func (t *BundleText) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID("btxt")
	}
	return nil
}

// ProductBundleLink records the catalog product a bundle is published under.
type ProductBundleLink struct {
	ID        string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ProductID string         `gorm:"type:varchar(64);not null;index" json:"product_id"`
	BundleID  string         `gorm:"type:varchar(64);not null;index" json:"bundle_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProductBundleLink) TableName() string {
	return "product_bundle_links"
}

func (l *ProductBundleLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = newID("pblink")
	}
	return nil
}

// BundleComponent is a variant/quantity pair recorded in line item metadata.
type BundleComponent struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}
