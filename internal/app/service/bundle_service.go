package service

import (
	"errors"

	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/internal/app/repository"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrBundleNotFound       = errors.New("bundle not found")
	ErrBundleInactive       = errors.New("bundle is not active")
	ErrBundleVariantMissing = errors.New("bundle has no linked variant")
	ErrInvalidBundleInput   = errors.New("invalid bundle input")
)

type BundleItemInput struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitempty,gte=1"`
	SortOrder *int   `json:"sort_order"`
}

type ChoiceOptionInput struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitempty,gte=1"`
	SortOrder *int   `json:"sort_order"`
}

type ChoiceSlotInput struct {
	Name          string              `json:"slot_name" validate:"required"`
	Description   *string             `json:"slot_description"`
	Required      *bool               `json:"required"`
	MinSelections *int                `json:"min_selections" validate:"omitempty,gte=1"`
	MaxSelections *int                `json:"max_selections" validate:"omitempty,gte=1"`
	SortOrder     *int                `json:"sort_order"`
	Options       []ChoiceOptionInput `json:"options" validate:"dive"`
}

type BundleTextInput struct {
	Text      string `json:"text" validate:"required,max=300"`
	SortOrder *int   `json:"sort_order"`
}

type CreateBundleInput struct {
	Title       string                 `json:"title" validate:"required"`
	Description *string                `json:"description"`
	ProductID   *string                `json:"product_id"`
	VariantID   *string                `json:"variant_id"`
	Price       *decimal.Decimal       `json:"bundle_price" validate:"required"`
	Image       *string                `json:"bundle_image"`
	IsActive    *bool                  `json:"is_active"`
	IsFeatured  *bool                  `json:"is_featured"`
	Metadata    map[string]interface{} `json:"metadata"`
	Items       []BundleItemInput      `json:"items" validate:"dive"`
	ChoiceSlots []ChoiceSlotInput      `json:"choice_slots" validate:"dive"`
	Texts       []BundleTextInput      `json:"bundle_texts" validate:"dive"`
}

// UpdateBundleInput is a partial update. A nil collection is left alone; a
// present one, even empty, replaces every existing child.
type UpdateBundleInput struct {
	Title       *string                `json:"title" validate:"omitempty,min=1"`
	Description *string                `json:"description"`
	ProductID   *string                `json:"product_id"`
	VariantID   *string                `json:"variant_id"`
	Price       *decimal.Decimal       `json:"bundle_price"`
	Image       *string                `json:"bundle_image"`
	IsActive    *bool                  `json:"is_active"`
	IsFeatured  *bool                  `json:"is_featured"`
	Metadata    map[string]interface{} `json:"metadata"`
	Items       *[]BundleItemInput     `json:"items" validate:"omitempty,dive"`
	ChoiceSlots *[]ChoiceSlotInput     `json:"choice_slots" validate:"omitempty,dive"`
	Texts       *[]BundleTextInput     `json:"bundle_texts" validate:"omitempty,dive"`
}

type BundleService interface {
	CreateBundle(input *CreateBundleInput) (*model.Bundle, error)
	UpdateBundle(id string, input *UpdateBundleInput) (*model.Bundle, error)
	GetBundleWithDetails(id string) (*model.Bundle, error)
	ListActiveBundlesWithDetails() ([]model.Bundle, error)
	DeleteBundleCascade(id string) error
	ValidateSelections(bundleID string, selections Selections) (*SelectionResult, error)
	ResolveBundleVariants(bundleID string, selections Selections) (*Resolution, error)
	SetBundleImage(id, imageURL string) (*model.Bundle, error)
	RefreshActiveBundleCache() (int, error)
}

type bundleService struct {
	bundleRepo repository.BundleRepository
	cache      BundleCache
}

func NewBundleService(bundleRepo repository.BundleRepository, cache ...BundleCache) BundleService {
	var c BundleCache
	if len(cache) > 0 {
		c = cache[0]
	}
	return &bundleService{
		bundleRepo: bundleRepo,
		cache:      c,
	}
}

func (s *bundleService) CreateBundle(input *CreateBundleInput) (*model.Bundle, error) {
	logger.Info("Creating bundle", map[string]interface{}{
		"title":        input.Title,
		"items":        len(input.Items),
		"choice_slots": len(input.ChoiceSlots),
	})

	if err := validateInput(input); err != nil {
		logger.Warn("Bundle input rejected", map[string]interface{}{
			"title": input.Title,
			"error": err.Error(),
		})
		return nil, err
	}

	bundle := &model.Bundle{
		Title:       input.Title,
		Description: input.Description,
		ProductID:   input.ProductID,
		VariantID:   input.VariantID,
		Price:       *input.Price,
		Image:       input.Image,
		IsActive:    boolOr(input.IsActive, true),
		IsFeatured:  boolOr(input.IsFeatured, false),
		Items:       buildItems(input.Items),
		ChoiceSlots: buildSlots(input.ChoiceSlots),
		Texts:       buildTexts(input.Texts),
	}
	if input.Metadata != nil {
		bundle.Metadata = datatypes.JSONMap(input.Metadata)
	}

	if err := s.bundleRepo.Create(bundle); err != nil {
		logger.Error("Failed to create bundle", err, map[string]interface{}{
			"title": input.Title,
		})
		return nil, err
	}
	s.invalidate(bundle.ID)

	logger.Info("Bundle created successfully", map[string]interface{}{
		"bundle_id": bundle.ID,
	})
	return s.load(bundle.ID)
}

func (s *bundleService) UpdateBundle(id string, input *UpdateBundleInput) (*model.Bundle, error) {
	logger.Info("Updating bundle", map[string]interface{}{
		"bundle_id":     id,
		"replace_items": input.Items != nil,
		"replace_slots": input.ChoiceSlots != nil,
		"replace_texts": input.Texts != nil,
	})

	if err := validateInput(input); err != nil {
		logger.Warn("Bundle update rejected", map[string]interface{}{
			"bundle_id": id,
			"error":     err.Error(),
		})
		return nil, err
	}

	changes := repository.BundleChanges{Fields: map[string]interface{}{}}
	if input.Title != nil {
		changes.Fields["title"] = *input.Title
	}
	if input.Description != nil {
		changes.Fields["description"] = *input.Description
	}
	if input.ProductID != nil {
		changes.Fields["product_id"] = *input.ProductID
	}
	if input.VariantID != nil {
		changes.Fields["variant_id"] = *input.VariantID
	}
	if input.Price != nil {
		changes.Fields["price"] = *input.Price
	}
	if input.Image != nil {
		changes.Fields["image"] = *input.Image
	}
	if input.IsActive != nil {
		changes.Fields["is_active"] = *input.IsActive
	}
	if input.IsFeatured != nil {
		changes.Fields["is_featured"] = *input.IsFeatured
	}
	if input.Metadata != nil {
		changes.Fields["metadata"] = datatypes.JSONMap(input.Metadata)
	}
	if input.Items != nil {
		items := buildItems(*input.Items)
		changes.Items = &items
	}
	if input.ChoiceSlots != nil {
		slots := buildSlots(*input.ChoiceSlots)
		changes.ChoiceSlots = &slots
	}
	if input.Texts != nil {
		texts := buildTexts(*input.Texts)
		changes.Texts = &texts
	}

	if err := s.bundleRepo.Update(id, changes); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Bundle not found for update", map[string]interface{}{
				"bundle_id": id,
			})
			return nil, ErrBundleNotFound
		}
		logger.Error("Failed to update bundle", err, map[string]interface{}{
			"bundle_id": id,
		})
		return nil, err
	}
	s.invalidate(id)

	logger.Info("Bundle updated successfully", map[string]interface{}{
		"bundle_id": id,
	})
	return s.load(id)
}

// GetBundleWithDetails returns the full aggregate, or ErrBundleNotFound when the
// bundle is absent or soft-deleted. Inactive bundles are returned.
func (s *bundleService) GetBundleWithDetails(id string) (*model.Bundle, error) {
	logger.Debug("Fetching bundle with details", map[string]interface{}{
		"bundle_id": id,
	})

	if s.cache != nil {
		if bundle, ok := s.cache.GetBundle(id); ok {
			return bundle, nil
		}
	}
	return s.load(id)
}

func (s *bundleService) load(id string) (*model.Bundle, error) {
	bundle, err := s.bundleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Bundle not found", map[string]interface{}{
				"bundle_id": id,
			})
			return nil, ErrBundleNotFound
		}
		logger.Error("Failed to fetch bundle", err, map[string]interface{}{
			"bundle_id": id,
		})
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetBundle(bundle)
	}
	return bundle, nil
}

func (s *bundleService) ListActiveBundlesWithDetails() ([]model.Bundle, error) {
	logger.Debug("Listing active bundles")

	if s.cache != nil {
		if bundles, ok := s.cache.GetActiveBundles(); ok {
			return bundles, nil
		}
	}

	bundles, err := s.bundleRepo.FindActive()
	if err != nil {
		logger.Error("Failed to list active bundles", err)
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetActiveBundles(bundles)
	}

	logger.Info("Active bundles listed", map[string]interface{}{
		"count": len(bundles),
	})
	return bundles, nil
}

// DeleteBundleCascade soft-deletes the bundle, its children and its product links.
func (s *bundleService) DeleteBundleCascade(id string) error {
	logger.Info("Deleting bundle", map[string]interface{}{
		"bundle_id": id,
	})

	if err := s.bundleRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Bundle not found for delete", map[string]interface{}{
				"bundle_id": id,
			})
			return ErrBundleNotFound
		}
		logger.Error("Failed to delete bundle", err, map[string]interface{}{
			"bundle_id": id,
		})
		return err
	}
	s.invalidate(id)

	logger.Info("Bundle deleted successfully", map[string]interface{}{
		"bundle_id": id,
	})
	return nil
}

// ValidateSelections checks selections against the bundle's slot rules.
// A bundle without choice slots is always valid.
func (s *bundleService) ValidateSelections(bundleID string, selections Selections) (*SelectionResult, error) {
	bundle, err := s.GetBundleWithDetails(bundleID)
	if err != nil {
		return nil, err
	}

	result := checkSelections(bundle, selections)
	if !result.Valid {
		logger.Debug("Bundle selections invalid", map[string]interface{}{
			"bundle_id": bundleID,
			"errors":    result.Errors,
		})
	}
	return result, nil
}

// ResolveBundleVariants expands a bundle and selections into catalog variants.
func (s *bundleService) ResolveBundleVariants(bundleID string, selections Selections) (*Resolution, error) {
	bundle, err := s.GetBundleWithDetails(bundleID)
	if err != nil {
		return nil, err
	}

	res := resolveVariants(bundle, selections)
	logger.Debug("Bundle variants resolved", map[string]interface{}{
		"bundle_id":  bundleID,
		"variants":   len(res.VariantIDs),
		"quantities": res.Quantities,
	})
	return res, nil
}

func (s *bundleService) SetBundleImage(id, imageURL string) (*model.Bundle, error) {
	return s.UpdateBundle(id, &UpdateBundleInput{Image: &imageURL})
}

// RefreshActiveBundleCache reloads the active list from the database into the cache.
func (s *bundleService) RefreshActiveBundleCache() (int, error) {
	bundles, err := s.bundleRepo.FindActive()
	if err != nil {
		logger.Error("Failed to refresh active bundle cache", err)
		return 0, err
	}
	if s.cache != nil {
		s.cache.SetActiveBundles(bundles)
	}
	return len(bundles), nil
}

func (s *bundleService) invalidate(id string) {
	if s.cache != nil {
		s.cache.Invalidate(id)
	}
}

func buildItems(inputs []BundleItemInput) []model.BundleItem {
	items := make([]model.BundleItem, 0, len(inputs))
	for i, in := range inputs {
		items = append(items, model.BundleItem{
			VariantID: in.VariantID,
			Quantity:  intOr(in.Quantity, 1),
			SortOrder: intOr(in.SortOrder, i),
		})
	}
	return items
}

func buildSlots(inputs []ChoiceSlotInput) []model.ChoiceSlot {
	slots := make([]model.ChoiceSlot, 0, len(inputs))
	for i, in := range inputs {
		slot := model.ChoiceSlot{
			Name:          in.Name,
			Description:   in.Description,
			Required:      boolOr(in.Required, true),
			MinSelections: intOr(in.MinSelections, 1),
			MaxSelections: intOr(in.MaxSelections, 1),
			SortOrder:     intOr(in.SortOrder, i),
		}
		if slot.MaxSelections < slot.MinSelections {
			logger.Warn("Choice slot max_selections below min_selections", map[string]interface{}{
				"slot_name":      slot.Name,
				"min_selections": slot.MinSelections,
				"max_selections": slot.MaxSelections,
			})
		}
		for j, opt := range in.Options {
			slot.Options = append(slot.Options, model.ChoiceOption{
				VariantID: opt.VariantID,
				Quantity:  intOr(opt.Quantity, 1),
				SortOrder: intOr(opt.SortOrder, j),
			})
		}
		slots = append(slots, slot)
	}
	return slots
}

func buildTexts(inputs []BundleTextInput) []model.BundleText {
	texts := make([]model.BundleText, 0, len(inputs))
	for i, in := range inputs {
		texts = append(texts, model.BundleText{
			Text:      in.Text,
			SortOrder: intOr(in.SortOrder, i),
		})
	}
	return texts
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
