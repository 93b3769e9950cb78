package service

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/internal/app/repository"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxPersonalizedNoteLength = 500
	// MaxBundleQuantity caps both a single request and the accumulated cart line.
	MaxBundleQuantity = 10000
)

// errInventoryLookup marks a failure of the stock subsystem itself, as opposed to a shortfall.
var errInventoryLookup = errors.New("inventory lookup failed")

type BundleCartService interface {
	// AddBundleToCart validates, resolves and stock-checks the bundle, then adds
	// it to the cart as one line item on the bundle's representative variant.
	// Re-adding the same bundle to a cart increases that line's quantity.
	AddBundleToCart(bundleID, cartID string, quantity int, selections Selections, note *string) (*model.LineItem, error)
}

type bundleCartService struct {
	bundleService BundleService
	inventoryRepo repository.InventoryRepository
	cartRepo      repository.CartRepository
}

func NewBundleCartService(
	bundleService BundleService,
	inventoryRepo repository.InventoryRepository,
	cartRepo repository.CartRepository,
) BundleCartService {
	return &bundleCartService{
		bundleService: bundleService,
		inventoryRepo: inventoryRepo,
		cartRepo:      cartRepo,
	}
}

func (s *bundleCartService) AddBundleToCart(bundleID, cartID string, quantity int, selections Selections, note *string) (*model.LineItem, error) {
	logger.Info("Adding bundle to cart", map[string]interface{}{
		"bundle_id": bundleID,
		"cart_id":   cartID,
		"quantity":  quantity,
	})

	if fields := checkAddInput(quantity, note); fields != nil {
		return nil, &InputError{Fields: fields}
	}
	if selections == nil {
		selections = Selections{}
	}

	bundle, err := s.bundleService.GetBundleWithDetails(bundleID)
	if err != nil {
		return nil, err
	}
	if !bundle.IsActive {
		logger.Warn("Cannot add to cart: bundle inactive", map[string]interface{}{
			"bundle_id": bundleID,
		})
		return nil, ErrBundleInactive
	}
	variantID := bundle.RepresentativeVariant()
	if variantID == "" {
		logger.Warn("Cannot add to cart: bundle has no linked variant", map[string]interface{}{
			"bundle_id": bundleID,
		})
		return nil, ErrBundleVariantMissing
	}

	// validation and resolution both read this one aggregate
	if len(bundle.ChoiceSlots) > 0 {
		if result := checkSelections(bundle, selections); !result.Valid {
			logger.Warn("Cannot add to cart: invalid selections", map[string]interface{}{
				"bundle_id": bundleID,
				"errors":    result.Errors,
			})
			return nil, &SelectionError{Errors: result.Errors}
		}
	}

	res := resolveVariants(bundle, selections)

	if err := s.checkInventory(res, quantity); err != nil {
		var shortfall *InsufficientInventoryError
		if errors.As(err, &shortfall) {
			logger.Warn("Cannot add to cart: insufficient inventory", map[string]interface{}{
				"bundle_id":  bundleID,
				"variant_id": shortfall.VariantID,
				"required":   shortfall.Required,
				"available":  shortfall.Available,
			})
			return nil, err
		}
		logger.Warn("Inventory check skipped", map[string]interface{}{
			"bundle_id": bundleID,
			"error":     err.Error(),
		})
	}

	cart, err := s.cartRepo.FindByID(cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: cart not found", map[string]interface{}{
				"cart_id": cartID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}

	metadata := bundleMetadata(bundle, selections, res, note)

	if existing := findBundleLine(cart.Items, variantID, bundle.ID); existing != nil {
		if existing.Quantity > MaxBundleQuantity-quantity {
			logger.Warn("Cannot add to cart: line quantity limit reached", map[string]interface{}{
				"line_item_id": existing.ID,
				"quantity":     existing.Quantity,
				"requested":    quantity,
			})
			return nil, &InputError{Fields: map[string]string{
				"quantity": fmt.Sprintf("Cart already holds %d of this bundle; at most %d allowed", existing.Quantity, MaxBundleQuantity),
			}}
		}
		logger.Debug("Merging bundle into existing line item", map[string]interface{}{
			"line_item_id": existing.ID,
			"old_qty":      existing.Quantity,
			"new_qty":      existing.Quantity + quantity,
		})
		existing.Quantity += quantity
		merged := datatypes.JSONMap{}
		for k, v := range existing.Metadata {
			merged[k] = v
		}
		for k, v := range metadata {
			merged[k] = v
		}
		existing.Metadata = merged

		if err := s.cartRepo.UpdateLineItem(existing); err != nil {
			logger.Error("Failed to update bundle line item", err, map[string]interface{}{
				"line_item_id": existing.ID,
			})
			return nil, fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
		}

		logger.Info("Bundle quantity increased in cart", map[string]interface{}{
			"cart_id":      cartID,
			"line_item_id": existing.ID,
			"quantity":     existing.Quantity,
		})
		return existing, nil
	}

	item := &model.LineItem{
		CartID:    cart.ID,
		VariantID: variantID,
		Title:     bundle.Title,
		Quantity:  quantity,
		UnitPrice: bundle.Price,
		Metadata:  metadata,
	}
	if err := s.cartRepo.CreateLineItem(item); err != nil {
		logger.Error("Failed to create bundle line item", err, map[string]interface{}{
			"cart_id":   cartID,
			"bundle_id": bundleID,
		})
		return nil, fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}

	logger.Info("Bundle added to cart successfully", map[string]interface{}{
		"cart_id":      cartID,
		"line_item_id": item.ID,
	})
	return item, nil
}

// checkInventory compares the stock of every distinct resolved variant against
// its per-unit quantity times the requested bundle quantity. Variants without a
// stock record are not checked. A requirement that overflows int saturates at
// math.MaxInt. Lookup failures come back wrapped in errInventoryLookup.
func (s *bundleCartService) checkInventory(res *Resolution, quantity int) error {
	checked := make(map[string]bool, len(res.Quantities))

	for _, variantID := range res.VariantIDs {
		if checked[variantID] {
			continue
		}
		checked[variantID] = true

		perUnit := res.Quantities[variantID]
		required := math.MaxInt
		if perUnit <= math.MaxInt/quantity {
			required = perUnit * quantity
		}

		item, err := s.inventoryRepo.FindItemByVariant(variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Debug("Variant has no stock record, skipping", map[string]interface{}{
					"variant_id": variantID,
				})
				continue
			}
			return fmt.Errorf("%w: %v", errInventoryLookup, err)
		}

		levels, err := s.inventoryRepo.FindLevelsByItem(item.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", errInventoryLookup, err)
		}

		available := 0
		for _, level := range levels {
			available += level.AvailableQuantity
		}
		if available < required {
			return &InsufficientInventoryError{
				VariantID: variantID,
				Required:  required,
				Available: available,
			}
		}
	}
	return nil
}

func checkAddInput(quantity int, note *string) map[string]string {
	fields := map[string]string{}
	if quantity < 1 {
		fields["quantity"] = "Must be greater than or equal to 1"
	} else if quantity > MaxBundleQuantity {
		fields["quantity"] = fmt.Sprintf("Must be at most %d", MaxBundleQuantity)
	}
	if note != nil && utf8.RuneCountInString(*note) > maxPersonalizedNoteLength {
		fields["personalized_note"] = fmt.Sprintf("Must be at most %d characters", maxPersonalizedNoteLength)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func bundleMetadata(bundle *model.Bundle, selections Selections, res *Resolution, note *string) datatypes.JSONMap {
	metadata := datatypes.JSONMap{
		model.MetaBundleID:          bundle.ID,
		model.MetaBundleTitle:       bundle.Title,
		model.MetaBundlePrice:       bundle.Price.InexactFloat64(),
		model.MetaBundleSelections:  selections,
		model.MetaBundleItems:       res.FixedItems,
		model.MetaBundleChoiceItems: res.ChoiceItems,
	}
	if note != nil {
		metadata[model.MetaBundleNote] = *note
	}
	return metadata
}

func findBundleLine(items []model.LineItem, variantID, bundleID string) *model.LineItem {
	for i := range items {
		if items[i].VariantID == variantID && items[i].BundleID() == bundleID {
			return &items[i]
		}
	}
	return nil
}
