package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ikkim/bundlecart-backend/internal/app/model"
)

// Selections maps a slot key (slot id or slot name) to the chosen option tokens
// (option id, or a fragment of the option's variant id).
type Selections map[string][]string

// SelectionResult is the outcome of validating selections against a bundle.
type SelectionResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Resolution is the concrete set of catalog variants a bundle expands to.
// VariantIDs keeps one entry per contributing item or option, so a variant may
// repeat; Quantities holds the per-unit total for each distinct variant.
type Resolution struct {
	VariantIDs  []string                `json:"variant_ids"`
	Quantities  map[string]int          `json:"quantities"`
	FixedItems  []model.BundleComponent `json:"fixed_items"`
	ChoiceItems []model.BundleComponent `json:"choice_items"`
}

// slotTokens returns the tokens chosen for a slot: the entry under the slot id,
// else under the slot name, else (when the map has other keys) every value in
// the map flattened in key order. The flatten step lets single-slot bundles
// accept an unkeyed list; with several slots it can over-match.
func slotTokens(slot *model.ChoiceSlot, selections Selections) []string {
	if tokens, ok := selections[slot.ID]; ok {
		return tokens
	}
	if tokens, ok := selections[slot.Name]; ok {
		return tokens
	}
	if len(selections) == 0 {
		return nil
	}

	keys := make([]string, 0, len(selections))
	for k := range selections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var all []string
	for _, k := range keys {
		all = append(all, selections[k]...)
	}
	return all
}

// optionMatches reports whether a token picks the option: exact id, or a
// case-insensitive substring match in either direction against the variant id.
func optionMatches(option *model.ChoiceOption, token string) bool {
	if token == option.ID {
		return true
	}
	variant := strings.ToLower(option.VariantID)
	t := strings.ToLower(token)
	return strings.Contains(variant, t) || strings.Contains(t, variant)
}

// checkSelections applies the slot rules in slot order and accumulates every
// violation.
func checkSelections(bundle *model.Bundle, selections Selections) *SelectionResult {
	errs := []string{}

	for i := range bundle.ChoiceSlots {
		slot := &bundle.ChoiceSlots[i]
		tokens := slotTokens(slot, selections)

		if slot.Required && len(tokens) == 0 {
			errs = append(errs, fmt.Sprintf("Slot %q requires a selection", slot.Name))
		}
		if len(tokens) < slot.MinSelections {
			errs = append(errs, fmt.Sprintf("Slot %q requires at least %d selection(s)", slot.Name, slot.MinSelections))
		}
		if len(tokens) > slot.MaxSelections {
			errs = append(errs, fmt.Sprintf("Slot %q allows at most %d selection(s)", slot.Name, slot.MaxSelections))
		}

		for _, token := range tokens {
			matched := false
			for j := range slot.Options {
				if optionMatches(&slot.Options[j], token) {
					matched = true
					break
				}
			}
			if !matched {
				errs = append(errs, fmt.Sprintf("Invalid option %q for slot %q", token, slot.Name))
			}
		}
	}

	return &SelectionResult{Valid: len(errs) == 0, Errors: errs}
}

// resolveVariants expands fixed items plus every option picked by a token.
// An option is counted once however many tokens pick it.
func resolveVariants(bundle *model.Bundle, selections Selections) *Resolution {
	res := &Resolution{
		VariantIDs:  []string{},
		Quantities:  map[string]int{},
		FixedItems:  []model.BundleComponent{},
		ChoiceItems: []model.BundleComponent{},
	}

	add := func(variantID string, quantity int) {
		res.VariantIDs = append(res.VariantIDs, variantID)
		res.Quantities[variantID] += quantity
	}

	for _, item := range bundle.Items {
		add(item.VariantID, item.Quantity)
		res.FixedItems = append(res.FixedItems, model.BundleComponent{VariantID: item.VariantID, Quantity: item.Quantity})
	}

	for i := range bundle.ChoiceSlots {
		slot := &bundle.ChoiceSlots[i]
		tokens := slotTokens(slot, selections)
		for j := range slot.Options {
			option := &slot.Options[j]
			for _, token := range tokens {
				if optionMatches(option, token) {
					add(option.VariantID, option.Quantity)
					res.ChoiceItems = append(res.ChoiceItems, model.BundleComponent{VariantID: option.VariantID, Quantity: option.Quantity})
					break
				}
			}
		}
	}

	return res
}
