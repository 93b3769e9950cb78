package service

import (
	"testing"

	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotFixture(required bool, min, max int) model.ChoiceSlot {
	return model.ChoiceSlot{
		ID:            "slot_size",
		Name:          "Size",
		Required:      required,
		MinSelections: min,
		MaxSelections: max,
		Options: []model.ChoiceOption{
			{ID: "opt_a", VariantID: "variant_small", Quantity: 1},
			{ID: "opt_b", VariantID: "variant_large", Quantity: 2},
		},
	}
}

func TestCheckSelections_NoSlotsAlwaysValid(t *testing.T) {
	bundle := &model.Bundle{ID: "b1"}

	for _, selections := range []Selections{
		nil,
		{},
		{"anything": {"x", "y"}},
	} {
		result := checkSelections(bundle, selections)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
		assert.NotNil(t, result.Errors)
	}
}

func TestCheckSelections_ErrorsAccumulate(t *testing.T) {
	bundle := &model.Bundle{ChoiceSlots: []model.ChoiceSlot{slotFixture(true, 2, 2)}}

	t.Run("empty selection", func(t *testing.T) {
		result := checkSelections(bundle, Selections{"slot_size": {}})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{
			`Slot "Size" requires a selection`,
			`Slot "Size" requires at least 2 selection(s)`,
		}, result.Errors)
	})

	t.Run("one selection", func(t *testing.T) {
		result := checkSelections(bundle, Selections{"slot_size": {"opt_a"}})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{`Slot "Size" requires at least 2 selection(s)`}, result.Errors)
	})

	t.Run("exact selection", func(t *testing.T) {
		result := checkSelections(bundle, Selections{"slot_size": {"opt_a", "opt_b"}})
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("too many with unknown option", func(t *testing.T) {
		result := checkSelections(bundle, Selections{"slot_size": {"opt_a", "opt_b", "opt_missing"}})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{
			`Slot "Size" allows at most 2 selection(s)`,
			`Invalid option "opt_missing" for slot "Size"`,
		}, result.Errors)
	})
}

func TestCheckSelections_OptionalSlotMayBeEmpty(t *testing.T) {
	slot := slotFixture(false, 0, 1)
	bundle := &model.Bundle{ChoiceSlots: []model.ChoiceSlot{slot}}

	result := checkSelections(bundle, Selections{})
	assert.True(t, result.Valid)
}

func TestSlotTokens_KeyResolution(t *testing.T) {
	slot := slotFixture(true, 1, 1)

	assert.Equal(t, []string{"opt_a"}, slotTokens(&slot, Selections{"slot_size": {"opt_a"}, "Size": {"opt_b"}}))
	assert.Equal(t, []string{"opt_b"}, slotTokens(&slot, Selections{"Size": {"opt_b"}}))
	assert.Empty(t, slotTokens(&slot, Selections{"slot_size": {}, "other": {"opt_b"}}))
	assert.Nil(t, slotTokens(&slot, Selections{}))

	// no entry for this slot: every value in the map, in key order
	assert.Equal(t, []string{"opt_b", "opt_a"}, slotTokens(&slot, Selections{"b": {"opt_a"}, "a": {"opt_b"}}))
}

func TestOptionMatches(t *testing.T) {
	option := &model.ChoiceOption{ID: "opt_a", VariantID: "variant_Small_RED"}

	assert.True(t, optionMatches(option, "opt_a"))
	assert.True(t, optionMatches(option, "small_red"))
	assert.True(t, optionMatches(option, "VARIANT_SMALL_RED"))
	assert.True(t, optionMatches(option, "prefix-variant_small_red-suffix"))
	assert.False(t, optionMatches(option, "opt_b"))
	assert.False(t, optionMatches(option, "blue"))
}

func TestCheckSelections_SubstringToken(t *testing.T) {
	bundle := &model.Bundle{ChoiceSlots: []model.ChoiceSlot{slotFixture(true, 1, 1)}}

	result := checkSelections(bundle, Selections{"Size": {"LARGE"}})
	assert.True(t, result.Valid)
}

func TestResolveVariants_AggregatesQuantities(t *testing.T) {
	bundle := &model.Bundle{
		Items: []model.BundleItem{
			{VariantID: "V1", Quantity: 2},
			{VariantID: "V1", Quantity: 3},
		},
	}

	res := resolveVariants(bundle, nil)
	assert.Equal(t, []string{"V1", "V1"}, res.VariantIDs)
	assert.Equal(t, 5, res.Quantities["V1"])
	assert.Len(t, res.FixedItems, 2)
	assert.Empty(t, res.ChoiceItems)
}

func TestResolveVariants_ChoiceOptions(t *testing.T) {
	bundle := &model.Bundle{
		Items:       []model.BundleItem{{VariantID: "variant_large", Quantity: 1}},
		ChoiceSlots: []model.ChoiceSlot{slotFixture(true, 1, 2)},
	}

	res := resolveVariants(bundle, Selections{"slot_size": {"opt_b"}})
	assert.Equal(t, []string{"variant_large", "variant_large"}, res.VariantIDs)
	assert.Equal(t, map[string]int{"variant_large": 3}, res.Quantities)
	assert.Equal(t, []model.BundleComponent{{VariantID: "variant_large", Quantity: 2}}, res.ChoiceItems)
}

func TestResolveVariants_OptionCountedOncePerMatch(t *testing.T) {
	bundle := &model.Bundle{ChoiceSlots: []model.ChoiceSlot{slotFixture(true, 1, 2)}}

	// both tokens pick opt_a
	res := resolveVariants(bundle, Selections{"Size": {"opt_a", "small"}})
	assert.Equal(t, []string{"variant_small"}, res.VariantIDs)
	assert.Equal(t, 1, res.Quantities["variant_small"])
}

func TestResolveVariants_Idempotent(t *testing.T) {
	bundle := &model.Bundle{
		Items:       []model.BundleItem{{VariantID: "V1", Quantity: 1}},
		ChoiceSlots: []model.ChoiceSlot{slotFixture(true, 1, 2)},
	}
	selections := Selections{"Size": {"opt_a", "opt_b"}}

	first := resolveVariants(bundle, selections)
	second := resolveVariants(bundle, selections)
	require.Equal(t, first, second)
	assert.Equal(t, map[string]int{"V1": 1, "variant_small": 1, "variant_large": 2}, first.Quantities)
}

func TestResolveVariants_FlattenFallbackAcrossSlots(t *testing.T) {
	color := model.ChoiceSlot{
		ID:            "slot_color",
		Name:          "Color",
		MinSelections: 1,
		MaxSelections: 1,
		Options:       []model.ChoiceOption{{ID: "opt_red", VariantID: "variant_red", Quantity: 1}},
	}
	bundle := &model.Bundle{ChoiceSlots: []model.ChoiceSlot{slotFixture(true, 1, 1), color}}

	// unkeyed selections are offered to every slot
	res := resolveVariants(bundle, Selections{"picks": {"opt_a", "opt_red"}})
	assert.Equal(t, []string{"variant_small", "variant_red"}, res.VariantIDs)

	result := checkSelections(bundle, Selections{"picks": {"opt_a", "opt_red"}})
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, `Slot "Size" allows at most 1 selection(s)`)
	assert.Contains(t, result.Errors, `Invalid option "opt_red" for slot "Size"`)
}
