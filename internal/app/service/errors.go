package service

import (
	"fmt"
	"sort"
	"strings"
)

// SelectionError carries every slot rule violated by a selection set.
type SelectionError struct {
	Errors []string
}

func (e *SelectionError) Error() string {
	return "invalid selections: " + strings.Join(e.Errors, "; ")
}

// InsufficientInventoryError reports a variant whose stock cannot cover the request.
type InsufficientInventoryError struct {
	VariantID string `json:"variant_id"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for variant %s: required %d, available %d",
		e.VariantID, e.Required, e.Available)
}

// InputError maps request fields to the rule they failed.
type InputError struct {
	Fields map[string]string
}

func (e *InputError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, ", ")
}

// Unwrap lets callers match any InputError with errors.Is(err, ErrInvalidBundleInput).
func (e *InputError) Unwrap() error {
	return ErrInvalidBundleInput
}
