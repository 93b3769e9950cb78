package service

import "github.com/ikkim/bundlecart-backend/internal/app/model"

// BundleCache is a read-through cache for assembled bundles. Implementations
// swallow their own failures; a miss is always safe.
type BundleCache interface {
	GetBundle(id string) (*model.Bundle, bool)
	SetBundle(bundle *model.Bundle)
	GetActiveBundles() ([]model.Bundle, bool)
	SetActiveBundles(bundles []model.Bundle)
	// Invalidate drops the given bundles and the active list.
	Invalidate(ids ...string)
}
