package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ikkim/bundlecart-backend/internal/app/model"
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	bundleKeyPrefix  = "bundle:"
	activeBundlesKey = "bundles:active"
	opTimeout        = 2 * time.Second
)

// BundleCache stores assembled bundles as JSON. Every failure is logged and
// reported as a miss so callers fall back to the database.
type BundleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBundleCache(client *redis.Client, ttl time.Duration) *BundleCache {
	return &BundleCache{client: client, ttl: ttl}
}

func bundleKey(id string) string {
	return bundleKeyPrefix + id
}

func (c *BundleCache) GetBundle(id string) (*model.Bundle, bool) {
	var bundle model.Bundle
	if !c.get(bundleKey(id), &bundle) {
		return nil, false
	}
	return &bundle, true
}

func (c *BundleCache) SetBundle(bundle *model.Bundle) {
	c.set(bundleKey(bundle.ID), bundle)
}

func (c *BundleCache) GetActiveBundles() ([]model.Bundle, bool) {
	var bundles []model.Bundle
	if !c.get(activeBundlesKey, &bundles) {
		return nil, false
	}
	return bundles, true
}

func (c *BundleCache) SetActiveBundles(bundles []model.Bundle) {
	if bundles == nil {
		bundles = []model.Bundle{}
	}
	c.set(activeBundlesKey, bundles)
}

// Invalidate drops the given bundles together with the active list.
func (c *BundleCache) Invalidate(ids ...string) {
	keys := []string{activeBundlesKey}
	for _, id := range ids {
		keys = append(keys, bundleKey(id))
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("Failed to invalidate bundle cache", map[string]interface{}{
			"keys":  keys,
			"error": err.Error(),
		})
	}
}

func (c *BundleCache) get(key string, dest interface{}) bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		logger.Warn("Bundle cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warn("Discarding undecodable bundle cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	return true
}

func (c *BundleCache) set(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Failed to encode bundle cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("Bundle cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
