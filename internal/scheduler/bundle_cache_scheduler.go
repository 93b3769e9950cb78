package scheduler

import (
	"github.com/ikkim/bundlecart-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ActiveBundleRefresher reloads the active bundle list into the cache.
type ActiveBundleRefresher interface {
	RefreshActiveBundleCache() (int, error)
}

// BundleCacheScheduler 활성 번들 캐시 주기적 갱신 스케줄러
type BundleCacheScheduler struct {
	cron      *cron.Cron
	spec      string
	refresher ActiveBundleRefresher
}

// NewBundleCacheScheduler spec은 cron 표현식 또는 "@every 5m" 형식
func NewBundleCacheScheduler(spec string, refresher ActiveBundleRefresher) *BundleCacheScheduler {
	return &BundleCacheScheduler{
		cron:      cron.New(),
		spec:      spec,
		refresher: refresher,
	}
}

// Start 스케줄러 시작
func (s *BundleCacheScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		logger.Error("Failed to add cron job for bundle cache refresh", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Bundle cache scheduler started successfully", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *BundleCacheScheduler) refresh() {
	logger.Debug("Starting scheduled bundle cache refresh")

	count, err := s.refresher.RefreshActiveBundleCache()
	if err != nil {
		logger.Error("Failed to refresh bundle cache from scheduler", err)
		return
	}

	logger.Info("Refreshed active bundle cache", map[string]interface{}{
		"bundles": count,
	})
}

// Stop 스케줄러 중지
func (s *BundleCacheScheduler) Stop() {
	logger.Info("Stopping bundle cache scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Bundle cache scheduler stopped")
}
