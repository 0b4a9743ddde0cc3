package database

import (
	"time"

	"blog_social/pkg/logger"
	"blog_social/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StartPoolMonitor 周期性采集连接池状态并上报 Prometheus
func StartPoolMonitor(db *gorm.DB, interval time.Duration) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Warn("pool monitor disabled, cannot access sql.DB", zap.Error(err))
		return
	}

	collector := metrics.GetGlobalCollector()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			stats := sqlDB.Stats()
			collector.SetDBPoolStats(stats.InUse, stats.Idle)
		}
	}()
}
