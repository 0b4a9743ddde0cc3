package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter(t *testing.T) {
	t.Run("同一IP复用限流器", func(t *testing.T) {
		l := NewIPRateLimiter(1, 1)
		first := l.GetLimiter("10.0.0.1")
		second := l.GetLimiter("10.0.0.1")
		assert.Same(t, first, second)
	})

	t.Run("空闲条目被回收", func(t *testing.T) {
		l := NewIPRateLimiter(1, 1)
		l.GetLimiter("10.0.0.1")
		l.GetLimiter("10.0.0.2")

		// 人为把其中一个标记为很久没来
		l.mu.Lock()
		l.ips["10.0.0.1"].lastSeen = time.Now().Add(-2 * limiterIdleTTL)
		l.mu.Unlock()

		removed := l.evictStale(time.Now())
		assert.Equal(t, 1, removed)

		l.mu.RLock()
		_, staleExists := l.ips["10.0.0.1"]
		_, activeExists := l.ips["10.0.0.2"]
		l.mu.RUnlock()
		assert.False(t, staleExists)
		assert.True(t, activeExists)
	})

	t.Run("访问刷新活跃时间", func(t *testing.T) {
		l := NewIPRateLimiter(1, 1)
		l.GetLimiter("10.0.0.1")

		l.mu.Lock()
		l.ips["10.0.0.1"].lastSeen = time.Now().Add(-2 * limiterIdleTTL)
		l.mu.Unlock()

		// 再次访问后不应被清理
		l.GetLimiter("10.0.0.1")
		assert.Equal(t, 0, l.evictStale(time.Now()))
	})
}
