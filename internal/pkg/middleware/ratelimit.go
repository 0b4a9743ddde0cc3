package middleware

import (
	"net/http"
	"sync"
	"time"

	"blog_social/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// 超过这个时长没有请求的 IP 会被清理
const limiterIdleTTL = 10 * time.Minute

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter 存储每个IP的限流器，空闲条目定期回收
type IPRateLimiter struct {
	ips map[string]*ipLimiterEntry
	mu  *sync.RWMutex
	r   rate.Limit
	b   int
	ttl time.Duration
}

// NewIPRateLimiter 创建一个新的IP限流器，并启动后台清理
// r: 每秒允许的请求数 (QPS)
// b: 桶的大小 (Burst)
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	l := &IPRateLimiter{
		ips: make(map[string]*ipLimiterEntry),
		mu:  &sync.RWMutex{},
		r:   r,
		b:   b,
		ttl: limiterIdleTTL,
	}
	go l.cleanupLoop()
	return l
}

// GetLimiter 获取指定IP的限流器，每次访问刷新活跃时间
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	entry, exists := i.ips[ip]
	if !exists {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = entry
	}
	entry.lastSeen = time.Now()

	return entry.limiter
}

// evictStale 删除在 now 之前空闲超过 ttl 的条目，返回删除数量
func (i *IPRateLimiter) evictStale(now time.Time) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	removed := 0
	for ip, entry := range i.ips {
		if now.Sub(entry.lastSeen) > i.ttl {
			delete(i.ips, ip)
			removed++
		}
	}
	return removed
}

func (i *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(i.ttl)
	defer ticker.Stop()
	for range ticker.C {
		i.evictStale(time.Now())
	}
}

// RateLimitMiddleware 限流中间件
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := limiter.GetLimiter(c.ClientIP())
		if !l.Allow() {
			response.Error(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
