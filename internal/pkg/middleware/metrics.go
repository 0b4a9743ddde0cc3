package middleware

import (
	"strconv"
	"time"

	"blog_social/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware HTTP 指标采集中间件
// endpoint 用路由模板（/posts/:slug）而不是原始路径，避免标签基数爆炸
func MetricsMiddleware() gin.HandlerFunc {
	collector := metrics.GetGlobalCollector()

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		collector.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
