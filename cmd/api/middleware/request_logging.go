package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"car-advisor/internal/logger"
)

// SlowRequestLogger 는 threshold 보다 오래 걸린 요청을 경고로 남긴다.
// 추천/차량 Q&A 처럼 외부 API 를 기다리는 경로의 지연을 추적하기 위한 것이다.
func SlowRequestLogger(threshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		if threshold <= 0 || elapsed < threshold {
			return
		}
		logger.Log.Warnf(
			"slow_request method=%s path=%s status=%d duration_ms=%d",
			c.Request.Method,
			c.FullPath(),
			c.Writer.Status(),
			elapsed.Milliseconds(),
		)
	}
}
