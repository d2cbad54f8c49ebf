package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/stockfeed/pkg/response"
)

// RateLimit 按客户端 IP 限流（令牌桶）
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	get := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[key]; ok {
			return l
		}
		// 粗暴防膨胀：表过大直接清空重建
		if len(limiters) > 100000 {
			limiters = make(map[string]*rate.Limiter)
		}
		l := rate.NewLimiter(rate.Limit(rps), burst)
		limiters[key] = l
		return l
	}
	return func(c *gin.Context) {
		if !get(c.ClientIP()).Allow() {
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
