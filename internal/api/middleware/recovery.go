package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/stockfeed/pkg/logger"
	"github.com/d60-Lab/stockfeed/pkg/response"
)

// Recovery panic 捕获：上报 sentry 后返回 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				if hub := sentry.CurrentHub(); hub.Client() != nil {
					hub.Recover(r)
				}
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				if c.Writer.Written() {
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
				response.InternalError(c, err)
				c.Abort()
			}
		}()
		c.Next()
	}
}
