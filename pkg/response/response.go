package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应包装
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

// BadRequest 400
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: 40000, Message: msg})
}

// Unauthorized 401
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Code: 40100, Message: msg})
}

// NotFound 404
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: 40400, Message: msg})
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, Response{Code: 42900, Message: "too many requests"})
}

// InternalError 500（不向客户端透出内部细节）
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Response{Code: 50000, Message: "internal error"})
}
