package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// NotFound 资源不存在 (404)
func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, ErrNotFound, msg)
}

// Forbidden 无权限操作 (403)
func Forbidden(c *gin.Context, msg string) {
	Error(c, http.StatusForbidden, ErrNoPermission, msg)
}
