package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-catalog/internal/utils"
)

// SessionMiddleware 设备会话中间件
// 收藏等按设备隔离的接口由它识别调用方设备
type SessionMiddleware struct {
	tokenManager *utils.DeviceTokenManager
}

// NewSessionMiddleware 创建设备会话中间件
func NewSessionMiddleware(tokenManager *utils.DeviceTokenManager) *SessionMiddleware {
	return &SessionMiddleware{
		tokenManager: tokenManager,
	}
}

// RequireDevice 必须携带有效设备令牌
func (m *SessionMiddleware) RequireDevice() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "NO_TOKEN",
				"message": "缺少设备令牌",
			})
			c.Abort()
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "INVALID_TOKEN",
				"message": "无效的设备令牌",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		c.Set("deviceID", claims.DeviceID)
		c.Next()
	}
}

// OptionalDevice 设备令牌可选，有效时识别设备
func (m *SessionMiddleware) OptionalDevice() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := m.extractToken(c); token != "" {
			if claims, err := m.tokenManager.ValidateToken(token); err == nil {
				c.Set("deviceID", claims.DeviceID)
			}
		}
		c.Next()
	}
}

// extractToken 从请求中提取设备令牌
func (m *SessionMiddleware) extractToken(c *gin.Context) string {
	// 1. Authorization Header (Bearer Token)
	bearerToken := c.GetHeader("Authorization")
	if bearerToken != "" {
		parts := strings.Split(bearerToken, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// 2. WebSocket握手等场景用Query参数
	if token := c.Query("token"); token != "" {
		return token
	}

	return ""
}

// GetDeviceID 从上下文获取设备ID
func GetDeviceID(c *gin.Context) (string, bool) {
	if deviceID, exists := c.Get("deviceID"); exists {
		if id, ok := deviceID.(string); ok && id != "" {
			return id, true
		}
	}
	return "", false
}
