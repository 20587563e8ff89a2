package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-catalog/internal/utils"
)

// SessionHandler 设备会话处理器
type SessionHandler struct {
	tokenManager *utils.DeviceTokenManager
}

// NewSessionHandler 创建设备会话处理器
func NewSessionHandler(tokenManager *utils.DeviceTokenManager) *SessionHandler {
	return &SessionHandler{tokenManager: tokenManager}
}

// SessionResponse 会话响应
type SessionResponse struct {
	DeviceID string `json:"device_id"`
	Token    string `json:"token"`
}

// Create 创建或续期设备会话
// @Summary 创建设备会话
// @Description 无需注册，签发匿名设备令牌；携带有效旧令牌时保留设备ID续期
// @Tags Session
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/session [post]
func (h *SessionHandler) Create(c *gin.Context) {
	deviceID := h.existingDeviceID(c)
	if deviceID == "" {
		deviceID = utils.NewDeviceID()
	}

	token, err := h.tokenManager.GenerateToken(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "TOKEN_FAILED",
			Message: "签发设备令牌失败",
		})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		DeviceID: deviceID,
		Token:    token,
	})
}

// existingDeviceID 从旧令牌中恢复设备ID，令牌无效时按新设备处理
func (h *SessionHandler) existingDeviceID(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if bearerToken == "" {
		return ""
	}

	parts := strings.Split(bearerToken, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	claims, err := h.tokenManager.ValidateToken(parts[1])
	if err != nil {
		return ""
	}
	return claims.DeviceID
}
