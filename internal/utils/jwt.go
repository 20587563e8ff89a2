package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// DeviceClaims 设备会话Claims
// 无需注册账号，设备ID即身份
type DeviceClaims struct {
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}

// DeviceTokenManager 设备会话令牌管理器
type DeviceTokenManager struct {
	secretKey string
	expiry    time.Duration
}

// NewDeviceTokenManager 创建设备令牌管理器
func NewDeviceTokenManager(secretKey string, expiry time.Duration) *DeviceTokenManager {
	return &DeviceTokenManager{
		secretKey: secretKey,
		expiry:    expiry,
	}
}

// NewDeviceID 生成新的设备ID
func NewDeviceID() string {
	return uuid.New().String()
}

// GenerateToken 为设备签发会话令牌
func (m *DeviceTokenManager) GenerateToken(deviceID string) (string, error) {
	now := time.Now()
	expiresAt := now.Add(m.expiry)

	claims := &DeviceClaims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "game-catalog",
			Subject:   deviceID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ValidateToken 验证令牌并取出设备ID
func (m *DeviceTokenManager) ValidateToken(tokenString string) (*DeviceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DeviceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.secretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, err
	}

	claims, ok := token.Claims.(*DeviceClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.DeviceID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
