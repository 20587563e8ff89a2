package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// DeviceTokenTestSuite 设备令牌测试套件
type DeviceTokenTestSuite struct {
	suite.Suite
	manager *DeviceTokenManager
}

func (suite *DeviceTokenTestSuite) SetupTest() {
	suite.manager = NewDeviceTokenManager("test-secret", time.Hour)
}

// 测试签发与验证往返
func (suite *DeviceTokenTestSuite) TestGenerateAndValidate() {
	deviceID := NewDeviceID()

	token, err := suite.manager.GenerateToken(deviceID)
	suite.NoError(err)
	suite.NotEmpty(token)

	claims, err := suite.manager.ValidateToken(token)
	suite.NoError(err)
	suite.Equal(deviceID, claims.DeviceID)
	suite.Equal("game-catalog", claims.Issuer)
}

// 测试过期令牌被拒绝
func (suite *DeviceTokenTestSuite) TestValidate_Expired() {
	expired := NewDeviceTokenManager("test-secret", -time.Minute)

	token, err := expired.GenerateToken("device-1")
	suite.NoError(err)

	_, err = suite.manager.ValidateToken(token)
	suite.ErrorIs(err, ErrExpiredToken)
}

// 测试错误密钥签发的令牌被拒绝
func (suite *DeviceTokenTestSuite) TestValidate_WrongSecret() {
	other := NewDeviceTokenManager("other-secret", time.Hour)

	token, err := other.GenerateToken("device-1")
	suite.NoError(err)

	_, err = suite.manager.ValidateToken(token)
	suite.Error(err)
}

// 测试畸形令牌被拒绝
func (suite *DeviceTokenTestSuite) TestValidate_Malformed() {
	_, err := suite.manager.ValidateToken("not-a-jwt")
	suite.Error(err)
}

// 测试设备ID唯一性
func (suite *DeviceTokenTestSuite) TestNewDeviceID_Unique() {
	suite.NotEqual(NewDeviceID(), NewDeviceID())
}

func TestDeviceTokenTestSuite(t *testing.T) {
	suite.Run(t, new(DeviceTokenTestSuite))
}
