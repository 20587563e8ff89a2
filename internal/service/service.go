package service

import (
	"time"

	"github.com/wfunc/game-catalog/internal/config"
	"github.com/wfunc/game-catalog/internal/repository"
	"github.com/wfunc/game-catalog/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config 服务配置
type Config struct {
	Catalog     *config.CatalogConfig
	JWTSecret   string
	TokenExpiry time.Duration
}

// Services 服务集合
type Services struct {
	Catalog  CatalogService
	Favorite FavoriteService
	Token    *utils.DeviceTokenManager
}

// NewServices 创建服务集合
func NewServices(db *gorm.DB, client CatalogClient, cfg *Config, log *zap.Logger) *Services {
	// 初始化仓储
	favoriteRepo := repository.NewFavoriteRepository(db)

	// 初始化设备令牌管理器
	tokenManager := utils.NewDeviceTokenManager(cfg.JWTSecret, cfg.TokenExpiry)

	return &Services{
		Catalog:  NewCatalogService(client, cfg.Catalog, log),
		Favorite: NewFavoriteService(favoriteRepo, log),
		Token:    tokenManager,
	}
}
