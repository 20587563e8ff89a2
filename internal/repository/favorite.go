package repository

import (
	"context"
	"errors"

	apperrors "github.com/wfunc/game-catalog/internal/errors"
	"github.com/wfunc/game-catalog/internal/models"
	"gorm.io/gorm"
)

// FavoriteRepository 收藏仓储接口
// 收藏按设备隔离，同一设备同一游戏至多一条记录
type FavoriteRepository interface {
	BaseRepository
	Create(ctx context.Context, favorite *models.FavoriteGame) error
	DeleteByGameID(ctx context.Context, deviceID string, gameID int) error
	FindByGameID(ctx context.Context, deviceID string, gameID int) (*models.FavoriteGame, error)
	GetAll(ctx context.Context, deviceID string) ([]*models.FavoriteGame, error)
	Exists(ctx context.Context, deviceID string, gameID int) (bool, error)
	Count(ctx context.Context, deviceID string) (int64, error)
}

// favoriteRepo 收藏仓储实现
type favoriteRepo struct {
	*BaseRepo
}

// NewFavoriteRepository 创建收藏仓储
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 写入一条收藏快照
func (r *favoriteRepo) Create(ctx context.Context, favorite *models.FavoriteGame) error {
	if err := r.db.WithContext(ctx).Create(favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(err, apperrors.ErrAlreadyExists, "收藏已存在")
		}
		return err
	}
	return nil
}

// DeleteByGameID 删除指定设备对指定游戏的收藏
func (r *favoriteRepo) DeleteByGameID(ctx context.Context, deviceID string, gameID int) error {
	return r.db.WithContext(ctx).
		Where("device_id = ? AND game_id = ?", deviceID, gameID).
		Delete(&models.FavoriteGame{}).Error
}

// FindByGameID 查找指定设备对指定游戏的收藏
func (r *favoriteRepo) FindByGameID(ctx context.Context, deviceID string, gameID int) (*models.FavoriteGame, error) {
	var favorite models.FavoriteGame
	err := r.db.WithContext(ctx).
		Where("device_id = ? AND game_id = ?", deviceID, gameID).
		First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "收藏不存在")
		}
		return nil, err
	}
	return &favorite, nil
}

// GetAll 按收藏先后顺序返回设备的全部收藏
func (r *favoriteRepo) GetAll(ctx context.Context, deviceID string) ([]*models.FavoriteGame, error) {
	var favorites []*models.FavoriteGame
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("id ASC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// Exists 判断收藏是否存在
func (r *favoriteRepo) Exists(ctx context.Context, deviceID string, gameID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FavoriteGame{}).
		Where("device_id = ? AND game_id = ?", deviceID, gameID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count 统计设备的收藏数量
func (r *favoriteRepo) Count(ctx context.Context, deviceID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FavoriteGame{}).
		Where("device_id = ?", deviceID).
		Count(&count).Error
	return count, err
}
