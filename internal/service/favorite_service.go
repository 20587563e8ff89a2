package service

import (
	"context"
	"sync"

	apperrors "github.com/wfunc/game-catalog/internal/errors"
	"github.com/wfunc/game-catalog/internal/logger"
	"github.com/wfunc/game-catalog/internal/models"
	"github.com/wfunc/game-catalog/internal/repository"
	"go.uber.org/zap"
)

// favoriteService 收藏服务实现
type favoriteService struct {
	repo repository.FavoriteRepository
	log  *zap.Logger

	observerMu sync.RWMutex
	observers  map[int]func(FavoriteEvent)
	nextID     int
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(repo repository.FavoriteRepository, log *zap.Logger) FavoriteService {
	return &favoriteService{
		repo:      repo,
		log:       log,
		observers: make(map[int]func(FavoriteEvent)),
	}
}

// List 返回设备的全部收藏，按收藏先后排序
func (s *favoriteService) List(ctx context.Context, deviceID string) ([]*models.FavoriteGame, error) {
	favorites, err := s.repo.GetAll(ctx, deviceID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrFavoriteQuery, "查询收藏失败")
	}
	return favorites, nil
}

// IsFavorite 判断游戏是否已被该设备收藏
func (s *favoriteService) IsFavorite(ctx context.Context, deviceID string, gameID int) (bool, error) {
	exists, err := s.repo.Exists(ctx, deviceID, gameID)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrFavoriteQuery, "查询收藏失败")
	}
	return exists, nil
}

// Add 收藏游戏，幂等：已收藏时直接返回成功
func (s *favoriteService) Add(ctx context.Context, deviceID string, game *models.Game) error {
	exists, err := s.repo.Exists(ctx, deviceID, game.ID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFavoriteQuery, "查询收藏失败")
	}
	if exists {
		return nil
	}

	if err := s.repo.Create(ctx, models.NewFavoriteGame(deviceID, game)); err != nil {
		// 并发重复收藏视为成功
		if apperrors.Is(err, apperrors.ErrAlreadyExists) {
			return nil
		}
		return apperrors.Wrap(err, apperrors.ErrFavoriteSave, "保存收藏失败")
	}

	logger.LogFavoritesEvent(deviceID, game.ID, true)
	s.notify(FavoriteEvent{DeviceID: deviceID, GameID: game.ID, Favorite: true})
	return nil
}

// Remove 取消收藏，幂等：未收藏时直接返回成功
func (s *favoriteService) Remove(ctx context.Context, deviceID string, gameID int) error {
	exists, err := s.repo.Exists(ctx, deviceID, gameID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFavoriteQuery, "查询收藏失败")
	}
	if !exists {
		return nil
	}

	if err := s.repo.DeleteByGameID(ctx, deviceID, gameID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrFavoriteDelete, "删除收藏失败")
	}

	logger.LogFavoritesEvent(deviceID, gameID, false)
	s.notify(FavoriteEvent{DeviceID: deviceID, GameID: gameID, Favorite: false})
	return nil
}

// Toggle 切换收藏状态，返回切换后的状态
func (s *favoriteService) Toggle(ctx context.Context, deviceID string, game *models.Game) (bool, error) {
	exists, err := s.repo.Exists(ctx, deviceID, game.ID)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrFavoriteQuery, "查询收藏失败")
	}

	if exists {
		if err := s.Remove(ctx, deviceID, game.ID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.Add(ctx, deviceID, game); err != nil {
		return false, err
	}
	return true, nil
}

// Subscribe 注册收藏变化观察者
func (s *favoriteService) Subscribe(fn func(FavoriteEvent)) func() {
	s.observerMu.Lock()
	defer s.observerMu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.observerMu.Lock()
		defer s.observerMu.Unlock()
		delete(s.observers, id)
	}
}

// notify 同步通知全部观察者
func (s *favoriteService) notify(event FavoriteEvent) {
	s.observerMu.RLock()
	observers := make([]func(FavoriteEvent), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.observerMu.RUnlock()

	for _, fn := range observers {
		fn(event)
	}
}
