package service

import (
	"context"

	"github.com/wfunc/game-catalog/internal/models"
	"github.com/wfunc/game-catalog/internal/viewstate"
)

// CatalogClient 远端游戏元数据客户端
// 抽出接口方便在测试中用假实现替换真实HTTP客户端
type CatalogClient interface {
	ListGames(ctx context.Context, page int, search, genreSlug, tagSlug, publisherID string) (*models.GamePage, error)
	GetGameDetails(ctx context.Context, id int) (*models.Game, error)
	GetSuggestedGames(ctx context.Context, id int) ([]models.Game, error)
	GetGameScreenshots(ctx context.Context, id int) ([]models.Screenshot, error)
	GetPopularGames(ctx context.Context) ([]models.Game, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListPublishers(ctx context.Context, page int, search string) (*models.PublisherPage, error)
	GetPublisherDetails(ctx context.Context, slug string) (*models.Publisher, error)
}

// GameListing 分页游戏列表
// State是实际生效的视图状态（页码可能被自动纠正过）
type GameListing struct {
	State      viewstate.State `json:"state"`
	TotalPages int             `json:"total_pages"`
	Count      int             `json:"count"`
	Games      []models.Game   `json:"games"`
}

// TrendingResult 首页聚合结果
type TrendingResult struct {
	Popular []models.Game `json:"popular"`
	Recent  []models.Game `json:"recent"`
}

// CatalogService 游戏目录服务接口
type CatalogService interface {
	// 列表浏览
	BrowseGames(ctx context.Context, state viewstate.State) (*GameListing, error)
	PublisherGames(ctx context.Context, publisherID string, page int) (*GameListing, error)
	Trending(ctx context.Context) (*TrendingResult, error)

	// 详情
	GameDetails(ctx context.Context, id int) (*models.Game, error)
	SuggestedGames(ctx context.Context, id int) ([]models.Game, error)
	Screenshots(ctx context.Context, id int) ([]models.Screenshot, error)

	// 元数据
	Genres(ctx context.Context) ([]models.Genre, error)
	Tags(ctx context.Context) ([]models.Tag, error)

	// 发行商
	Publishers(ctx context.Context, page int, search string) (*models.PublisherPage, error)
	PublisherDetails(ctx context.Context, slug string) (*models.Publisher, error)
}

// FavoriteEvent 收藏变化事件
type FavoriteEvent struct {
	DeviceID string `json:"device_id"`
	GameID   int    `json:"game_id"`
	Favorite bool   `json:"favorite"`
}

// FavoriteService 收藏服务接口
// 所有操作按设备隔离
type FavoriteService interface {
	List(ctx context.Context, deviceID string) ([]*models.FavoriteGame, error)
	IsFavorite(ctx context.Context, deviceID string, gameID int) (bool, error)
	Add(ctx context.Context, deviceID string, game *models.Game) error
	Remove(ctx context.Context, deviceID string, gameID int) error
	Toggle(ctx context.Context, deviceID string, game *models.Game) (bool, error)

	// Subscribe 注册收藏变化观察者，返回取消函数
	// 观察者在写库成功后、操作返回前同步收到事件
	Subscribe(fn func(FavoriteEvent)) (unsubscribe func())
}
