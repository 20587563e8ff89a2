package service

import (
	"context"

	"github.com/wfunc/game-catalog/internal/config"
	"github.com/wfunc/game-catalog/internal/models"
	"github.com/wfunc/game-catalog/internal/viewstate"
	"go.uber.org/zap"
)

// 首页聚合中新游戏展示数量
const recentGamesLimit = 8

// catalogService 游戏目录服务实现
type catalogService struct {
	client CatalogClient
	cfg    *config.CatalogConfig
	log    *zap.Logger
}

// NewCatalogService 创建游戏目录服务
func NewCatalogService(client CatalogClient, cfg *config.CatalogConfig, log *zap.Logger) CatalogService {
	return &catalogService{
		client: client,
		cfg:    cfg,
		log:    log,
	}
}

// BrowseGames 按视图状态浏览游戏列表
// 页码超出最新总页数时自动回到第一页重新拉取
func (s *catalogService) BrowseGames(ctx context.Context, state viewstate.State) (*GameListing, error) {
	page, err := s.client.ListGames(ctx, state.Page, state.Search, state.Genre, state.Tag, "")
	if err != nil {
		return nil, err
	}

	totalPages := viewstate.TotalPages(page.Count, s.cfg.GamePageSize, state.Filtered())

	// 过滤条件变化后旧页码可能失效
	normalized := state.Normalize(totalPages)
	if normalized.Page != state.Page {
		s.log.Debug("页码超出范围，回到第一页",
			zap.Int("requested", state.Page),
			zap.Int("total_pages", totalPages),
		)
		page, err = s.client.ListGames(ctx, normalized.Page, normalized.Search, normalized.Genre, normalized.Tag, "")
		if err != nil {
			return nil, err
		}
		state = normalized
	}

	return &GameListing{
		State:      state,
		TotalPages: totalPages,
		Count:      page.Count,
		Games:      page.Results,
	}, nil
}

// PublisherGames 浏览指定发行商的游戏，分页规则与主列表一致
func (s *catalogService) PublisherGames(ctx context.Context, publisherID string, pageNum int) (*GameListing, error) {
	state := viewstate.State{Page: pageNum}.Normalize(0)

	page, err := s.client.ListGames(ctx, state.Page, "", "", "", publisherID)
	if err != nil {
		return nil, err
	}

	totalPages := viewstate.TotalPages(page.Count, s.cfg.GamePageSize, false)

	normalized := state.Normalize(totalPages)
	if normalized.Page != state.Page {
		page, err = s.client.ListGames(ctx, normalized.Page, "", "", "", publisherID)
		if err != nil {
			return nil, err
		}
		state = normalized
	}

	return &GameListing{
		State:      state,
		TotalPages: totalPages,
		Count:      page.Count,
		Games:      page.Results,
	}, nil
}

// Trending 首页聚合：近期口碑榜 + 最新热门
// 两部分互相独立，一部分失败不拖垮另一部分
func (s *catalogService) Trending(ctx context.Context) (*TrendingResult, error) {
	result := &TrendingResult{}

	popular, popularErr := s.client.GetPopularGames(ctx)
	if popularErr != nil {
		s.log.Warn("口碑榜拉取失败", zap.Error(popularErr))
	} else {
		result.Popular = popular
	}

	page, recentErr := s.client.ListGames(ctx, 1, "", "", "", "")
	if recentErr != nil {
		s.log.Warn("最新游戏拉取失败", zap.Error(recentErr))
	} else {
		recent := page.Results
		if len(recent) > recentGamesLimit {
			recent = recent[:recentGamesLimit]
		}
		result.Recent = recent
	}

	// 两部分都失败才算整体失败
	if popularErr != nil && recentErr != nil {
		return nil, popularErr
	}
	return result, nil
}

// GameDetails 游戏详情
func (s *catalogService) GameDetails(ctx context.Context, id int) (*models.Game, error) {
	return s.client.GetGameDetails(ctx, id)
}

// SuggestedGames 相关游戏推荐
// 主推荐源失败或为空时，退回到同类型游戏列表；兜底也失败则返回空，不硬失败
func (s *catalogService) SuggestedGames(ctx context.Context, id int) ([]models.Game, error) {
	suggested, err := s.client.GetSuggestedGames(ctx, id)
	if err != nil {
		s.log.Warn("主推荐源拉取失败，尝试按类型兜底",
			zap.Int("game_id", id),
			zap.Error(err),
		)
	}
	if len(suggested) > 0 {
		return suggested, nil
	}

	return s.suggestedByGenre(ctx, id)
}

// suggestedByGenre 按游戏的首个类型拉取同类游戏作为推荐兜底
func (s *catalogService) suggestedByGenre(ctx context.Context, id int) ([]models.Game, error) {
	game, err := s.client.GetGameDetails(ctx, id)
	if err != nil {
		s.log.Warn("推荐兜底失败：详情不可用", zap.Int("game_id", id), zap.Error(err))
		return []models.Game{}, nil
	}

	genreSlug := game.FirstGenreSlug()
	if genreSlug == "" {
		return []models.Game{}, nil
	}

	page, err := s.client.ListGames(ctx, 1, "", genreSlug, "", "")
	if err != nil {
		s.log.Warn("推荐兜底失败：同类列表不可用",
			zap.Int("game_id", id),
			zap.String("genre", genreSlug),
			zap.Error(err),
		)
		return []models.Game{}, nil
	}

	fallback := make([]models.Game, 0, s.cfg.SuggestedLimit)
	for _, candidate := range page.Results {
		if candidate.ID == id {
			continue
		}
		fallback = append(fallback, candidate)
		if len(fallback) >= s.cfg.SuggestedLimit {
			break
		}
	}
	return fallback, nil
}

// Screenshots 游戏截图，属于可容忍区块，失败时返回空图集
func (s *catalogService) Screenshots(ctx context.Context, id int) ([]models.Screenshot, error) {
	screenshots, err := s.client.GetGameScreenshots(ctx, id)
	if err != nil {
		s.log.Warn("截图拉取失败，返回空图集", zap.Int("game_id", id), zap.Error(err))
		return []models.Screenshot{}, nil
	}
	return screenshots, nil
}

// Genres 全部类型
func (s *catalogService) Genres(ctx context.Context) ([]models.Genre, error) {
	return s.client.ListGenres(ctx)
}

// Tags 标签列表
func (s *catalogService) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.client.ListTags(ctx)
}

// Publishers 发行商列表
func (s *catalogService) Publishers(ctx context.Context, page int, search string) (*models.PublisherPage, error) {
	return s.client.ListPublishers(ctx, page, search)
}

// PublisherDetails 发行商详情
func (s *catalogService) PublisherDetails(ctx context.Context, slug string) (*models.Publisher, error) {
	return s.client.GetPublisherDetails(ctx, slug)
}
