package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wfunc/game-catalog/internal/cache"
	"github.com/wfunc/game-catalog/internal/config"
	apperrors "github.com/wfunc/game-catalog/internal/errors"
	"github.com/wfunc/game-catalog/internal/models"
	"go.uber.org/zap"
)

// 列表排序：远端服务自带的"最多收录"排序，客户端不再重排
const gameOrdering = "-added"

// 热门游戏的查询窗口，服务于首页轮播
const (
	popularOrdering  = "-metacritic"
	popularDateRange = "2023-01-01,2024-12-31"
	popularPageSize  = 5
)

// Client 远端目录服务客户端
// 负责把逻辑查询翻译成HTTP请求并解码为实体，
// 每次成功调用都会先写入响应缓存再返回。
// 不做重试，重试策略（如果有）属于调用方。
type Client struct {
	cfg        *config.CatalogConfig
	httpClient *http.Client
	cache      *cache.Cache
	logger     *zap.Logger
}

// NewClient 创建目录服务客户端
func NewClient(cfg *config.CatalogConfig, c *cache.Cache, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		cache:  c,
		logger: logger,
	}
}

// ListGames 分页查询游戏列表
// 未提供的过滤条件不会出现在出站请求里
func (c *Client) ListGames(ctx context.Context, page int, search, genreSlug, tagSlug, publisherID string) (*models.GamePage, error) {
	key := cache.Key("games", strconv.Itoa(page), search, genreSlug, tagSlug, publisherID)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*models.GamePage), nil
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(c.cfg.GamePageSize))
	query.Set("ordering", gameOrdering)
	if search != "" {
		query.Set("search", search)
	}
	if genreSlug != "" {
		query.Set("genres", genreSlug)
	}
	if tagSlug != "" {
		query.Set("tags", tagSlug)
	}
	if publisherID != "" {
		query.Set("publishers", publisherID)
	}

	var result models.GamePage
	if err := c.getJSON(ctx, "games", "/games", query, &result); err != nil {
		return nil, err
	}

	c.cache.Put(key, &result)
	return &result, nil
}

// GetGameDetails 查询单个游戏详情（含描述和官网）
func (c *Client) GetGameDetails(ctx context.Context, id int) (*models.Game, error) {
	key := cache.Key("game_details", strconv.Itoa(id))
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*models.Game), nil
	}

	var game models.Game
	if err := c.getJSON(ctx, "game_details", fmt.Sprintf("/games/%d", id), nil, &game); err != nil {
		return nil, err
	}
	if game.ID == 0 {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "游戏 %d 不存在", id)
	}

	c.cache.Put(key, &game)
	return &game, nil
}

// GetSuggestedGames 查询相关推荐游戏
// 远端允许返回空列表，这不是错误
func (c *Client) GetSuggestedGames(ctx context.Context, id int) ([]models.Game, error) {
	key := cache.Key("suggested", strconv.Itoa(id))
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.Game), nil
	}

	query := url.Values{}
	query.Set("page_size", strconv.Itoa(c.cfg.SuggestedLimit))

	var result models.GamePage
	if err := c.getJSON(ctx, "suggested", fmt.Sprintf("/games/%d/suggested", id), query, &result); err != nil {
		return nil, err
	}

	c.cache.Put(key, result.Results)
	return result.Results, nil
}

// GetGameScreenshots 查询游戏截图，空列表是合法结果
func (c *Client) GetGameScreenshots(ctx context.Context, id int) ([]models.Screenshot, error) {
	key := cache.Key("screenshots", strconv.Itoa(id))
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.Screenshot), nil
	}

	var result models.ScreenshotPage
	if err := c.getJSON(ctx, "screenshots", fmt.Sprintf("/games/%d/screenshots", id), nil, &result); err != nil {
		return nil, err
	}

	c.cache.Put(key, result.Results)
	return result.Results, nil
}

// GetPopularGames 查询高评分热门游戏，服务于首页轮播
func (c *Client) GetPopularGames(ctx context.Context) ([]models.Game, error) {
	key := cache.Key("popular_games")
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.Game), nil
	}

	query := url.Values{}
	query.Set("page_size", strconv.Itoa(popularPageSize))
	query.Set("ordering", popularOrdering)
	query.Set("dates", popularDateRange)

	var result models.GamePage
	if err := c.getJSON(ctx, "popular_games", "/games", query, &result); err != nil {
		return nil, err
	}

	c.cache.Put(key, result.Results)
	return result.Results, nil
}

// ListGenres 查询全部游戏类型，用于填充过滤控件
func (c *Client) ListGenres(ctx context.Context) ([]models.Genre, error) {
	key := cache.Key("genres_list")
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.Genre), nil
	}

	var result models.GenrePage
	if err := c.getJSON(ctx, "genres", "/genres", nil, &result); err != nil {
		return nil, err
	}

	c.cache.Put(key, result.Results)
	return result.Results, nil
}

// ListTags 查询标签列表（按请求大小截断）
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	key := cache.Key("tags_list")
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]models.Tag), nil
	}

	query := url.Values{}
	query.Set("page_size", strconv.Itoa(c.cfg.TagPageSize))

	var result models.TagPage
	if err := c.getJSON(ctx, "tags", "/tags", query, &result); err != nil {
		return nil, err
	}

	c.cache.Put(key, result.Results)
	return result.Results, nil
}

// ListPublishers 分页查询发行商列表
func (c *Client) ListPublishers(ctx context.Context, page int, search string) (*models.PublisherPage, error) {
	key := cache.Key("publishers", strconv.Itoa(page), search)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*models.PublisherPage), nil
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(c.cfg.PublisherPageSize))
	if search != "" {
		query.Set("search", search)
	}

	var result models.PublisherPage
	if err := c.getJSON(ctx, "publishers", "/publishers", query, &result); err != nil {
		return nil, err
	}

	c.cache.Put(key, &result)
	return &result, nil
}

// GetPublisherDetails 查询发行商详情
// 返回体没有携带标识时视为未找到
func (c *Client) GetPublisherDetails(ctx context.Context, slug string) (*models.Publisher, error) {
	key := cache.Key("publisher_details", slug)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*models.Publisher), nil
	}

	var publisher models.Publisher
	if err := c.getJSON(ctx, "publisher_details", "/publishers/"+url.PathEscape(slug), nil, &publisher); err != nil {
		return nil, err
	}
	if publisher.ID == 0 {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "发行商 %s 不存在", slug)
	}

	c.cache.Put(key, &publisher)
	return &publisher, nil
}

// getJSON 发起一次出站请求并解码JSON响应
// 任何传输失败或非2xx状态都作为类型化错误抛给调用方，从不吞掉
func (c *Client) getJSON(ctx context.Context, operation, path string, query url.Values, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	if c.cfg.APIKey != "" {
		query.Set("key", c.cfg.APIKey)
	}

	requestURL := c.cfg.BaseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFetchFailed)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("目录服务请求失败",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Error(err))
		return apperrors.Wrap(err, apperrors.ErrFetchFailed)
	}
	defer resp.Body.Close()

	latency := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("目录服务返回异常状态",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", latency))
		return apperrors.Newf(apperrors.ErrFetchFailed, "操作 %s 返回状态码 %d", operation, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrDecodeFailed)
	}

	c.logger.Debug("目录服务请求完成",
		zap.String("operation", operation),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", latency))

	return nil
}
