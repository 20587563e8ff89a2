package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/wfunc/game-catalog/internal/cache"
	"github.com/wfunc/game-catalog/internal/config"
	apperrors "github.com/wfunc/game-catalog/internal/errors"
	"github.com/wfunc/game-catalog/internal/models"
	"go.uber.org/zap"
)

// ClientTestSuite 目录客户端测试套件
type ClientTestSuite struct {
	suite.Suite
	server   *httptest.Server
	client   *Client
	cache    *cache.Cache
	requests []*http.Request // 记录到达远端的所有请求
	handler  http.HandlerFunc
}

func (suite *ClientTestSuite) SetupTest() {
	suite.requests = nil
	suite.handler = nil

	suite.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.requests = append(suite.requests, r.Clone(context.Background()))
		if suite.handler != nil {
			suite.handler(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.GamePage{})
	}))

	suite.cache = cache.New()
	suite.client = NewClient(&config.CatalogConfig{
		BaseURL:           suite.server.URL,
		APIKey:            "test-key",
		RequestTimeout:    5 * time.Second,
		GamePageSize:      40,
		PublisherPageSize: 20,
		TagPageSize:       20,
		SuggestedLimit:    4,
	}, suite.cache, zap.NewNop())
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.server.Close()
}

// 测试游戏列表请求参数
func (suite *ClientTestSuite) TestListGames_QueryParams() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.GamePage{Count: 1, Results: []models.Game{{ID: 1, Name: "Halo"}}})
	}

	page, err := suite.client.ListGames(context.Background(), 2, "halo", "action", "", "")
	suite.NoError(err)
	suite.Equal(1, page.Count)

	suite.Require().Len(suite.requests, 1)
	query := suite.requests[0].URL.Query()
	suite.Equal("2", query.Get("page"))
	suite.Equal("40", query.Get("page_size"))
	suite.Equal("-added", query.Get("ordering"))
	suite.Equal("halo", query.Get("search"))
	suite.Equal("action", query.Get("genres"))
	suite.Equal("test-key", query.Get("key"))

	// 未提供的过滤条件不应出现在出站请求里
	suite.False(query.Has("tags"))
	suite.False(query.Has("publishers"))
}

// 测试缓存命中不再发起网络请求
func (suite *ClientTestSuite) TestListGames_CacheHit() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.GamePage{Count: 2, Results: []models.Game{{ID: 1}, {ID: 2}}})
	}

	first, err := suite.client.ListGames(context.Background(), 1, "", "", "", "")
	suite.NoError(err)

	second, err := suite.client.ListGames(context.Background(), 1, "", "", "", "")
	suite.NoError(err)

	// 第二次调用返回同一个缓存值，且只有一次到达远端
	suite.Same(first, second)
	suite.Len(suite.requests, 1)
}

// 测试不同参数组合各自独立缓存
func (suite *ClientTestSuite) TestListGames_CacheKeyPerParams() {
	_, err := suite.client.ListGames(context.Background(), 1, "", "", "", "")
	suite.NoError(err)
	_, err = suite.client.ListGames(context.Background(), 2, "", "", "", "")
	suite.NoError(err)
	_, err = suite.client.ListGames(context.Background(), 1, "halo", "", "", "")
	suite.NoError(err)

	suite.Len(suite.requests, 3)
}

// 测试非2xx状态抛出传输失败
func (suite *ClientTestSuite) TestListGames_TransportFailure() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}

	_, err := suite.client.ListGames(context.Background(), 1, "", "", "", "")
	suite.Error(err)
	suite.True(apperrors.Is(err, apperrors.ErrFetchFailed))

	// 失败不写缓存
	_, err = suite.client.ListGames(context.Background(), 1, "", "", "", "")
	suite.Error(err)
	suite.Len(suite.requests, 2)
}

// 测试游戏详情
func (suite *ClientTestSuite) TestGetGameDetails() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Game{
			ID:          42,
			Name:        "The Witness",
			Description: "<p>A puzzle game.</p>",
			Website:     "https://example.com",
			Genres:      []models.Genre{{ID: 1, Name: "Puzzle", Slug: "puzzle"}},
		})
	}

	game, err := suite.client.GetGameDetails(context.Background(), 42)
	suite.NoError(err)
	suite.Equal(42, game.ID)
	suite.Equal("puzzle", game.FirstGenreSlug())
	suite.Equal("/games/42", suite.requests[0].URL.Path)

	// 命中缓存
	again, err := suite.client.GetGameDetails(context.Background(), 42)
	suite.NoError(err)
	suite.Same(game, again)
	suite.Len(suite.requests, 1)
}

// 测试推荐游戏允许为空
func (suite *ClientTestSuite) TestGetSuggestedGames_EmptyIsValid() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.GamePage{Count: 0, Results: []models.Game{}})
	}

	games, err := suite.client.GetSuggestedGames(context.Background(), 42)
	suite.NoError(err)
	suite.Empty(games)
	suite.Equal("4", suite.requests[0].URL.Query().Get("page_size"))
}

// 测试热门游戏查询参数
func (suite *ClientTestSuite) TestGetPopularGames_QueryParams() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.GamePage{Count: 5, Results: []models.Game{{ID: 1}}})
	}

	_, err := suite.client.GetPopularGames(context.Background())
	suite.NoError(err)

	query := suite.requests[0].URL.Query()
	suite.Equal("5", query.Get("page_size"))
	suite.Equal("-metacritic", query.Get("ordering"))
	suite.Equal("2023-01-01,2024-12-31", query.Get("dates"))
}

// 测试标签列表按请求大小截断
func (suite *ClientTestSuite) TestListTags_PageSize() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.TagPage{Count: 100, Results: []models.Tag{{ID: 1, Slug: "singleplayer"}}})
	}

	tags, err := suite.client.ListTags(context.Background())
	suite.NoError(err)
	suite.Len(tags, 1)
	suite.Equal("20", suite.requests[0].URL.Query().Get("page_size"))
}

// 测试发行商列表
func (suite *ClientTestSuite) TestListPublishers() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PublisherPage{Count: 1, Results: []models.Publisher{{ID: 7, Name: "Valve", Slug: "valve"}}})
	}

	page, err := suite.client.ListPublishers(context.Background(), 1, "valve")
	suite.NoError(err)
	suite.Equal(1, page.Count)

	query := suite.requests[0].URL.Query()
	suite.Equal("20", query.Get("page_size"))
	suite.Equal("valve", query.Get("search"))
}

// 测试发行商详情缺失标识时返回未找到
func (suite *ClientTestSuite) TestGetPublisherDetails_NotFound() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		// 远端对未知slug返回无标识的空对象
		json.NewEncoder(w).Encode(map[string]interface{}{"detail": "Not found."})
	}

	_, err := suite.client.GetPublisherDetails(context.Background(), "no-such-publisher")
	suite.Error(err)
	suite.True(apperrors.Is(err, apperrors.ErrNotFound))
}

// 测试发行商详情正常返回
func (suite *ClientTestSuite) TestGetPublisherDetails() {
	suite.handler = func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Publisher{ID: 7, Name: "Valve", Slug: "valve", GamesCount: 50})
	}

	publisher, err := suite.client.GetPublisherDetails(context.Background(), "valve")
	suite.NoError(err)
	suite.Equal("valve", publisher.RouteSlug())
	suite.Equal(50, publisher.GamesCount)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}
