package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/game-catalog/internal/cache"
	"github.com/wfunc/game-catalog/internal/catalog"
	"github.com/wfunc/game-catalog/internal/config"
	"github.com/wfunc/game-catalog/internal/models"
	"github.com/wfunc/game-catalog/internal/repository"
	"github.com/wfunc/game-catalog/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIIntegrationTestSuite 接口集成测试套件
// 用内存数据库和假远端目录服务跑完整请求链路
type APIIntegrationTestSuite struct {
	suite.Suite
	db       *gorm.DB
	upstream *httptest.Server
	router   *Router
}

func (suite *APIIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *APIIntegrationTestSuite) SetupTest() {
	suite.db = repository.SetupTestDB()
	suite.upstream = httptest.NewServer(http.HandlerFunc(suite.serveUpstream))

	catalogCfg := &config.CatalogConfig{
		BaseURL:           suite.upstream.URL,
		APIKey:            "test-key",
		RequestTimeout:    5 * time.Second,
		GamePageSize:      40,
		PublisherPageSize: 20,
		TagPageSize:       20,
		SuggestedLimit:    4,
	}

	client := catalog.NewClient(catalogCfg, cache.New(), zap.NewNop())
	suite.router = NewRouter(suite.db, client, &service.Config{
		Catalog:     catalogCfg,
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
	}, zap.NewNop())
}

func (suite *APIIntegrationTestSuite) TearDownTest() {
	suite.upstream.Close()
	repository.CleanupTestDB(suite.db)
}

// serveUpstream 假远端目录服务
func (suite *APIIntegrationTestSuite) serveUpstream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/games":
		json.NewEncoder(w).Encode(models.GamePage{
			Count: 100,
			Results: []models.Game{
				{ID: 3328, Name: "The Witcher 3", Rating: 4.7},
				{ID: 4200, Name: "Portal 2", Rating: 4.6},
			},
		})
	case "/games/3328":
		json.NewEncoder(w).Encode(models.Game{
			ID:     3328,
			Name:   "The Witcher 3",
			Rating: 4.7,
			Genres: []models.Genre{{ID: 4, Name: "Action", Slug: "action"}},
		})
	case "/games/3328/suggested":
		json.NewEncoder(w).Encode(models.GamePage{
			Count:   1,
			Results: []models.Game{{ID: 4200, Name: "Portal 2"}},
		})
	case "/genres":
		json.NewEncoder(w).Encode(models.GenrePage{
			Count:   1,
			Results: []models.Genre{{ID: 4, Name: "Action", Slug: "action"}},
		})
	case "/publishers/valve":
		json.NewEncoder(w).Encode(models.Publisher{ID: 7, Name: "Valve", Slug: "valve"})
	case "/publishers/no-such":
		// 远端对未知slug返回无标识的空对象
		json.NewEncoder(w).Encode(map[string]interface{}{"detail": "Not found."})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// request 发起请求并返回响应记录器
func (suite *APIIntegrationTestSuite) request(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	suite.router.GetEngine().ServeHTTP(recorder, req)
	return recorder
}

// newSession 创建设备会话并返回令牌
func (suite *APIIntegrationTestSuite) newSession() SessionResponse {
	recorder := suite.request(http.MethodPost, "/api/v1/session", "")
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var session SessionResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &session))
	return session
}

// 测试健康检查
func (suite *APIIntegrationTestSuite) TestHealthCheck() {
	recorder := suite.request(http.MethodGet, "/health", "")
	suite.Equal(http.StatusOK, recorder.Code)
}

// 测试设备会话签发与续期
func (suite *APIIntegrationTestSuite) TestSession() {
	session := suite.newSession()
	suite.NotEmpty(session.DeviceID)
	suite.NotEmpty(session.Token)

	// 携带旧令牌续期时保留设备ID
	recorder := suite.request(http.MethodPost, "/api/v1/session", session.Token)
	suite.Equal(http.StatusOK, recorder.Code)

	var renewed SessionResponse
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &renewed))
	suite.Equal(session.DeviceID, renewed.DeviceID)
}

// 测试游戏列表
func (suite *APIIntegrationTestSuite) TestListGames() {
	recorder := suite.request(http.MethodGet, "/api/v1/games?page=1", "")
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var listing service.GameListing
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &listing))
	suite.Equal(100, listing.Count)
	suite.Equal(3, listing.TotalPages)
	suite.Len(listing.Games, 2)
}

// 测试游戏详情
func (suite *APIIntegrationTestSuite) TestGameDetail() {
	recorder := suite.request(http.MethodGet, "/api/v1/games/3328", "")
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var game models.Game
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &game))
	suite.Equal("The Witcher 3", game.Name)
}

// 测试非法游戏ID
func (suite *APIIntegrationTestSuite) TestGameDetail_InvalidID() {
	recorder := suite.request(http.MethodGet, "/api/v1/games/abc", "")
	suite.Equal(http.StatusBadRequest, recorder.Code)
}

// 测试未知发行商返回404
func (suite *APIIntegrationTestSuite) TestPublisherNotFound() {
	recorder := suite.request(http.MethodGet, "/api/v1/publishers/no-such", "")
	suite.Equal(http.StatusNotFound, recorder.Code)
}

// 测试远端不可用时返回502
func (suite *APIIntegrationTestSuite) TestUpstreamFailure() {
	recorder := suite.request(http.MethodGet, "/api/v1/tags", "")
	suite.Equal(http.StatusBadGateway, recorder.Code)

	var errResp ErrorResponse
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &errResp))
	suite.Equal("UPSTREAM_UNAVAILABLE", errResp.Code)
}

// 测试收藏接口要求设备令牌
func (suite *APIIntegrationTestSuite) TestFavorites_RequireToken() {
	recorder := suite.request(http.MethodGet, "/api/v1/favorites", "")
	suite.Equal(http.StatusUnauthorized, recorder.Code)
}

// 测试收藏完整流程
func (suite *APIIntegrationTestSuite) TestFavorites_Flow() {
	session := suite.newSession()

	// 收藏
	recorder := suite.request(http.MethodPut, "/api/v1/favorites/3328", session.Token)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	// 重复收藏幂等
	recorder = suite.request(http.MethodPut, "/api/v1/favorites/3328", session.Token)
	suite.Equal(http.StatusOK, recorder.Code)

	// 列表里保存了快照
	recorder = suite.request(http.MethodGet, "/api/v1/favorites", session.Token)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var favorites []models.FavoriteGame
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &favorites))
	suite.Require().Len(favorites, 1)
	suite.Equal("The Witcher 3", favorites[0].Name)
	suite.Equal(4.7, favorites[0].Rating)

	// 收藏状态
	recorder = suite.request(http.MethodGet, "/api/v1/favorites/3328", session.Token)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var status FavoriteStatusResponse
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &status))
	suite.True(status.Favorite)

	// 取消收藏
	recorder = suite.request(http.MethodDelete, "/api/v1/favorites/3328", session.Token)
	suite.Equal(http.StatusOK, recorder.Code)

	recorder = suite.request(http.MethodGet, "/api/v1/favorites", session.Token)
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &favorites))
	suite.Empty(favorites)
}

// 测试切换收藏
func (suite *APIIntegrationTestSuite) TestFavorites_Toggle() {
	session := suite.newSession()

	recorder := suite.request(http.MethodPost, "/api/v1/favorites/3328/toggle", session.Token)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var status FavoriteStatusResponse
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &status))
	suite.True(status.Favorite)

	recorder = suite.request(http.MethodPost, "/api/v1/favorites/3328/toggle", session.Token)
	suite.Require().Equal(http.StatusOK, recorder.Code)
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &status))
	suite.False(status.Favorite)
}

// 测试设备之间的收藏互相隔离
func (suite *APIIntegrationTestSuite) TestFavorites_DeviceIsolation() {
	first := suite.newSession()
	second := suite.newSession()

	recorder := suite.request(http.MethodPut, "/api/v1/favorites/3328", first.Token)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	recorder = suite.request(http.MethodGet, "/api/v1/favorites", second.Token)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var favorites []models.FavoriteGame
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &favorites))
	suite.Empty(favorites)
}

// 测试推荐接口
func (suite *APIIntegrationTestSuite) TestSuggestedGames() {
	recorder := suite.request(http.MethodGet, "/api/v1/games/3328/suggested", "")
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var games []models.Game
	suite.NoError(json.Unmarshal(recorder.Body.Bytes(), &games))
	suite.Require().Len(games, 1)
	suite.Equal("Portal 2", games[0].Name)
}

// 测试未知路由
func (suite *APIIntegrationTestSuite) TestNoRoute() {
	recorder := suite.request(http.MethodGet, "/api/v1/nope", "")
	suite.Equal(http.StatusNotFound, recorder.Code)
}

func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}
