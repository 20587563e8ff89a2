package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-catalog/internal/service"
	"github.com/wfunc/game-catalog/internal/viewstate"
)

// GameHandler 游戏目录处理器
type GameHandler struct {
	catalog service.CatalogService
}

// NewGameHandler 创建游戏目录处理器
func NewGameHandler(catalog service.CatalogService) *GameHandler {
	return &GameHandler{catalog: catalog}
}

// List 游戏列表
// @Summary 游戏列表
// @Description 按页码/搜索词/类型/标签浏览游戏，参数缺省时返回默认首页
// @Tags Games
// @Produce json
// @Param page query int false "页码，默认1"
// @Param search query string false "搜索词"
// @Param genre query string false "类型slug"
// @Param tag query string false "标签slug"
// @Success 200 {object} service.GameListing
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/games [get]
func (h *GameHandler) List(c *gin.Context) {
	state := viewstate.Decode(c.Request.URL.Query())

	listing, err := h.catalog.BrowseGames(c.Request.Context(), state)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// Trending 首页聚合
// @Summary 首页聚合
// @Description 近期口碑榜与最新热门游戏，一部分失败时返回另一部分
// @Tags Games
// @Produce json
// @Success 200 {object} service.TrendingResult
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/games/trending [get]
func (h *GameHandler) Trending(c *gin.Context) {
	result, err := h.catalog.Trending(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Detail 游戏详情
// @Summary 游戏详情
// @Tags Games
// @Produce json
// @Param id path int true "游戏ID"
// @Success 200 {object} models.Game
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/games/{id} [get]
func (h *GameHandler) Detail(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}

	game, err := h.catalog.GameDetails(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

// Suggested 相关游戏推荐
// @Summary 相关游戏推荐
// @Description 推荐源不可用时退回同类型游戏，始终返回200
// @Tags Games
// @Produce json
// @Param id path int true "游戏ID"
// @Success 200 {array} models.Game
// @Router /api/v1/games/{id}/suggested [get]
func (h *GameHandler) Suggested(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}

	games, err := h.catalog.SuggestedGames(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, games)
}

// Screenshots 游戏截图
// @Summary 游戏截图
// @Description 截图源不可用时返回空列表
// @Tags Games
// @Produce json
// @Param id path int true "游戏ID"
// @Success 200 {array} models.Screenshot
// @Router /api/v1/games/{id}/screenshots [get]
func (h *GameHandler) Screenshots(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}

	screenshots, err := h.catalog.Screenshots(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, screenshots)
}

// gameID 解析路径中的游戏ID
func (h *GameHandler) gameID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "无效的游戏ID")
		return 0, false
	}
	return id, true
}
