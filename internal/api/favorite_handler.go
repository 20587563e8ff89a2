package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-catalog/internal/middleware"
	"github.com/wfunc/game-catalog/internal/service"
)

// FavoriteHandler 收藏处理器
// 所有接口都要求设备会话，收藏按设备隔离
type FavoriteHandler struct {
	favorite service.FavoriteService
	catalog  service.CatalogService
}

// NewFavoriteHandler 创建收藏处理器
func NewFavoriteHandler(favorite service.FavoriteService, catalog service.CatalogService) *FavoriteHandler {
	return &FavoriteHandler{
		favorite: favorite,
		catalog:  catalog,
	}
}

// FavoriteStatusResponse 收藏状态响应
type FavoriteStatusResponse struct {
	GameID   int  `json:"game_id"`
	Favorite bool `json:"favorite"`
}

// List 设备的全部收藏
// @Summary 收藏列表
// @Description 按收藏先后顺序返回收藏时刻的游戏快照
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.FavoriteGame
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	deviceID, ok := h.deviceID(c)
	if !ok {
		return
	}

	favorites, err := h.favorite.List(c.Request.Context(), deviceID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, favorites)
}

// Status 单个游戏的收藏状态
// @Summary 收藏状态
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "游戏ID"
// @Success 200 {object} FavoriteStatusResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/favorites/{id} [get]
func (h *FavoriteHandler) Status(c *gin.Context) {
	deviceID, ok := h.deviceID(c)
	if !ok {
		return
	}
	gameID, ok := h.gameID(c)
	if !ok {
		return
	}

	favorite, err := h.favorite.IsFavorite(c.Request.Context(), deviceID, gameID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, FavoriteStatusResponse{GameID: gameID, Favorite: favorite})
}

// Add 收藏游戏
// @Summary 收藏游戏
// @Description 幂等：重复收藏直接返回成功；快照数据取自远端详情
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "游戏ID"
// @Success 200 {object} FavoriteStatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/favorites/{id} [put]
func (h *FavoriteHandler) Add(c *gin.Context) {
	deviceID, ok := h.deviceID(c)
	if !ok {
		return
	}
	gameID, ok := h.gameID(c)
	if !ok {
		return
	}

	game, err := h.catalog.GameDetails(c.Request.Context(), gameID)
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.favorite.Add(c.Request.Context(), deviceID, game); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, FavoriteStatusResponse{GameID: gameID, Favorite: true})
}

// Remove 取消收藏
// @Summary 取消收藏
// @Description 幂等：未收藏时同样返回成功
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "游戏ID"
// @Success 200 {object} FavoriteStatusResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/favorites/{id} [delete]
func (h *FavoriteHandler) Remove(c *gin.Context) {
	deviceID, ok := h.deviceID(c)
	if !ok {
		return
	}
	gameID, ok := h.gameID(c)
	if !ok {
		return
	}

	if err := h.favorite.Remove(c.Request.Context(), deviceID, gameID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, FavoriteStatusResponse{GameID: gameID, Favorite: false})
}

// Toggle 切换收藏状态
// @Summary 切换收藏状态
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param id path int true "游戏ID"
// @Success 200 {object} FavoriteStatusResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/favorites/{id}/toggle [post]
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	deviceID, ok := h.deviceID(c)
	if !ok {
		return
	}
	gameID, ok := h.gameID(c)
	if !ok {
		return
	}

	game, err := h.catalog.GameDetails(c.Request.Context(), gameID)
	if err != nil {
		handleError(c, err)
		return
	}

	favorite, err := h.favorite.Toggle(c.Request.Context(), deviceID, game)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, FavoriteStatusResponse{GameID: gameID, Favorite: favorite})
}

// deviceID 从上下文取出设备ID
func (h *FavoriteHandler) deviceID(c *gin.Context) (string, bool) {
	deviceID, ok := middleware.GetDeviceID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "NO_TOKEN",
			Message: "缺少设备令牌",
		})
		return "", false
	}
	return deviceID, true
}

// gameID 解析路径中的游戏ID
func (h *FavoriteHandler) gameID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "无效的游戏ID")
		return 0, false
	}
	return id, true
}
