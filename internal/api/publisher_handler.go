package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-catalog/internal/service"
)

// PublisherHandler 发行商处理器
type PublisherHandler struct {
	catalog service.CatalogService
}

// NewPublisherHandler 创建发行商处理器
func NewPublisherHandler(catalog service.CatalogService) *PublisherHandler {
	return &PublisherHandler{catalog: catalog}
}

// List 发行商列表
// @Summary 发行商列表
// @Tags Publishers
// @Produce json
// @Param page query int false "页码，默认1"
// @Param search query string false "搜索词"
// @Success 200 {object} models.PublisherPage
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/publishers [get]
func (h *PublisherHandler) List(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 1 {
			page = parsed
		}
	}

	publishers, err := h.catalog.Publishers(c.Request.Context(), page, c.Query("search"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, publishers)
}

// Detail 发行商详情
// @Summary 发行商详情
// @Tags Publishers
// @Produce json
// @Param slug path string true "发行商slug或ID"
// @Success 200 {object} models.Publisher
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/publishers/{slug} [get]
func (h *PublisherHandler) Detail(c *gin.Context) {
	publisher, err := h.catalog.PublisherDetails(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, publisher)
}

// Games 发行商名下的游戏
// @Summary 发行商游戏列表
// @Description 分页规则与主列表一致
// @Tags Publishers
// @Produce json
// @Param slug path string true "发行商slug或ID"
// @Param page query int false "页码，默认1"
// @Success 200 {object} service.GameListing
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/publishers/{slug}/games [get]
func (h *PublisherHandler) Games(c *gin.Context) {
	// 远端游戏列表按发行商ID过滤，先把slug解析成ID
	publisher, err := h.catalog.PublisherDetails(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 1 {
			page = parsed
		}
	}

	listing, err := h.catalog.PublisherGames(c.Request.Context(), strconv.Itoa(publisher.ID), page)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}
