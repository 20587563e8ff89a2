package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-catalog/internal/service"
)

// MetaHandler 类型与标签处理器
type MetaHandler struct {
	catalog service.CatalogService
}

// NewMetaHandler 创建类型与标签处理器
func NewMetaHandler(catalog service.CatalogService) *MetaHandler {
	return &MetaHandler{catalog: catalog}
}

// Genres 全部类型
// @Summary 游戏类型列表
// @Tags Meta
// @Produce json
// @Success 200 {array} models.Genre
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/genres [get]
func (h *MetaHandler) Genres(c *gin.Context) {
	genres, err := h.catalog.Genres(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, genres)
}

// Tags 标签列表
// @Summary 游戏标签列表
// @Tags Meta
// @Produce json
// @Success 200 {array} models.Tag
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/tags [get]
func (h *MetaHandler) Tags(c *gin.Context) {
	tags, err := h.catalog.Tags(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}
