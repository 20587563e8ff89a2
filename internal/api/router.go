package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/game-catalog/internal/middleware"
	"github.com/wfunc/game-catalog/internal/service"
	ws "github.com/wfunc/game-catalog/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine   *gin.Engine
	db       *gorm.DB
	services *service.Services
	hub      *ws.Hub

	gameHandler      *GameHandler
	publisherHandler *PublisherHandler
	metaHandler      *MetaHandler
	favoriteHandler  *FavoriteHandler
	sessionHandler   *SessionHandler
	wsHandler        *WebSocketHandler

	sessionMiddleware *middleware.SessionMiddleware
	log               *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(db *gorm.DB, client service.CatalogClient, config *service.Config, log *zap.Logger) *Router {
	// 创建Gin引擎
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	// 创建服务
	services := service.NewServices(db, client, config, log)

	// 创建推送中心并把收藏变化接到推送上
	hub := ws.NewHub(log)
	go hub.Run()
	services.Favorite.Subscribe(func(event service.FavoriteEvent) {
		hub.NotifyFavoritesUpdated(event.DeviceID, event.GameID, event.Favorite)
	})

	// 创建中间件与处理器
	sessionMiddleware := middleware.NewSessionMiddleware(services.Token)

	router := &Router{
		engine:            engine,
		db:                db,
		services:          services,
		hub:               hub,
		gameHandler:       NewGameHandler(services.Catalog),
		publisherHandler:  NewPublisherHandler(services.Catalog),
		metaHandler:       NewMetaHandler(services.Catalog),
		favoriteHandler:   NewFavoriteHandler(services.Favorite, services.Catalog),
		sessionHandler:    NewSessionHandler(services.Token),
		wsHandler:         NewWebSocketHandler(hub, log),
		sessionMiddleware: sessionMiddleware,
		log:               log,
	}

	// 设置路由
	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 设备会话（不需要令牌）
		v1.POST("/session", r.sessionHandler.Create)

		// 游戏目录（公开）
		games := v1.Group("/games")
		{
			games.GET("", r.gameHandler.List)
			games.GET("/trending", r.gameHandler.Trending)
			games.GET("/:id", r.gameHandler.Detail)
			games.GET("/:id/suggested", r.gameHandler.Suggested)
			games.GET("/:id/screenshots", r.gameHandler.Screenshots)
		}

		// 类型与标签（公开）
		v1.GET("/genres", r.metaHandler.Genres)
		v1.GET("/tags", r.metaHandler.Tags)

		// 发行商（公开）
		publishers := v1.Group("/publishers")
		{
			publishers.GET("", r.publisherHandler.List)
			publishers.GET("/:slug", r.publisherHandler.Detail)
			publishers.GET("/:slug/games", r.publisherHandler.Games)
		}

		// 收藏（需要设备令牌）
		favorites := v1.Group("/favorites")
		favorites.Use(r.sessionMiddleware.RequireDevice())
		{
			favorites.GET("", r.favoriteHandler.List)
			favorites.GET("/:id", r.favoriteHandler.Status)
			favorites.PUT("/:id", r.favoriteHandler.Add)
			favorites.DELETE("/:id", r.favoriteHandler.Remove)
			favorites.POST("/:id/toggle", r.favoriteHandler.Toggle)
		}
	}

	// WebSocket路由（需要设备令牌，从Query参数传）
	r.engine.GET("/ws", r.sessionMiddleware.RequireDevice(), r.wsHandler.Serve)

	// 文档路由
	registerSwaggerRoutes(r.engine)
	registerOpenAPIRoutes(r.engine)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	// 检查数据库连接
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// requestLogger 请求日志中间件
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Debug("HTTP请求",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetHub 获取推送中心
func (r *Router) GetHub() *ws.Hub {
	return r.hub
}
