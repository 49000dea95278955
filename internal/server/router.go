package server

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册路由
func SetupRoutes(handler *AnalysisHandler) *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Recovery())
	router.Use(CORS())
	router.Use(ErrorHandler())

	// 健康检查
	router.GET("/health", handler.Health)

	// API v1
	v1 := router.Group("/api/v1")
	{
		analyses := v1.Group("/analyses")
		{
			analyses.POST("", handler.Create)
			analyses.POST("/preview", handler.Preview)
			analyses.GET("/:id", handler.Get)
		}
	}

	return router
}
