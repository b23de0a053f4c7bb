package server

import (
	"net/http"
	"time"

	httpHandler "channel-portfolio/interfaces/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitiateRouter(catalogHandler httpHandler.ICatalogHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("api")
	api.GET("/catalog", catalogHandler.GetCatalog)
	api.GET("/catalog/snapshot", catalogHandler.GetSnapshot)
	api.POST("/catalog/refresh", catalogHandler.Refresh)

	return router
}
