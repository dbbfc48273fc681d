package web

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"iothome/internal/cache"
	"iothome/internal/db"
	"iothome/internal/hub"
	"iothome/internal/simulator"
	"iothome/internal/web/api"
)

type WebServer struct {
	router *gin.Engine
}

func NewWebServer(store *db.DB, sim *simulator.Simulator, h *hub.Hub, snapshots *cache.Cache, corsOrigins []string) *WebServer {
	router := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsCfg))

	apiGroup := router.Group("/api")
	apiGroup.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "IoT Home Automation System API", "version": "1.0.0"})
	})

	api.RegisterDeviceRoutes(apiGroup, store, sim)
	api.RegisterScheduleRoutes(apiGroup, store)
	api.RegisterLogRoutes(apiGroup, store)
	api.RegisterStatsRoutes(apiGroup, store)
	api.RegisterStatusRoutes(apiGroup, snapshots)
	api.RegisterWSRoutes(router, h)

	return &WebServer{router: router}
}

func (ws *WebServer) Start(addr string) {
	ws.router.Run(addr)
}
