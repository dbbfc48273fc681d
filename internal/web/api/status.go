package api

import (
	"github.com/gin-gonic/gin"
)

func RegisterStatusRoutes(r *gin.RouterGroup, snapshots Snapshots) {
	r.GET("/status", func(c *gin.Context) {
		data, err := snapshots.Snapshot(c)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch status"})
			return
		}
		if data == nil {
			// No tick has run yet
			c.JSON(200, gin.H{"type": "status_update", "devices": []any{}})
			return
		}
		c.Data(200, "application/json", data)
	})
}
