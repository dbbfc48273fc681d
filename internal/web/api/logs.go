package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"iothome/internal/models"
)

func RegisterLogRoutes(r *gin.RouterGroup, store Store) {
	r.GET("/logs", func(c *gin.Context) {
		limit, err := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
		if err != nil || limit < 1 {
			c.JSON(400, gin.H{"error": "Invalid limit"})
			return
		}

		logs, err := store.GetLogs(c, c.Query("device_id"), limit)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch logs"})
			return
		}
		if logs == nil {
			logs = []models.DeviceLog{}
		}
		c.JSON(200, logs)
	})
}
