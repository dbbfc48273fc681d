package api

import (
	"math"

	"github.com/gin-gonic/gin"
)

func RegisterStatsRoutes(r *gin.RouterGroup, store Store) {
	r.GET("/stats", func(c *gin.Context) {
		totalDevices, err := store.CountDevices(c, map[string]any{})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch stats"})
			return
		}
		onlineDevices, err := store.CountDevices(c, map[string]any{"status": "online"})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch stats"})
			return
		}
		totalSchedules, err := store.CountSchedules(c, map[string]any{})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch stats"})
			return
		}
		activeSchedules, err := store.CountSchedules(c, map[string]any{"is_active": true})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch stats"})
			return
		}

		devices, err := store.GetAllDevices(c)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch stats"})
			return
		}
		totalRuntime := 0
		for _, d := range devices {
			totalRuntime += d.TotalRuntime
		}

		c.JSON(200, gin.H{
			"total_devices":       totalDevices,
			"online_devices":      onlineDevices,
			"offline_devices":     totalDevices - onlineDevices,
			"total_schedules":     totalSchedules,
			"active_schedules":    activeSchedules,
			"total_runtime_hours": math.Round(float64(totalRuntime)/3600*100) / 100,
			"system_uptime":       "24/7",
		})
	})
}
