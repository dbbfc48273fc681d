package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"iothome/internal/db"
	"iothome/internal/models"
	webModels "iothome/internal/web/models"
)

func RegisterScheduleRoutes(r *gin.RouterGroup, store Store) {
	schedules := r.Group("/schedules")
	{
		schedules.POST("", func(c *gin.Context) {
			var req webModels.CreateScheduleRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}

			// Target device must exist at creation time
			if _, err := store.GetDevice(c, req.DeviceID); err != nil {
				if errors.Is(err, db.ErrNotFound) {
					c.JSON(404, gin.H{"error": "Device not found"})
					return
				}
				c.JSON(500, gin.H{"error": "Failed to fetch device"})
				return
			}

			schedule := models.Schedule{
				ID:          uuid.NewString(),
				DeviceID:    req.DeviceID,
				Name:        req.Name,
				Type:        req.ScheduleType,
				TargetState: req.TargetState,
				TriggerTime: req.TriggerTime,
				TriggerDate: req.TriggerDate,
				DaysOfWeek:  req.DaysOfWeek,
				IsActive:    true,
				CreatedAt:   time.Now().UTC(),
			}
			if err := store.InsertSchedule(c, schedule); err != nil {
				c.JSON(500, gin.H{"error": "Failed to create schedule"})
				return
			}

			c.JSON(200, schedule)
		})

		schedules.GET("", func(c *gin.Context) {
			all, err := store.GetAllSchedules(c)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch schedules"})
				return
			}
			if all == nil {
				all = []models.Schedule{}
			}
			c.JSON(200, all)
		})

		schedules.GET("/device/:id", func(c *gin.Context) {
			list, err := store.GetSchedulesByDevice(c, c.Param("id"))
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch schedules"})
				return
			}
			if list == nil {
				list = []models.Schedule{}
			}
			c.JSON(200, list)
		})

		schedules.PUT("/:id", func(c *gin.Context) {
			var req webModels.CreateScheduleRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}

			id := c.Param("id")
			if _, err := store.GetSchedule(c, id); err != nil {
				if errors.Is(err, db.ErrNotFound) {
					c.JSON(404, gin.H{"error": "Schedule not found"})
					return
				}
				c.JSON(500, gin.H{"error": "Failed to fetch schedule"})
				return
			}

			fields := map[string]any{
				"device_id":     req.DeviceID,
				"name":          req.Name,
				"schedule_type": string(req.ScheduleType),
				"target_state":  string(req.TargetState),
				"trigger_time":  req.TriggerTime,
				"trigger_date":  req.TriggerDate,
				"days_of_week":  req.DaysOfWeek,
			}
			if err := store.UpdateSchedule(c, id, fields); err != nil {
				c.JSON(500, gin.H{"error": "Failed to update schedule"})
				return
			}

			updated, err := store.GetSchedule(c, id)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch schedule"})
				return
			}
			c.JSON(200, updated)
		})

		schedules.PUT("/:id/toggle", func(c *gin.Context) {
			schedule, err := store.GetSchedule(c, c.Param("id"))
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Schedule not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch schedule"})
				return
			}

			newStatus := !schedule.IsActive
			if err := store.SetScheduleActive(c, schedule.ID, newStatus); err != nil {
				c.JSON(500, gin.H{"error": "Failed to toggle schedule"})
				return
			}

			if newStatus {
				c.JSON(200, gin.H{"message": "Schedule activated"})
			} else {
				c.JSON(200, gin.H{"message": "Schedule deactivated"})
			}
		})

		schedules.DELETE("/:id", func(c *gin.Context) {
			err := store.DeleteSchedule(c, c.Param("id"))
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Schedule not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to delete schedule"})
				return
			}
			c.JSON(200, gin.H{"message": "Schedule deleted successfully"})
		})
	}
}
