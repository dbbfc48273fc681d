package api

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"iothome/internal/db"
	"iothome/internal/models"
	webModels "iothome/internal/web/models"
)

func RegisterDeviceRoutes(r *gin.RouterGroup, store Store, sim Simulator) {
	devices := r.Group("/devices")
	{
		devices.POST("", func(c *gin.Context) {
			var req webModels.CreateDeviceRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}

			deviceType := req.DeviceType
			if deviceType == "" {
				deviceType = models.DeviceTypeRelay
			}
			gpioPin := req.GPIOPin
			if gpioPin == nil {
				pin := 18
				gpioPin = &pin
			}

			now := time.Now().UTC()
			device := models.Device{
				ID:         uuid.NewString(),
				Name:       req.Name,
				Type:       deviceType,
				Room:       req.Room,
				GPIOPin:    gpioPin,
				Status:     models.StatusOnline,
				RelayState: models.RelayOff,
				LastSeen:   now,
				CreatedAt:  now,
				IPAddress:  fmt.Sprintf("192.168.1.%d", 100+rand.Intn(101)),
			}

			if err := store.InsertDevice(c, device); err != nil {
				c.JSON(500, gin.H{"error": "Failed to create device"})
				return
			}
			sim.Add(device)

			c.JSON(200, device)
		})

		devices.GET("", func(c *gin.Context) {
			all, err := store.GetAllDevices(c)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch devices"})
				return
			}
			if all == nil {
				all = []models.Device{}
			}
			c.JSON(200, all)
		})

		devices.GET("/:id", func(c *gin.Context) {
			device, err := store.GetDevice(c, c.Param("id"))
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Device not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch device"})
				return
			}
			c.JSON(200, device)
		})

		devices.PUT("/:id", func(c *gin.Context) {
			var req webModels.UpdateDeviceRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}

			device, err := store.GetDevice(c, c.Param("id"))
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Device not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch device"})
				return
			}

			fields := map[string]any{}
			if req.Name != nil {
				fields["name"] = *req.Name
				device.Name = *req.Name
			}
			if req.Room != nil {
				fields["room"] = *req.Room
				device.Room = *req.Room
			}
			if req.GPIOPin != nil {
				fields["gpio_pin"] = *req.GPIOPin
				device.GPIOPin = req.GPIOPin
			}
			if len(fields) > 0 {
				if err := store.UpdateDevice(c, device.ID, fields); err != nil {
					c.JSON(500, gin.H{"error": "Failed to update device"})
					return
				}
			}

			c.JSON(200, device)
		})

		devices.DELETE("/:id", func(c *gin.Context) {
			id := c.Param("id")
			err := store.DeleteDevice(c, id)
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(404, gin.H{"error": "Device not found"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to delete device"})
				return
			}
			sim.Remove(id)

			c.JSON(200, gin.H{"message": "Device deleted successfully"})
		})

		devices.POST("/control", func(c *gin.Context) {
			var req webModels.RelayControlRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(400, gin.H{"error": "Invalid request"})
				return
			}
			if req.State != models.RelayOn && req.State != models.RelayOff {
				c.JSON(400, gin.H{"error": "Invalid relay state"})
				return
			}

			if !sim.SetRelay(c, req.DeviceID, req.State) {
				c.JSON(404, gin.H{"error": "Device not found or offline"})
				return
			}

			c.JSON(200, gin.H{"message": fmt.Sprintf("Device %s set to %s", req.DeviceID, req.State)})
		})
	}
}
