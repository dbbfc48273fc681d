package models

import (
	"time"

	"iothome/internal/models"
)

type CreateDeviceRequest struct {
	Name       string            `json:"name" binding:"required"`
	DeviceType models.DeviceType `json:"device_type"`
	Room       string            `json:"room" binding:"required"`
	GPIOPin    *int              `json:"gpio_pin"`
}

type UpdateDeviceRequest struct {
	Name    *string `json:"name"`
	Room    *string `json:"room"`
	GPIOPin *int    `json:"gpio_pin"`
}

type RelayControlRequest struct {
	DeviceID string            `json:"device_id" binding:"required"`
	State    models.RelayState `json:"state" binding:"required"`
}

type CreateScheduleRequest struct {
	DeviceID     string              `json:"device_id" binding:"required"`
	Name         string              `json:"name" binding:"required"`
	ScheduleType models.ScheduleType `json:"schedule_type" binding:"required"`
	TargetState  models.RelayState   `json:"target_state" binding:"required"`
	TriggerTime  string              `json:"trigger_time" binding:"required"`
	TriggerDate  *time.Time          `json:"trigger_date"`
	DaysOfWeek   []int               `json:"days_of_week"`
}
