package api

import (
	"context"

	"iothome/internal/models"
)

// Store defines the persistence methods the handlers need
type Store interface {
	InsertDevice(ctx context.Context, device models.Device) error
	GetDevice(ctx context.Context, id string) (*models.Device, error)
	GetAllDevices(ctx context.Context) ([]models.Device, error)
	UpdateDevice(ctx context.Context, id string, fields map[string]any) error
	DeleteDevice(ctx context.Context, id string) error
	CountDevices(ctx context.Context, filter map[string]any) (int64, error)
	InsertSchedule(ctx context.Context, schedule models.Schedule) error
	GetSchedule(ctx context.Context, id string) (*models.Schedule, error)
	GetAllSchedules(ctx context.Context) ([]models.Schedule, error)
	GetSchedulesByDevice(ctx context.Context, deviceID string) ([]models.Schedule, error)
	UpdateSchedule(ctx context.Context, id string, fields map[string]any) error
	SetScheduleActive(ctx context.Context, id string, active bool) error
	DeleteSchedule(ctx context.Context, id string) error
	CountSchedules(ctx context.Context, filter map[string]any) (int64, error)
	GetLogs(ctx context.Context, deviceID string, limit int64) ([]models.DeviceLog, error)
}

// Simulator defines the registry methods the handlers need
type Simulator interface {
	Add(device models.Device)
	Remove(deviceID string)
	SetRelay(ctx context.Context, deviceID string, state models.RelayState) bool
}

// Snapshots serves the latest cached status snapshot
type Snapshots interface {
	Snapshot(ctx context.Context) ([]byte, error)
}
