package models

import "time"

// DeviceType classifies a device
type DeviceType string

const (
	DeviceTypeRelay  DeviceType = "relay"
	DeviceTypeSwitch DeviceType = "switch"
	DeviceTypeSensor DeviceType = "sensor"
)

// DeviceStatus is the connectivity state of a device
type DeviceStatus string

const (
	StatusOnline  DeviceStatus = "online"
	StatusOffline DeviceStatus = "offline"
	StatusError   DeviceStatus = "error"
)

// RelayState is the logical on/off output of a device
type RelayState string

const (
	RelayOn  RelayState = "on"
	RelayOff RelayState = "off"
)

// ScheduleType determines how often a schedule fires
type ScheduleType string

const (
	ScheduleOnce   ScheduleType = "once"
	ScheduleDaily  ScheduleType = "daily"
	ScheduleWeekly ScheduleType = "weekly"
)

// Device represents a simulated IoT device. Tags match the stored documents,
// so don't rename fields without migrating the devices collection.
type Device struct {
	ID           string       `json:"id" bson:"id"`
	Name         string       `json:"name" bson:"name"`
	Type         DeviceType   `json:"device_type" bson:"device_type"`
	Room         string       `json:"room" bson:"room"`
	GPIOPin      *int         `json:"gpio_pin,omitempty" bson:"gpio_pin,omitempty"`
	Status       DeviceStatus `json:"status" bson:"status"`
	RelayState   RelayState   `json:"relay_state" bson:"relay_state"`
	LastSeen     time.Time    `json:"last_seen" bson:"last_seen"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	IPAddress    string       `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	WifiSignal   *int         `json:"wifi_signal,omitempty" bson:"wifi_signal,omitempty"`
	Uptime       int          `json:"uptime" bson:"uptime"`               // seconds
	TotalRuntime int          `json:"total_runtime" bson:"total_runtime"` // on-time, seconds
}

// Schedule represents a timed on/off action for a device
type Schedule struct {
	ID          string       `json:"id" bson:"id"`
	DeviceID    string       `json:"device_id" bson:"device_id"`
	Name        string       `json:"name" bson:"name"`
	Type        ScheduleType `json:"schedule_type" bson:"schedule_type"`
	TargetState RelayState   `json:"target_state" bson:"target_state"`
	TriggerTime string       `json:"trigger_time" bson:"trigger_time"` // HH:MM, 24h
	TriggerDate *time.Time   `json:"trigger_date,omitempty" bson:"trigger_date,omitempty"`
	DaysOfWeek  []int        `json:"days_of_week,omitempty" bson:"days_of_week,omitempty"` // 0=Monday .. 6=Sunday
	IsActive    bool         `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
}

// DeviceLog is one append-only action record
type DeviceLog struct {
	ID          string    `json:"id" bson:"id"`
	DeviceID    string    `json:"device_id" bson:"device_id"`
	Action      string    `json:"action" bson:"action"`
	OldState    string    `json:"old_state,omitempty" bson:"old_state,omitempty"`
	NewState    string    `json:"new_state,omitempty" bson:"new_state,omitempty"`
	TriggeredBy string    `json:"triggered_by" bson:"triggered_by"` // manual, api, schedule:<name>
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}
