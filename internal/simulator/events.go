package simulator

import (
	"time"

	"iothome/internal/models"
)

// Wire frames pushed to WebSocket subscribers (and the MQTT mirror).

type deviceUpdateEvent struct {
	Type     string           `json:"type"`
	DeviceID string           `json:"device_id"`
	Data     deviceUpdateData `json:"data"`
}

type deviceUpdateData struct {
	RelayState models.RelayState `json:"relay_state"`
	LastSeen   time.Time         `json:"last_seen"`
}

type statusUpdateEvent struct {
	Type    string              `json:"type"`
	Devices []deviceStatusEntry `json:"devices"`
}

type deviceStatusEntry struct {
	ID         string              `json:"id"`
	Status     models.DeviceStatus `json:"status"`
	RelayState models.RelayState   `json:"relay_state"`
	Uptime     int                 `json:"uptime"`
	WifiSignal int                 `json:"wifi_signal"`
	LastSeen   time.Time           `json:"last_seen"`
}
