package api

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"iothome/internal/models"
)

func TestCreateDevice(t *testing.T) {
	store := newMockStore()
	r, sim := newTestRouter(store)

	w := doJSON(r, "POST", "/api/devices", map[string]any{
		"name": "Living Room Lamp",
		"room": "Living Room",
	})
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var device models.Device
	if err := json.Unmarshal(w.Body.Bytes(), &device); err != nil {
		t.Fatalf("response body: %v", err)
	}
	if device.ID == "" {
		t.Error("device id not assigned")
	}
	if device.Type != models.DeviceTypeRelay {
		t.Errorf("device type = %s, want relay (default)", device.Type)
	}
	if device.Status != models.StatusOnline {
		t.Errorf("status = %s, want online", device.Status)
	}
	if device.RelayState != models.RelayOff {
		t.Errorf("relay state = %s, want off", device.RelayState)
	}
	if !strings.HasPrefix(device.IPAddress, "192.168.1.") {
		t.Errorf("ip address = %s, want 192.168.1.x", device.IPAddress)
	}
	if device.GPIOPin == nil || *device.GPIOPin != 18 {
		t.Errorf("gpio pin = %v, want 18 (default)", device.GPIOPin)
	}

	if _, err := store.GetDevice(context.Background(), device.ID); err != nil {
		t.Errorf("device not persisted: %v", err)
	}
	if sim.Count() != 1 {
		t.Errorf("simulator devices = %d, want 1", sim.Count())
	}
}

func TestCreateDeviceValidation(t *testing.T) {
	store := newMockStore()
	r, _ := newTestRouter(store)

	w := doJSON(r, "POST", "/api/devices", map[string]any{"room": "Kitchen"})
	if w.Code != 400 {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetDeviceNotFound(t *testing.T) {
	store := newMockStore()
	r, _ := newTestRouter(store)

	w := doJSON(r, "GET", "/api/devices/ghost", nil)
	if w.Code != 404 {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateDevice(t *testing.T) {
	store := newMockStore()
	r, _ := newTestRouter(store)

	w := doJSON(r, "POST", "/api/devices", map[string]any{"name": "Fan", "room": "Bedroom"})
	var device models.Device
	json.Unmarshal(w.Body.Bytes(), &device)

	w = doJSON(r, "PUT", "/api/devices/"+device.ID, map[string]any{"room": "Office"})
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	updated, err := store.GetDevice(context.Background(), device.ID)
	if err != nil {
		t.Fatalf("device lookup: %v", err)
	}
	if updated.Room != "Office" {
		t.Errorf("room = %s, want Office", updated.Room)
	}
	if updated.Name != "Fan" {
		t.Errorf("name = %s, want Fan (unchanged)", updated.Name)
	}
}

// Full lifecycle: create, switch on, observe state and log, delete.
func TestDeviceLifecycle(t *testing.T) {
	store := newMockStore()
	r, sim := newTestRouter(store)

	w := doJSON(r, "POST", "/api/devices", map[string]any{"name": "Heater", "room": "Bathroom"})
	if w.Code != 200 {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	var device models.Device
	json.Unmarshal(w.Body.Bytes(), &device)

	w = doJSON(r, "POST", "/api/devices/control", map[string]any{
		"device_id": device.ID,
		"state":     "on",
	})
	if w.Code != 200 {
		t.Fatalf("control status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, "GET", "/api/devices/"+device.ID, nil)
	if w.Code != 200 {
		t.Fatalf("get status = %d", w.Code)
	}
	var fetched models.Device
	json.Unmarshal(w.Body.Bytes(), &fetched)
	if fetched.RelayState != models.RelayOn {
		t.Errorf("relay state = %s, want on", fetched.RelayState)
	}

	w = doJSON(r, "GET", "/api/logs?device_id="+device.ID, nil)
	if w.Code != 200 {
		t.Fatalf("logs status = %d", w.Code)
	}
	var logs []models.DeviceLog
	json.Unmarshal(w.Body.Bytes(), &logs)
	if len(logs) != 1 {
		t.Fatalf("log entries = %d, want 1", len(logs))
	}
	if logs[0].NewState != "on" || logs[0].Action != "relay_control" {
		t.Errorf("log = %s/%s, want relay_control/on", logs[0].Action, logs[0].NewState)
	}

	w = doJSON(r, "DELETE", "/api/devices/"+device.ID, nil)
	if w.Code != 200 {
		t.Fatalf("delete status = %d", w.Code)
	}
	if sim.Count() != 0 {
		t.Errorf("simulator devices after delete = %d, want 0", sim.Count())
	}

	w = doJSON(r, "GET", "/api/devices/"+device.ID, nil)
	if w.Code != 404 {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestControlUnknownDevice(t *testing.T) {
	store := newMockStore()
	r, _ := newTestRouter(store)

	w := doJSON(r, "POST", "/api/devices/control", map[string]any{
		"device_id": "ghost",
		"state":     "on",
	})
	if w.Code != 404 {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if len(store.logs) != 0 {
		t.Errorf("log entries = %d, want 0", len(store.logs))
	}
}

func TestControlInvalidState(t *testing.T) {
	store := newMockStore()
	r, _ := newTestRouter(store)

	w := doJSON(r, "POST", "/api/devices/control", map[string]any{
		"device_id": "dev-1",
		"state":     "blinking",
	})
	if w.Code != 400 {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteDeviceNotFound(t *testing.T) {
	store := newMockStore()
	r, _ := newTestRouter(store)

	w := doJSON(r, "DELETE", "/api/devices/ghost", nil)
	if w.Code != 404 {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
