package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"iothome/internal/db"
	"iothome/internal/models"
	"iothome/internal/simulator"
)

// mockStore is an in-memory document store shared by the handler tests. It
// also backs the real simulator, so control requests flow end to end.
type mockStore struct {
	mu        sync.Mutex
	devices   map[string]models.Device
	schedules map[string]models.Schedule
	logs      []models.DeviceLog
}

func newMockStore() *mockStore {
	return &mockStore{
		devices:   make(map[string]models.Device),
		schedules: make(map[string]models.Schedule),
	}
}

func (m *mockStore) InsertDevice(_ context.Context, device models.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[device.ID] = device
	return nil
}

func (m *mockStore) GetDevice(_ context.Context, id string) (*models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	device, ok := m.devices[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := device
	return &cp, nil
}

func (m *mockStore) GetAllDevices(_ context.Context) ([]models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.Device, 0, len(m.devices))
	for _, d := range m.devices {
		all = append(all, d)
	}
	return all, nil
}

func (m *mockStore) UpdateDevice(_ context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	device, ok := m.devices[id]
	if !ok {
		return nil // matches the gateway: update-one on a missing doc is not an error
	}
	for key, value := range fields {
		switch key {
		case "name":
			device.Name = value.(string)
		case "room":
			device.Room = value.(string)
		case "gpio_pin":
			pin := value.(int)
			device.GPIOPin = &pin
		case "status":
			device.Status = models.DeviceStatus(value.(string))
		case "relay_state":
			device.RelayState = models.RelayState(value.(string))
		case "last_seen":
			device.LastSeen = value.(time.Time)
		case "uptime":
			device.Uptime = value.(int)
		case "total_runtime":
			device.TotalRuntime = value.(int)
		case "wifi_signal":
			signal := value.(int)
			device.WifiSignal = &signal
		}
	}
	m.devices[id] = device
	return nil
}

func (m *mockStore) DeleteDevice(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.devices[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.devices, id)
	return nil
}

func (m *mockStore) CountDevices(_ context.Context, filter map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, d := range m.devices {
		if status, ok := filter["status"]; ok && string(d.Status) != status {
			continue
		}
		count++
	}
	return count, nil
}

func (m *mockStore) InsertSchedule(_ context.Context, schedule models.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[schedule.ID] = schedule
	return nil
}

func (m *mockStore) GetSchedule(_ context.Context, id string) (*models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	schedule, ok := m.schedules[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := schedule
	return &cp, nil
}

func (m *mockStore) GetAllSchedules(_ context.Context) ([]models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.Schedule, 0, len(m.schedules))
	for _, s := range m.schedules {
		all = append(all, s)
	}
	return all, nil
}

func (m *mockStore) GetSchedulesByDevice(_ context.Context, deviceID string) ([]models.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matching []models.Schedule
	for _, s := range m.schedules {
		if s.DeviceID == deviceID {
			matching = append(matching, s)
		}
	}
	return matching, nil
}

func (m *mockStore) UpdateSchedule(_ context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	schedule, ok := m.schedules[id]
	if !ok {
		return nil
	}
	for key, value := range fields {
		switch key {
		case "device_id":
			schedule.DeviceID = value.(string)
		case "name":
			schedule.Name = value.(string)
		case "schedule_type":
			schedule.Type = models.ScheduleType(value.(string))
		case "target_state":
			schedule.TargetState = models.RelayState(value.(string))
		case "trigger_time":
			schedule.TriggerTime = value.(string)
		case "trigger_date":
			schedule.TriggerDate, _ = value.(*time.Time)
		case "days_of_week":
			schedule.DaysOfWeek, _ = value.([]int)
		}
	}
	m.schedules[id] = schedule
	return nil
}

func (m *mockStore) SetScheduleActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if schedule, ok := m.schedules[id]; ok {
		schedule.IsActive = active
		m.schedules[id] = schedule
	}
	return nil
}

func (m *mockStore) DeleteSchedule(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.schedules, id)
	return nil
}

func (m *mockStore) CountSchedules(_ context.Context, filter map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, s := range m.schedules {
		if active, ok := filter["is_active"]; ok && s.IsActive != active {
			continue
		}
		count++
	}
	return count, nil
}

func (m *mockStore) InsertLog(_ context.Context, entry models.DeviceLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, entry)
	return nil
}

func (m *mockStore) GetLogs(_ context.Context, deviceID string, limit int64) ([]models.DeviceLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matching []models.DeviceLog
	for _, entry := range m.logs {
		if deviceID != "" && entry.DeviceID != deviceID {
			continue
		}
		matching = append(matching, entry)
	}
	sort.Slice(matching, func(i, j int) bool {
		return matching[i].Timestamp.After(matching[j].Timestamp)
	})
	if int64(len(matching)) > limit {
		matching = matching[:limit]
	}
	return matching, nil
}

type noopBroadcaster struct{}

func (noopBroadcaster) Publish([]byte) {}

// newTestRouter builds a router over the mock store and a real simulator
func newTestRouter(store *mockStore) (*gin.Engine, *simulator.Simulator) {
	gin.SetMode(gin.TestMode)
	sim := simulator.New(store, noopBroadcaster{}, nil)

	r := gin.New()
	apiGroup := r.Group("/api")
	RegisterDeviceRoutes(apiGroup, store, sim)
	RegisterScheduleRoutes(apiGroup, store)
	RegisterLogRoutes(apiGroup, store)
	RegisterStatsRoutes(apiGroup, store)
	return r, sim
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
