package simulator

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"iothome/internal/models"
)

// Store is the persistence surface the simulator writes through
type Store interface {
	UpdateDevice(ctx context.Context, id string, fields map[string]any) error
	InsertLog(ctx context.Context, entry models.DeviceLog) error
}

// Broadcaster pushes event frames to live subscribers
type Broadcaster interface {
	Publish(message []byte)
}

// SnapshotCache keeps the latest status snapshot for the status endpoint
type SnapshotCache interface {
	SetSnapshot(ctx context.Context, snapshot []byte) error
}

// simDevice is one registered device plus its simulation state. The entry
// mutex serializes tick and relay-control writes for this device only, so
// operations on unrelated devices never block each other.
type simDevice struct {
	mu              sync.Mutex
	device          models.Device
	lastStateChange time.Time
	wifiSignal      int
	responseTime    time.Duration
}

// Simulator owns the authoritative in-memory view of every known device and
// runs the periodic tick that ages, perturbs and persists them.
type Simulator struct {
	store    Store
	hub      Broadcaster
	cache    SnapshotCache
	interval time.Duration
	sleep    func(time.Duration) // relay-control delay, overridable in tests

	mu      sync.RWMutex
	devices map[string]*simDevice

	runMu   sync.Mutex
	running bool
	stop    chan struct{}
}

// New creates a simulator with the default 5s tick interval
func New(store Store, hub Broadcaster, cache SnapshotCache) *Simulator {
	return &Simulator{
		store:    store,
		hub:      hub,
		cache:    cache,
		interval: 5 * time.Second,
		sleep:    time.Sleep,
		devices:  make(map[string]*simDevice),
	}
}

// Start spawns the tick loop; no-op if already running
func (s *Simulator) Start() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	go s.run()
	log.Println("SIMULATOR: Started")
}

// Stop requests the loop to exit at the next iteration boundary
func (s *Simulator) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
}

func (s *Simulator) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			log.Println("SIMULATOR: Stopped")
			return
		case <-ticker.C:
			s.tick(time.Now().UTC())
		}
	}
}

// Add registers a device, seeding its simulated signal and latency
func (s *Simulator) Add(device models.Device) {
	entry := &simDevice{
		device:          device,
		lastStateChange: time.Now().UTC(),
		wifiSignal:      50 + rand.Intn(51),                                 // 50..100
		responseTime:    time.Duration(100+rand.Intn(401)) * time.Millisecond, // 0.1..0.5s
	}
	s.mu.Lock()
	s.devices[device.ID] = entry
	s.mu.Unlock()
}

// Remove unregisters a device; no-op if unknown
func (s *Simulator) Remove(deviceID string) {
	s.mu.Lock()
	delete(s.devices, deviceID)
	s.mu.Unlock()
}

// Count returns the number of registered devices
func (s *Simulator) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}

// SetRelay switches a device's relay after a simulated network delay,
// persists the change, logs it and broadcasts a device_update frame.
// Returns false for unknown devices.
func (s *Simulator) SetRelay(ctx context.Context, deviceID string, state models.RelayState) bool {
	s.mu.RLock()
	entry, ok := s.devices[deviceID]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	// Simulated network delay, outside any lock so concurrent calls on
	// other devices proceed independently
	s.sleep(time.Duration(100+rand.Intn(201)) * time.Millisecond)

	now := time.Now().UTC()
	entry.mu.Lock()
	oldState := entry.device.RelayState
	entry.device.RelayState = state
	entry.device.LastSeen = now
	entry.lastStateChange = now
	entry.mu.Unlock()

	if err := s.store.UpdateDevice(ctx, deviceID, map[string]any{
		"relay_state": string(state),
		"last_seen":   now,
	}); err != nil {
		log.Printf("SIMULATOR: Failed to persist relay state for %s: %v", deviceID, err)
	}

	if err := s.store.InsertLog(ctx, models.DeviceLog{
		ID:          uuid.NewString(),
		DeviceID:    deviceID,
		Action:      "relay_control",
		OldState:    string(oldState),
		NewState:    string(state),
		TriggeredBy: "manual",
		Timestamp:   now,
	}); err != nil {
		log.Printf("SIMULATOR: Failed to log relay control for %s: %v", deviceID, err)
	}

	payload, _ := json.Marshal(deviceUpdateEvent{
		Type:     "device_update",
		DeviceID: deviceID,
		Data: deviceUpdateData{
			RelayState: state,
			LastSeen:   now,
		},
	})
	s.hub.Publish(payload)

	return true
}

// tick runs one simulation sweep: age every device, perturb its signal,
// persist the changes and broadcast a status snapshot.
func (s *Simulator) tick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("SIMULATOR: Tick error: %v", r)
		}
	}()

	s.mu.RLock()
	entries := make([]*simDevice, 0, len(s.devices))
	for _, entry := range s.devices {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	step := int(s.interval / time.Second)
	ctx := context.Background()
	statuses := make([]deviceStatusEntry, 0, len(entries))

	for _, entry := range entries {
		entry.mu.Lock()
		d := &entry.device

		d.Uptime += step

		// Occasional connectivity drops
		if rand.Float64() < 0.01 {
			d.Status = models.StatusOffline
		} else {
			d.Status = models.StatusOnline
		}

		// Signal strength random walk, floored at 30
		entry.wifiSignal += rand.Intn(11) - 5
		if entry.wifiSignal < 30 {
			entry.wifiSignal = 30
		}
		signal := entry.wifiSignal
		d.WifiSignal = &signal

		if d.RelayState == models.RelayOn {
			d.TotalRuntime += step
		}

		d.LastSeen = now

		fields := map[string]any{
			"status":        string(d.Status),
			"uptime":        d.Uptime,
			"total_runtime": d.TotalRuntime,
			"wifi_signal":   signal,
			"last_seen":     now,
		}
		status := deviceStatusEntry{
			ID:         d.ID,
			Status:     d.Status,
			RelayState: d.RelayState,
			Uptime:     d.Uptime,
			WifiSignal: signal,
			LastSeen:   now,
		}
		entry.mu.Unlock()

		if err := s.store.UpdateDevice(ctx, status.ID, fields); err != nil {
			log.Printf("SIMULATOR: Failed to persist tick for %s: %v", status.ID, err)
		}
		statuses = append(statuses, status)
	}

	if len(statuses) == 0 {
		return
	}

	payload, _ := json.Marshal(statusUpdateEvent{
		Type:    "status_update",
		Devices: statuses,
	})
	s.hub.Publish(payload)

	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, payload); err != nil {
			log.Printf("SIMULATOR: Failed to cache status snapshot: %v", err)
		}
	}
}
