package scheduler

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"iothome/internal/models"
)

// Store is the persistence surface the schedule engine reads and writes
type Store interface {
	GetActiveSchedules(ctx context.Context) ([]models.Schedule, error)
	SetScheduleActive(ctx context.Context, id string, active bool) error
	InsertLog(ctx context.Context, entry models.DeviceLog) error
}

// RelayController switches a device relay; false means the device is unknown
type RelayController interface {
	SetRelay(ctx context.Context, deviceID string, state models.RelayState) bool
}

// Scheduler polls active schedules once per minute and fires the ones whose
// trigger time matches the current wall-clock minute. Active schedules are
// re-read from the store every cycle, so CRUD changes need no reload hook.
type Scheduler struct {
	cron    *cron.Cron
	store   Store
	relays  RelayController
	started bool
}

// NewScheduler creates a schedule engine
func NewScheduler(store Store, relays RelayController) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		relays: relays,
	}
}

// Start begins the minute cycle; no-op if already started
func (s *Scheduler) Start() {
	if s.started {
		return
	}
	s.started = true

	// Cron wakes at second 0 of every minute, so each trigger window is
	// evaluated exactly once
	s.cron.AddFunc("* * * * *", func() {
		s.runCycle(context.Background(), time.Now().UTC())
	})
	s.cron.Start()
	log.Println("SCHEDULER: Started")
}

// Stop halts the cycle, waiting for a running sweep to finish
func (s *Scheduler) Stop() {
	if !s.started {
		return
	}
	s.started = false
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("SCHEDULER: Stopped")
}

// runCycle evaluates every active schedule against now. A fault in one
// schedule is logged and never aborts the rest of the sweep.
func (s *Scheduler) runCycle(ctx context.Context, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("SCHEDULER: Cycle error: %v", r)
		}
	}()

	schedules, err := s.store.GetActiveSchedules(ctx)
	if err != nil {
		log.Printf("SCHEDULER: Failed to load schedules: %v", err)
		return
	}

	for _, schedule := range schedules {
		if shouldTrigger(schedule, now) {
			s.execute(ctx, schedule)
		}
	}
}

// shouldTrigger reports whether the schedule fires during this minute.
// Malformed trigger times fail the evaluation for that schedule only.
func shouldTrigger(schedule models.Schedule, now time.Time) bool {
	parts := strings.Split(schedule.TriggerTime, ":")
	if len(parts) != 2 {
		log.Printf("SCHEDULER: Schedule %s has malformed trigger time %q", schedule.ID, schedule.TriggerTime)
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		log.Printf("SCHEDULER: Schedule %s has malformed trigger time %q", schedule.ID, schedule.TriggerTime)
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		log.Printf("SCHEDULER: Schedule %s has malformed trigger time %q", schedule.ID, schedule.TriggerTime)
		return false
	}

	// Exact-minute match only
	if now.Hour() != hour || now.Minute() != minute {
		return false
	}

	switch schedule.Type {
	case models.ScheduleOnce:
		if schedule.TriggerDate == nil {
			return false
		}
		y1, m1, d1 := schedule.TriggerDate.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case models.ScheduleDaily:
		return true
	case models.ScheduleWeekly:
		if len(schedule.DaysOfWeek) == 0 {
			return false
		}
		weekday := (int(now.Weekday()) + 6) % 7 // 0=Monday .. 6=Sunday
		for _, day := range schedule.DaysOfWeek {
			if day == weekday {
				return true
			}
		}
		return false
	}
	return false
}

// execute fires one schedule: switch the relay, log the action and
// deactivate one-shot schedules so they never re-fire.
func (s *Scheduler) execute(ctx context.Context, schedule models.Schedule) {
	ok := s.relays.SetRelay(ctx, schedule.DeviceID, schedule.TargetState)
	if !ok {
		log.Printf("SCHEDULER: Schedule %s targets unknown device %s", schedule.ID, schedule.DeviceID)
		return
	}

	if err := s.store.InsertLog(ctx, models.DeviceLog{
		ID:          uuid.NewString(),
		DeviceID:    schedule.DeviceID,
		Action:      "scheduled_control",
		NewState:    string(schedule.TargetState),
		TriggeredBy: "schedule:" + schedule.Name,
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		log.Printf("SCHEDULER: Failed to log schedule %s: %v", schedule.ID, err)
	}

	if schedule.Type == models.ScheduleOnce {
		if err := s.store.SetScheduleActive(ctx, schedule.ID, false); err != nil {
			log.Printf("SCHEDULER: Failed to deactivate schedule %s: %v", schedule.ID, err)
		}
	}

	log.Printf("SCHEDULER: Executed schedule %q for device %s", schedule.Name, schedule.DeviceID)
}
