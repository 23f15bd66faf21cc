package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmhodges/clock"

	"github.com/sjoberg/arbetstid/internal/model"
	"github.com/sjoberg/arbetstid/internal/notify"
	"github.com/sjoberg/arbetstid/internal/store"
)

// State tracks the worker lifecycle. The clock only ticks once activated;
// the terminal state persists until the process is torn down.
type State string

const (
	StateNew        State = "new"
	StateInstalling State = "installing"
	StateInstalled  State = "installed"
	StateActivating State = "activating"
	StateActivated  State = "activated"
)

const (
	// pollInterval is the fixed tick period. The source carried both a 60 s
	// and a 3600 s variant; 60 s keeps a whole-minute match window from
	// being skipped.
	pollInterval = 60 * time.Second

	inboxSize = 16

	markerRetentionDays = 30
)

// Worker runs the reminder clock in its own goroutine, independent of any
// HTTP request lifecycle, and receives schedule updates through a message
// inbox. It persists every update into the same preference store the clock
// reads, so the two contexts never diverge.
type Worker struct {
	mu    sync.RWMutex
	state State

	prefs      *store.PrefStore
	markers    *store.MarkerStore
	gate       *notify.Gate
	dispatcher *Dispatcher

	clk      clock.Clock
	interval time.Duration
	inbox    chan model.ScheduleUpdate
	cancel   context.CancelFunc
	done     chan struct{}
	logger   *slog.Logger
}

func NewWorker(prefs *store.PrefStore, markers *store.MarkerStore, gate *notify.Gate, dispatcher *Dispatcher, logger *slog.Logger) *Worker {
	return &Worker{
		state:      StateNew,
		prefs:      prefs,
		markers:    markers,
		gate:       gate,
		dispatcher: dispatcher,
		clk:        clock.New(),
		interval:   pollInterval,
		inbox:      make(chan model.ScheduleUpdate, inboxSize),
		logger:     logger,
	}
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	w.logger.Info("worker state", "state", string(s))
}

// Schedule delivers a schedule update to the worker's inbox. Fire-and-forget,
// at-most-once: if the inbox is full the update is dropped. Callers that need
// the rule persisted immediately write the preference store themselves; the
// store is last-write-wins either way.
func (w *Worker) Schedule(u model.ScheduleUpdate) {
	select {
	case w.inbox <- u:
	default:
		w.logger.Warn("worker inbox full, dropping schedule update", "kind", u.Kind)
	}
}

// Start walks the install/activate lifecycle and then begins the clock loop.
// Install pre-populates the preference store so first-tick reads never fail;
// activation clears out markers left behind by old calendar days.
func (w *Worker) Start(ctx context.Context) error {
	w.setState(StateInstalling)
	if err := w.prefs.EnsureDefaults(); err != nil {
		return fmt.Errorf("install worker: %w", err)
	}
	w.setState(StateInstalled)

	w.setState(StateActivating)
	cutoff := w.clk.Now().AddDate(0, 0, -markerRetentionDays)
	if err := w.markers.Prune(cutoff); err != nil {
		w.logger.Warn("prune fired markers", "error", err)
	}
	w.setState(StateActivated)

	w.mu.Lock()
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Stop tears the clock down and waits for the loop to exit.
func (w *Worker) Stop() {
	w.mu.RLock()
	cancel := w.cancel
	done := w.done
	w.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// run is the single goroutine owning the clock. Ticks and inbox messages are
// handled one at a time, so a tick always completes — including any dispatch —
// before the next one is taken; ticker events arriving meanwhile are dropped
// by the runtime, never queued.
func (w *Worker) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopping")
			return
		case u := <-w.inbox:
			w.apply(u)
		case <-ticker.C:
			w.tick()
		}
	}
}

// apply persists one schedule update into the preference store.
func (w *Worker) apply(u model.ScheduleUpdate) {
	if _, _, err := model.ParseTimeOfDay(u.Time); err != nil {
		w.logger.Warn("dropping schedule update with invalid time", "time", u.Time, "error", err)
		return
	}

	settings, err := w.prefs.ReminderSettings()
	if err != nil {
		w.logger.Error("read reminder settings", "error", err)
		return
	}

	switch u.Kind {
	case model.KindDaily:
		settings.Daily = u.Enabled
	case model.KindWeekly:
		settings.Weekly = u.Enabled
	default:
		w.logger.Warn("dropping schedule update with unknown kind", "kind", u.Kind)
		return
	}
	settings.Time = u.Time

	if err := w.prefs.SetReminderSettings(settings); err != nil {
		w.logger.Error("persist schedule update", "error", err)
		return
	}
	w.logger.Info("schedule updated", "kind", u.Kind, "time", u.Time, "enabled", u.Enabled)
}

// tick evaluates the stored rules against the current minute and dispatches
// whatever is due. Every failure is absorbed here: a bad cycle aborts this
// tick only and the next tick retries from scratch. Missed minutes are not
// retro-fired — reminders are best-effort.
func (w *Worker) tick() {
	now := w.clk.Now()

	// Re-read settings every tick so disabling a rule takes effect on the
	// very next cycle.
	settings, err := w.prefs.ReminderSettings()
	if err != nil {
		w.logger.Error("read reminder settings", "error", err)
		return
	}

	due := Due(settings, now)
	if len(due) == 0 {
		return
	}

	// Permission is re-derived before each dispatch; a snapshot from another
	// context or an earlier tick cannot be trusted.
	permission, err := w.gate.Query()
	if err != nil {
		w.logger.Error("query notification permission", "error", err)
		return
	}
	if permission != model.PermissionGranted {
		return
	}

	day := now.Format(model.DayFormat)
	for _, kind := range due {
		fired, err := w.markers.WasFired(kind, day)
		if err != nil {
			w.logger.Error("check fired marker", "kind", kind, "error", err)
			continue
		}
		if fired {
			continue
		}

		if err := w.dispatcher.Dispatch(kind); err != nil {
			// No marker on failure: the rule may retry on a later tick if
			// the target minute has not passed yet.
			w.logger.Error("dispatch reminder", "kind", kind, "error", err)
			continue
		}
		if err := w.markers.MarkFired(kind, day); err != nil {
			w.logger.Error("write fired marker", "kind", kind, "error", err)
		}
	}
}
