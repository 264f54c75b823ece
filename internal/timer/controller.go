// Package timer implements the background timer controller: a
// single-owner countdown state machine persisted after every
// mutation, reconciled against the wall clock after restarts, and
// driving session reporting, notifications, and the site-blocking
// policy as completion side effects.
package timer

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/miguel-sanchez/PomodoroPal/internal/blocking"
	"github.com/miguel-sanchez/PomodoroPal/internal/model"
	"github.com/miguel-sanchez/PomodoroPal/internal/settings"
)

// stateKey is the fixed record name the snapshot is persisted under.
const stateKey = "timerState"

// StateStore is the durable key/value store the controller persists
// through. Writes must survive full process teardown.
type StateStore interface {
	Get(key string, out interface{}) (bool, error)
	Set(key string, value interface{}) error
}

// Reporter receives the outcome of every finished or abandoned run.
// Implementations must not block; delivery is best-effort.
type Reporter interface {
	Report(record model.SessionRecord)
}

// Notifier surfaces a user-facing notification on session completion.
type Notifier interface {
	Notify(title, message string, requireInteraction bool)
}

// Indicator mirrors the remaining time on an external badge. An empty
// string clears the badge.
type Indicator interface {
	SetText(text string)
}

// Durations are the nominal mode lengths in seconds. They are fixed
// configuration, not per-user state.
type Durations struct {
	WorkSeconds       int
	ShortBreakSeconds int
	LongBreakSeconds  int
}

func DefaultDurations() Durations {
	return Durations{
		WorkSeconds:       model.DefaultWorkDurationSeconds,
		ShortBreakSeconds: model.DefaultShortBreakDurationSeconds,
		LongBreakSeconds:  model.DefaultLongBreakDurationSeconds,
	}
}

// Nominal returns the configured full length of a mode in seconds.
func (d Durations) Nominal(mode string) int {
	switch mode {
	case model.ModeShortBreak:
		return d.ShortBreakSeconds
	case model.ModeLongBreak:
		return d.LongBreakSeconds
	default:
		return d.WorkSeconds
	}
}

// Deps are the external collaborators. Reporter, Notifier, Indicator
// and Rules may be nil; the store is required.
type Deps struct {
	Store     StateStore
	Reporter  Reporter
	Notifier  Notifier
	Indicator Indicator
	Rules     blocking.Publisher
}

// Options contains runtime knobs. Both fields have sane defaults.
type Options struct {
	TickInterval time.Duration
	Now          func() time.Time
}

// Controller owns the one TimerSnapshot of an installation. All
// commands are serialized behind a mutex: each command is fully
// applied, persisted, and its rule recomputation issued before the
// next one is accepted.
type Controller struct {
	mu        sync.Mutex
	snapshot  model.TimerSnapshot
	settings  settings.Settings
	durations Durations
	deps      Deps

	tickInterval  time.Duration
	now           func() time.Time
	lastTick      time.Time
	driverRunning bool
	stopCh        chan struct{}

	subscribers []chan Event
	closed      bool
}

// New loads the persisted snapshot (or creates the default one on
// first install) but does not resume ticking; call Activate for that.
func New(deps Deps, durations Durations, cfg settings.Settings, options Options) *Controller {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	controller := &Controller{
		settings:     cfg,
		durations:    durations,
		deps:         deps,
		tickInterval: options.TickInterval,
		now:          options.Now,
	}
	controller.snapshot = controller.loadSnapshot()
	return controller
}

func (c *Controller) loadSnapshot() model.TimerSnapshot {
	defaultSnapshot := model.TimerSnapshot{
		Mode:                 model.ModeWork,
		TimeRemainingSeconds: c.durations.Nominal(model.ModeWork),
	}

	if c.deps.Store == nil {
		return defaultSnapshot
	}

	var loaded model.TimerSnapshot
	found, err := c.deps.Store.Get(stateKey, &loaded)
	if err != nil {
		log.Printf("timer state unreadable, starting fresh: %v", err)
		return defaultSnapshot
	}
	if !found {
		if err := c.deps.Store.Set(stateKey, defaultSnapshot); err != nil {
			log.Printf("CRITICAL: cannot persist timer state, restarts will lose progress: %v", err)
		}
		return defaultSnapshot
	}

	if !model.ValidMode(loaded.Mode) {
		return defaultSnapshot
	}
	nominal := c.durations.Nominal(loaded.Mode)
	if loaded.TimeRemainingSeconds < 0 {
		loaded.TimeRemainingSeconds = 0
	}
	if loaded.TimeRemainingSeconds > nominal {
		loaded.TimeRemainingSeconds = nominal
	}
	return loaded
}

// Activate reconciles a snapshot that was running when the previous
// owner died. The stored remaining time is stale by however long the
// process was gone, so it is recomputed from the wall clock; a run
// that should have finished during the gap completes immediately
// instead of resuming.
func (c *Controller) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot.IsRunning && c.snapshot.StartedAtMs != 0 {
		c.reconcileLocked(c.now())
		if c.snapshot.IsRunning {
			c.startDriverLocked()
		}
	}

	c.publishRulesLocked()
	c.updateIndicatorLocked()
}

// Snapshot returns the current state without mutating it.
func (c *Controller) Snapshot() model.TimerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Start begins (or resumes) the countdown. Starting a running timer
// is a no-op so duplicate clicks from racing UI surfaces are harmless.
func (c *Controller) Start() model.TimerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot.IsRunning {
		return c.snapshot
	}

	now := c.now()
	c.snapshot.IsRunning = true
	c.snapshot.StartedAtMs = now.UnixMilli()
	c.snapshot.PausedAtMs = 0
	c.lastTick = time.Time{}

	c.startDriverLocked()
	c.publishRulesLocked()
	c.persistLocked()
	c.updateIndicatorLocked()
	c.emitLocked(Event{Type: EventStateChange, Snapshot: c.snapshot, At: now})
	return c.snapshot
}

// Pause freezes the countdown, keeping the remaining time.
func (c *Controller) Pause() model.TimerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.snapshot.IsRunning {
		return c.snapshot
	}

	now := c.now()
	c.snapshot.IsRunning = false
	c.snapshot.StartedAtMs = 0
	c.snapshot.PausedAtMs = now.UnixMilli()

	c.stopDriverLocked()
	c.publishRulesLocked()
	c.persistLocked()
	c.emitLocked(Event{Type: EventStateChange, Snapshot: c.snapshot, At: now})
	return c.snapshot
}

// Reset abandons the active run, reporting it as incomplete, and
// restores the mode's full duration. The reported duration is the
// nominal mode length, not the elapsed time; the dashboard's
// analytics are built on that convention.
func (c *Controller) Reset() model.TimerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.snapshot.IsRunning && c.snapshot.StartedAtMs != 0 {
		c.reportLocked(model.SessionRecord{
			SessionType:     c.snapshot.Mode,
			DurationMinutes: c.durations.Nominal(c.snapshot.Mode) / 60,
			Completed:       false,
			StartedAt:       model.FormatEpochMs(c.snapshot.StartedAtMs),
			EndedAt:         now.UTC().Format(time.RFC3339),
		})
	}

	c.snapshot.IsRunning = false
	c.snapshot.TimeRemainingSeconds = c.durations.Nominal(c.snapshot.Mode)
	c.snapshot.StartedAtMs = 0
	c.snapshot.PausedAtMs = 0

	c.stopDriverLocked()
	c.publishRulesLocked()
	c.persistLocked()
	c.updateIndicatorLocked()
	c.emitLocked(Event{Type: EventStateChange, Snapshot: c.snapshot, At: now})
	return c.snapshot
}

// SwitchMode changes the mode while the timer is stopped or paused.
// A switch while running is silently ignored; the mode buttons are
// meant to be used before starting, and rejecting with an error would
// break that UI contract.
func (c *Controller) SwitchMode(mode string) model.TimerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot.IsRunning || !model.ValidMode(mode) {
		return c.snapshot
	}

	c.snapshot.Mode = mode
	c.snapshot.TimeRemainingSeconds = c.durations.Nominal(mode)
	c.snapshot.StartedAtMs = 0
	c.snapshot.PausedAtMs = 0

	c.persistLocked()
	c.updateIndicatorLocked()
	c.emitLocked(Event{Type: EventStateChange, Snapshot: c.snapshot, At: c.now()})
	return c.snapshot
}

// UpdateSettings swaps the blocking configuration and recomputes the
// rule set, independent of any timer command.
func (c *Controller) UpdateSettings(cfg settings.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = cfg
	c.publishRulesLocked()
}

// Subscribe registers an observer channel. Events are dropped rather
// than ever blocking a transition on a slow subscriber.
func (c *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	c.mu.Lock()
	if c.closed {
		close(ch)
	} else {
		c.subscribers = append(c.subscribers, ch)
	}
	c.mu.Unlock()
	return ch
}

// Shutdown stops the tick driver and closes subscriber channels. The
// snapshot stays persisted for the next activation.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	c.stopDriverLocked()
	c.closed = true
	subscribers := c.subscribers
	c.subscribers = nil
	c.mu.Unlock()

	for _, ch := range subscribers {
		close(ch)
	}
}

func (c *Controller) startDriverLocked() {
	if c.driverRunning {
		return
	}
	c.driverRunning = true
	c.stopCh = make(chan struct{})
	go c.run(c.stopCh)
}

func (c *Controller) stopDriverLocked() {
	if !c.driverRunning {
		return
	}
	close(c.stopCh)
	c.driverRunning = false
	c.lastTick = time.Time{}
}

func (c *Controller) run(stopCh chan struct{}) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			c.tick(c.now())
		}
	}
}

// tick advances the countdown by one second. Ticks are keyed to
// wall-clock progression: a signal arriving on the heels of the
// previous one is dropped, and a gap larger than the tick interval
// falls back to reconciliation instead of a raw decrement, so bursts
// and stalls of the host scheduler can neither double-count nor skip.
func (c *Controller) tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.snapshot.IsRunning {
		return
	}

	if !c.lastTick.IsZero() {
		delta := now.Sub(c.lastTick)
		if delta < c.tickInterval/2 {
			return
		}
		if delta >= 2*c.tickInterval {
			c.reconcileLocked(now)
			return
		}
	}
	c.lastTick = now

	c.snapshot.TimeRemainingSeconds--
	if c.snapshot.TimeRemainingSeconds <= 0 {
		c.snapshot.TimeRemainingSeconds = 0
		c.completeLocked(now)
		return
	}

	c.persistLocked()
	c.updateIndicatorLocked()
	c.emitLocked(Event{Type: EventProgress, Snapshot: c.snapshot, At: now})
}

// reconcileLocked recomputes the remaining time from elapsed wall
// clock. No in-memory counter survives a suspension, so the only
// trustworthy quantity is the mode's nominal duration minus the time
// since the run started.
func (c *Controller) reconcileLocked(now time.Time) {
	nominal := c.durations.Nominal(c.snapshot.Mode)
	elapsed := int((now.UnixMilli() - c.snapshot.StartedAtMs) / 1000)
	remaining := nominal - elapsed
	if remaining < 0 {
		remaining = 0
	}
	if remaining > nominal {
		remaining = nominal
	}

	c.snapshot.TimeRemainingSeconds = remaining
	c.lastTick = now

	if remaining == 0 {
		c.completeLocked(now)
		return
	}

	c.persistLocked()
	c.updateIndicatorLocked()
	c.emitLocked(Event{Type: EventProgress, Snapshot: c.snapshot, At: now})
}

// completeLocked finishes the current run: report, notify, switch to
// the follow-up mode, republish rules, persist. A completed work
// session flows into a short break; every break flows back to work.
func (c *Controller) completeLocked(now time.Time) {
	finishedMode := c.snapshot.Mode

	c.reportLocked(model.SessionRecord{
		SessionType:     finishedMode,
		DurationMinutes: c.durations.Nominal(finishedMode) / 60,
		Completed:       true,
		StartedAt:       model.FormatEpochMs(c.snapshot.StartedAtMs),
		EndedAt:         now.UTC().Format(time.RFC3339),
	})

	c.snapshot.IsRunning = false
	c.snapshot.TimeRemainingSeconds = 0
	c.stopDriverLocked()

	if c.deps.Notifier != nil {
		if finishedMode == model.ModeWork {
			c.deps.Notifier.Notify("PomodoroPal", "Work session complete. Time for a break!", true)
		} else {
			c.deps.Notifier.Notify("PomodoroPal", "Break is over. Back to work!", true)
		}
	}
	c.emitLocked(Event{Type: EventSessionComplete, Snapshot: c.snapshot, At: now})

	nextMode := model.ModeWork
	if finishedMode == model.ModeWork {
		nextMode = model.ModeShortBreak
	}
	c.snapshot.Mode = nextMode
	c.snapshot.TimeRemainingSeconds = c.durations.Nominal(nextMode)
	c.snapshot.StartedAtMs = 0
	c.snapshot.PausedAtMs = 0

	c.publishRulesLocked()
	c.persistLocked()
	c.updateIndicatorLocked()
	c.emitLocked(Event{Type: EventStateChange, Snapshot: c.snapshot, At: now})
}

func (c *Controller) reportLocked(record model.SessionRecord) {
	if c.deps.Reporter == nil {
		return
	}
	c.deps.Reporter.Report(record)
}

// persistLocked writes the snapshot through the durable store. A
// failed write leaves the in-memory transition standing for this
// activation but silently forfeits resumability, so it is the one
// failure worth shouting about.
func (c *Controller) persistLocked() {
	if c.deps.Store == nil {
		return
	}
	if err := c.deps.Store.Set(stateKey, c.snapshot); err != nil {
		log.Printf("CRITICAL: cannot persist timer state, restarts will lose progress: %v", err)
	}
}

func (c *Controller) publishRulesLocked() {
	if c.deps.Rules == nil {
		return
	}
	rules := blocking.Recompute(c.snapshot, c.settings)
	if err := c.deps.Rules.Replace(rules); err != nil {
		log.Printf("blocking rules not applied: %v", err)
	}
}

func (c *Controller) updateIndicatorLocked() {
	if c.deps.Indicator == nil {
		return
	}
	if !c.snapshot.IsRunning {
		c.deps.Indicator.SetText("")
		return
	}
	minutes := (c.snapshot.TimeRemainingSeconds + 59) / 60
	c.deps.Indicator.SetText(strconv.Itoa(minutes))
}

func (c *Controller) emitLocked(event Event) {
	for _, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
