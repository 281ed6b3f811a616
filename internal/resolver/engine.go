package resolver

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mossu/presenced/internal/calendar"
	"github.com/mossu/presenced/internal/logbuf"
	"github.com/mossu/presenced/internal/office"
	"github.com/mossu/presenced/internal/schedule"
	"github.com/mossu/presenced/internal/signal"
	"github.com/mossu/presenced/internal/slackapi"
	"github.com/mossu/presenced/internal/store"
	"github.com/mossu/presenced/internal/timer"
)

// Timer keys, one per concern. Rescheduling a concern replaces its timer.
const (
	timerHoliday  = "holiday-expiry"
	timerMeeting  = "meeting-expiry"
	timerBoundary = "calendar-boundary"
)

// Update is broadcast to subscribers after every state transition. UI and
// notification collaborators subscribe independently; the engine never calls
// them directly.
type Update struct {
	Office       office.Office
	Text         string
	Changed      bool
	Paused       bool
	AuthRequired bool
}

// Snapshot is a point-in-time copy of the engine's state.
type Snapshot struct {
	Current         *office.Office
	Paused          bool
	HolidayEnd      *time.Time
	MeetingEnd      *time.Time
	MeetingEventID  string
	LastPublishedAt *time.Time
	Authorized      bool
	DisplayName     string
	PendingResolve  bool
}

type Options struct {
	Registry  *office.Registry
	Schedule  *schedule.Config
	Store     store.Store
	NewClient slackapi.Factory

	// Optional.
	Clock     timer.Clock
	Scheduler *timer.Scheduler
	Events    *logbuf.Log
	Logger    *zap.Logger
	Display   signal.DisplayFunc
}

// Engine owns the presence state. All mutations funnel through its serial
// loop: signal sources, timers and user actions post events onto one
// channel, and a single goroutine applies them. Remote publishes run
// asynchronously and post their completion back onto the same loop.
type Engine struct {
	registry  *office.Registry
	schedule  *schedule.Config
	store     store.Store
	newClient slackapi.Factory
	clock     timer.Clock
	sched     *timer.Scheduler
	events    *logbuf.Log
	logger    *zap.Logger
	display   signal.DisplayFunc

	posts    chan func()
	done     chan struct{}
	stopOnce sync.Once

	subMu sync.Mutex
	subs  []chan Update

	// Owned by the serial loop.
	current         *office.Office
	paused          bool
	holidayEnd      *time.Time
	meetingEnd      *time.Time
	meetingEventID  string
	lastPublishedAt *time.Time
	token           string
	skipWindowOnce  bool
	pendingResolve  bool
	meetingsEnabled bool
	online          bool
	ssid            string
	haveSSID        bool
	location        *office.Location
	calEvents       []calendar.Event
	lastText        string
	lastGlyph       string
	displayName     string
	inFlight        bool
	queued          *plan
}

func New(opts Options) (*Engine, error) {
	if opts.Registry == nil {
		return nil, errors.New("resolver: registry is required")
	}
	if opts.Schedule == nil {
		return nil, errors.New("resolver: schedule is required")
	}
	if opts.Store == nil {
		return nil, errors.New("resolver: store is required")
	}
	if opts.NewClient == nil {
		return nil, errors.New("resolver: client factory is required")
	}

	clock := opts.Clock
	if clock == nil {
		clock = timer.RealClock()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = timer.NewScheduler(clock)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	events := opts.Events
	if events == nil {
		events = logbuf.New(logbuf.DefaultCapacity, logger)
	}
	display := opts.Display
	if display == nil {
		display = signal.AlwaysDisplay
	}

	return &Engine{
		registry:        opts.Registry,
		schedule:        opts.Schedule,
		store:           opts.Store,
		newClient:       opts.NewClient,
		clock:           clock,
		sched:           sched,
		events:          events,
		logger:          logger,
		display:         display,
		posts:           make(chan func(), 64),
		done:            make(chan struct{}),
		meetingsEnabled: true,
	}, nil
}

// Start launches the serial loop and restores persisted state.
func (e *Engine) Start() {
	go e.loop()
	e.post(e.bootstrap)
}

// Stop tears down timers and detaches the loop. In-flight network calls are
// not aborted; their completions become no-ops.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.done)
		e.sched.StopAll()
	})
}

func (e *Engine) loop() {
	for {
		select {
		case fn := <-e.posts:
			fn()
		case <-e.done:
			return
		}
	}
}

func (e *Engine) post(fn func()) {
	select {
	case e.posts <- fn:
	case <-e.done:
	}
}

// HandleSample is the entry point for every signal source.
func (e *Engine) HandleSample(s signal.Sample) {
	e.post(func() { e.handleSample(s) })
}

// SetToken installs a freshly acquired token and triggers resolution.
func (e *Engine) SetToken(token string) {
	e.post(func() {
		e.token = token
		if err := e.store.Set(context.Background(), store.KeyToken, token); err != nil {
			e.logger.Warn("failed to persist token", zap.Error(err))
		}
		e.current = nil
		e.lastText = ""
		e.lastGlyph = ""
		e.skipWindowOnce = true
		e.events.Append("token acquired")
		e.maybeResolve("token acquired")
	})
}

// TogglePause flips the pause flag. Resuming clears any holiday or meeting
// override and re-resolves, bypassing the schedule window once.
func (e *Engine) TogglePause() {
	e.post(func() {
		e.paused = !e.paused
		if e.paused {
			e.events.Append("updates paused")
		} else {
			e.events.Append("updates resumed")
			e.holidayEnd = nil
			if err := e.store.Delete(context.Background(), store.KeyHolidayEnd); err != nil {
				e.logger.Warn("failed to clear holiday end", zap.Error(err))
			}
			e.sched.Cancel(timerHoliday)
			e.clearMeeting()
			e.skipWindowOnce = true
			e.maybeResolve("resumed")
		}
		u := Update{Paused: e.paused, Text: e.lastText}
		if e.current != nil {
			u.Office = *e.current
		}
		e.notify(u)
	})
}

// SetHoliday pauses automatic updates until end and publishes the holiday
// status immediately, annotated with the return date. This is the one
// publish that ignores both the pause flag and the schedule window.
func (e *Engine) SetHoliday(end time.Time) {
	e.post(func() {
		e.paused = true
		e.holidayEnd = &end
		e.clearMeeting()
		if err := e.store.Set(context.Background(), store.KeyHolidayEnd, end.Format(time.RFC3339)); err != nil {
			e.logger.Warn("failed to persist holiday end", zap.Error(err))
		}
		e.sched.Schedule(timerHoliday, end, func() { e.post(e.holidayExpired) })
		e.attempt(e.holidayPlan())
	})
}

// ToggleScheduleDay flips a weekday (1=Sunday..7=Saturday) and persists the
// preference.
func (e *Engine) ToggleScheduleDay(weekday int) {
	e.post(func() {
		e.schedule.ToggleDay(weekday)
		if err := e.schedule.Save(context.Background(), e.store); err != nil {
			e.logger.Warn("failed to save schedule", zap.Error(err))
		}
	})
}

// ToggleScheduleHour flips an hour (0..23) and persists the preference.
func (e *Engine) ToggleScheduleHour(hour int) {
	e.post(func() {
		e.schedule.ToggleHour(hour)
		if err := e.schedule.Save(context.Background(), e.store); err != nil {
			e.logger.Warn("failed to save schedule", zap.Error(err))
		}
	})
}

// SelectCalendar persists the calendar the meeting override should watch.
// Empty means all calendars.
func (e *Engine) SelectCalendar(calendarID string) {
	e.post(func() {
		ctx := context.Background()
		var err error
		if calendarID == "" {
			err = e.store.Delete(ctx, store.KeySelectedCalendar)
		} else {
			err = e.store.Set(ctx, store.KeySelectedCalendar, calendarID)
		}
		if err != nil {
			e.logger.Warn("failed to persist calendar selection", zap.Error(err))
		}
	})
}

// SetMeetingsEnabled turns the calendar meeting override on or off.
func (e *Engine) SetMeetingsEnabled(enabled bool) {
	e.post(func() {
		e.meetingsEnabled = enabled
		value := "false"
		if enabled {
			value = "true"
		}
		if err := e.store.Set(context.Background(), store.KeyMeetingsEnabled, value); err != nil {
			e.logger.Warn("failed to persist meetings flag", zap.Error(err))
		}
		if !enabled && e.meetingActive() {
			e.clearMeeting()
			e.maybeResolve("meetings disabled")
		}
	})
}

// Subscribe returns a channel receiving state updates. Slow subscribers miss
// updates rather than blocking the engine.
func (e *Engine) Subscribe() <-chan Update {
	ch := make(chan Update, 8)
	e.subMu.Lock()
	e.subs = append(e.subs, ch)
	e.subMu.Unlock()
	return ch
}

func (e *Engine) notify(u Update) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

// Snapshot returns a copy of the current state, serialized through the loop.
func (e *Engine) Snapshot() Snapshot {
	ch := make(chan Snapshot, 1)
	e.post(func() {
		snap := Snapshot{
			Paused:         e.paused,
			MeetingEventID: e.meetingEventID,
			Authorized:     e.token != "",
			DisplayName:    e.displayName,
			PendingResolve: e.pendingResolve,
		}
		if e.current != nil {
			off := *e.current
			snap.Current = &off
		}
		snap.HolidayEnd = copyTime(e.holidayEnd)
		snap.MeetingEnd = copyTime(e.meetingEnd)
		snap.LastPublishedAt = copyTime(e.lastPublishedAt)
		ch <- snap
	})
	select {
	case s := <-ch:
		return s
	case <-e.done:
		return Snapshot{}
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
