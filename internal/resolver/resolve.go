package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mossu/presenced/internal/calendar"
	"github.com/mossu/presenced/internal/office"
	"github.com/mossu/presenced/internal/signal"
	"github.com/mossu/presenced/internal/slackapi"
	"github.com/mossu/presenced/internal/store"
)

// plan is a concrete publish candidate. expiry is epoch seconds, 0 meaning
// the status never expires.
type plan struct {
	off    office.Office
	text   string
	glyph  string
	expiry int64
}

// bootstrap restores persisted state and imports the currently published
// remote status so the first resolution does not produce a spurious write.
func (e *Engine) bootstrap() {
	ctx := context.Background()

	if token, err := e.store.Get(ctx, store.KeyToken); err == nil {
		e.token = token
	} else if !errors.Is(err, store.ErrNotFound) {
		e.logger.Warn("failed to load token", zap.Error(err))
	}

	if raw, err := e.store.Get(ctx, store.KeyHolidayEnd); err == nil {
		if end, perr := time.Parse(time.RFC3339, raw); perr == nil {
			if end.After(e.clock.Now()) {
				e.paused = true
				e.holidayEnd = &end
				e.sched.Schedule(timerHoliday, end, func() { e.post(e.holidayExpired) })
			} else if derr := e.store.Delete(ctx, store.KeyHolidayEnd); derr != nil {
				e.logger.Warn("failed to clear stale holiday end", zap.Error(derr))
			}
		} else {
			e.logger.Warn("invalid persisted holiday end", zap.String("value", raw))
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		e.logger.Warn("failed to load holiday end", zap.Error(err))
	}

	if raw, err := e.store.Get(ctx, store.KeyMeetingsEnabled); err == nil {
		e.meetingsEnabled = raw != "false"
	}

	if e.token == "" {
		e.events.Append("no token, authorization required")
		e.notify(Update{AuthRequired: true})
		return
	}

	client := e.newClient(e.token)
	go func() {
		status, err := client.FetchStatus(context.Background())
		e.post(func() { e.fetchDone(status, err) })
	}()
}

func (e *Engine) fetchDone(status slackapi.Status, err error) {
	if err != nil {
		if slackapi.IsAuthError(err) {
			e.events.Appendf("status fetch rejected: %v", err)
			e.clearToken()
		} else {
			e.events.Appendf("status fetch failed: %v", err)
		}
		return
	}
	e.displayName = status.DisplayName
	if off, ok := e.registry.ByGlyph(status.Glyph); ok {
		e.current = &off
		e.lastText = status.Text
		e.lastGlyph = status.Glyph
		e.events.Appendf("imported remote status %q", status.Text)
	}
}

func (e *Engine) handleSample(s signal.Sample) {
	switch s.Kind {
	case signal.KindNetwork:
		e.ssid = s.SSID
		e.haveSSID = true
		e.maybeResolve("network signal")
	case signal.KindLocation:
		e.location = s.Location
		if e.haveSSID {
			e.maybeResolve("location signal")
		}
	case signal.KindConnectivity:
		wasOnline := e.online
		e.online = s.Online
		if s.Online && !wasOnline {
			e.events.Append("connectivity restored")
			if !e.display() {
				e.pendingResolve = true
				e.events.Append("no active display, deferring resolution")
				return
			}
			e.maybeResolve("connectivity restored")
		}
	case signal.KindCalendar:
		e.calEvents = s.Events
		e.recomputeMeeting()
	}
}

func (e *Engine) holidayActive() bool {
	return e.holidayEnd != nil && e.holidayEnd.After(e.clock.Now())
}

func (e *Engine) meetingActive() bool {
	return e.meetingEnd != nil && e.meetingEnd.After(e.clock.Now())
}

// maybeResolve runs the publish decision for the current signal state.
// Holiday takes precedence over everything, including an active meeting;
// pause suppresses all other publishes; an active meeting override holds
// until its expiry timer fires.
func (e *Engine) maybeResolve(trigger string) {
	if e.holidayActive() {
		e.attempt(e.holidayPlan())
		return
	}
	if e.paused {
		e.events.Appendf("paused, ignoring %s", trigger)
		return
	}
	if !e.display() {
		e.pendingResolve = true
		e.events.Append("no active display, deferring resolution")
		return
	}
	if e.meetingActive() {
		return
	}
	if !e.haveSSID {
		e.pendingResolve = true
		return
	}
	e.pendingResolve = false

	candidate := e.registry.Resolve(e.ssid, e.location)
	now := e.clock.Now()
	if !e.schedule.IsPublishWindow(now) && e.registry.IsRemote(candidate) {
		// Outside working hours only the remote/idle state is held back;
		// a detected office presence still publishes.
		if !e.skipWindowOnce {
			e.events.Appendf("outside publish window, not updating to %q", candidate.Text)
			return
		}
		e.skipWindowOnce = false
	}
	e.attempt(plan{off: candidate, text: candidate.Text, glyph: candidate.Glyph})
}

func (e *Engine) holidayPlan() plan {
	h := e.registry.Holiday()
	text := h.Text
	if e.holidayEnd != nil {
		text = fmt.Sprintf("%s hasta el %s", h.Text, e.holidayEnd.Format("02/01"))
	}
	return plan{off: h, text: text, glyph: h.Glyph}
}

// recomputeMeeting reconciles the meeting override with the latest calendar
// window.
func (e *Engine) recomputeMeeting() {
	if !e.meetingsEnabled {
		return
	}
	now := e.clock.Now()

	var ongoing *calendar.Event
	for i := range e.calEvents {
		ev := e.calEvents[i]
		if ev.Blocking() && ev.Ongoing(now) {
			if ongoing == nil || ev.End.Before(ongoing.End) {
				ongoing = &ev
			}
		}
	}

	if ongoing == nil {
		if e.meetingActive() {
			// The driving event was cancelled or shortened.
			e.clearMeeting()
			e.maybeResolve("meeting removed")
		}
		e.scheduleNextBoundary(now)
		return
	}

	if e.holidayActive() {
		return
	}
	if e.meetingEventID == ongoing.ID && e.meetingEnd != nil && e.meetingEnd.Equal(ongoing.End) {
		return
	}

	end := ongoing.End
	e.meetingEnd = &end
	e.meetingEventID = ongoing.ID
	e.sched.Schedule(timerMeeting, end, func() { e.post(e.meetingExpired) })

	if e.paused {
		return
	}
	if !e.schedule.IsPublishWindow(now) {
		if !e.skipWindowOnce {
			e.events.Append("meeting outside publish window, waiting for re-check")
			return
		}
		e.skipWindowOnce = false
	}

	base := e.current
	if base == nil {
		resolved := e.registry.Resolve(e.ssid, e.location)
		base = &resolved
	}
	e.attempt(plan{off: *base, text: base.Text, glyph: base.MeetingGlyph, expiry: end.Unix()})
}

func (e *Engine) scheduleNextBoundary(now time.Time) {
	var next *time.Time
	for _, ev := range e.calEvents {
		if ev.Blocking() && ev.Start.After(now) {
			if next == nil || ev.Start.Before(*next) {
				start := ev.Start
				next = &start
			}
		}
	}
	if next != nil {
		e.sched.Schedule(timerBoundary, *next, func() { e.post(e.recomputeMeeting) })
	}
}

func (e *Engine) clearMeeting() {
	e.meetingEnd = nil
	e.meetingEventID = ""
	e.sched.Cancel(timerMeeting)
}

func (e *Engine) meetingExpired() {
	e.clearMeeting()
	e.maybeResolve("meeting ended")
}

func (e *Engine) holidayExpired() {
	e.holidayEnd = nil
	e.paused = false
	if err := e.store.Delete(context.Background(), store.KeyHolidayEnd); err != nil {
		e.logger.Warn("failed to clear holiday end", zap.Error(err))
	}
	e.events.Append("holiday ended, resuming updates")
	e.maybeResolve("holiday ended")
}

// attempt applies the dedup rule and hands the plan to the transport. At
// most one publish is outstanding; candidates resolved while one is in
// flight coalesce to the latest.
func (e *Engine) attempt(p plan) {
	if e.token == "" {
		e.events.Append("no token, authorization required")
		return
	}
	if e.current != nil && e.current.ID == p.off.ID && e.lastText == p.text && e.lastGlyph == p.glyph {
		e.events.Appendf("already %q, skipping publish", p.text)
		return
	}
	if e.inFlight {
		queued := p
		e.queued = &queued
		return
	}
	e.inFlight = true
	e.events.Appendf("publishing %q", p.text)

	client := e.newClient(e.token)
	go func() {
		err := client.PublishStatus(context.Background(), p.text, p.glyph, p.expiry)
		e.post(func() { e.publishDone(p, err) })
	}()
}

func (e *Engine) publishDone(p plan, err error) {
	e.inFlight = false
	if err != nil {
		if slackapi.IsAuthError(err) {
			e.events.Appendf("publish rejected: %v", err)
			e.clearToken()
		} else {
			e.events.Appendf("publish failed, retrying on next signal: %v", err)
		}
	} else {
		now := e.clock.Now()
		changed := e.current == nil || e.current.ID != p.off.ID
		off := p.off
		e.current = &off
		e.lastPublishedAt = &now
		e.lastText = p.text
		e.lastGlyph = p.glyph
		if changed {
			e.events.Appendf("status updated to %q", p.text)
		}
		e.notify(Update{Office: off, Text: p.text, Changed: changed, Paused: e.paused})
	}

	if q := e.queued; q != nil {
		e.queued = nil
		e.attempt(*q)
	}
}

func (e *Engine) clearToken() {
	e.token = ""
	if err := e.store.Delete(context.Background(), store.KeyToken); err != nil {
		e.logger.Warn("failed to delete token", zap.Error(err))
	}
	e.events.Append("authorization required")
	e.notify(Update{AuthRequired: true, Paused: e.paused})
}
