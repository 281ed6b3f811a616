package signal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mossu/presenced/internal/calendar"
)

// Meeting lookahead window relative to now.
const (
	LookBehind = 5 * time.Minute
	LookAhead  = 2 * time.Hour
)

// CalendarSource polls the calendar provider for the events overlapping the
// lookahead window and emits a sample whenever the set changes. The selected
// calendar is read through selected on every poll; if that calendar no
// longer exists all calendars are queried instead.
type CalendarSource struct {
	provider calendar.Provider
	selected func(ctx context.Context) string
	interval time.Duration
	logger   *zap.Logger
}

func NewCalendarSource(provider calendar.Provider, selected func(ctx context.Context) string, interval time.Duration, logger *zap.Logger) *CalendarSource {
	if selected == nil {
		selected = func(context.Context) string { return "" }
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarSource{provider: provider, selected: selected, interval: interval, logger: logger}
}

func (s *CalendarSource) Kind() Kind { return KindCalendar }

func (s *CalendarSource) Run(ctx context.Context, emit func(Sample)) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var last string
	first := true
	for {
		events, err := s.query(ctx)
		if err != nil {
			s.logger.Warn("calendar query failed", zap.Error(err))
		} else if key := eventSetKey(events); first || key != last {
			first = false
			last = key
			emit(Sample{Kind: KindCalendar, At: time.Now(), Events: events})
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *CalendarSource) query(ctx context.Context) ([]calendar.Event, error) {
	calendarID := s.selected(ctx)
	if calendarID != "" {
		known, err := s.provider.Calendars(ctx)
		if err == nil && !contains(known, calendarID) {
			s.logger.Warn("selected calendar no longer exists, querying all",
				zap.String("calendar", calendarID))
			calendarID = ""
		}
	}

	now := time.Now()
	return s.provider.EventsOverlapping(ctx, now.Add(-LookBehind), now.Add(LookAhead), calendarID)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// eventSetKey fingerprints an event set so unchanged polls stay quiet.
func eventSetKey(events []calendar.Event) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, fmt.Sprintf("%s/%d/%d", e.ID, e.Start.Unix(), e.End.Unix()))
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
