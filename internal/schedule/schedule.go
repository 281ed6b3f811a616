package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mossu/presenced/internal/store"
)

// Weekday numbers follow the persisted convention: 1=Sunday ... 7=Saturday.

// Config holds the user's publish-window preferences: automatic status
// updates only go out on enabled weekdays during enabled hours.
type Config struct {
	EnabledDays  map[int]bool
	EnabledHours map[int]bool
}

func DefaultConfig() *Config {
	return &Config{
		EnabledDays:  daySet(2, 3, 4, 5, 6), // Mon-Fri
		EnabledHours: daySet(8, 9, 10, 11, 12, 13, 15, 16, 17, 18),
	}
}

func daySet(values ...int) map[int]bool {
	m := make(map[int]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// WeekdayNumber converts Go's 0=Sunday weekday to the persisted 1..7 scheme.
func WeekdayNumber(t time.Time) int {
	return int(t.Weekday()) + 1
}

// IsPublishWindow reports whether automatic updates are allowed at t.
// Callers must evaluate this fresh on every resolution attempt.
func (c *Config) IsPublishWindow(t time.Time) bool {
	return c.EnabledDays[WeekdayNumber(t)] && c.EnabledHours[t.Hour()]
}

func (c *Config) IsDayEnabled(weekday int) bool { return c.EnabledDays[weekday] }
func (c *Config) IsHourEnabled(hour int) bool   { return c.EnabledHours[hour] }

func (c *Config) ToggleDay(weekday int) {
	if c.EnabledDays[weekday] {
		delete(c.EnabledDays, weekday)
	} else {
		c.EnabledDays[weekday] = true
	}
}

func (c *Config) ToggleHour(hour int) {
	if c.EnabledHours[hour] {
		delete(c.EnabledHours, hour)
	} else {
		c.EnabledHours[hour] = true
	}
}

// Load reads persisted preferences, falling back to defaults for keys that
// were never written.
func Load(ctx context.Context, st store.Store) (*Config, error) {
	cfg := DefaultConfig()

	days, err := loadSet(ctx, st, store.KeyEnabledDays)
	if err != nil {
		return nil, err
	}
	if days != nil {
		cfg.EnabledDays = days
	}

	hours, err := loadSet(ctx, st, store.KeyEnabledHours)
	if err != nil {
		return nil, err
	}
	if hours != nil {
		cfg.EnabledHours = hours
	}
	return cfg, nil
}

// Save persists both sets. Stored as sorted JSON arrays.
func (c *Config) Save(ctx context.Context, st store.Store) error {
	if err := saveSet(ctx, st, store.KeyEnabledDays, c.EnabledDays); err != nil {
		return err
	}
	return saveSet(ctx, st, store.KeyEnabledHours, c.EnabledHours)
}

func loadSet(ctx context.Context, st store.Store, key string) (map[int]bool, error) {
	raw, err := st.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	var values []int
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return daySet(values...), nil
}

func saveSet(ctx context.Context, st store.Store, key string, set map[int]bool) error {
	values := make([]int, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Ints(values)
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := st.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
