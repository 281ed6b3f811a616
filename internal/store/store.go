package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("key not found")

// Persisted configuration keys.
const (
	KeyToken            = "token"
	KeyHolidayEnd       = "holiday_end"
	KeyEnabledDays      = "enabled_days"
	KeyEnabledHours     = "enabled_hours"
	KeySelectedCalendar = "selected_calendar"
	KeyMeetingsEnabled  = "meetings_enabled"
)

// Store is the flat key-value persistence boundary for the engine: the auth
// token, holiday end date, schedule preferences and calendar selection all
// live behind it.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
