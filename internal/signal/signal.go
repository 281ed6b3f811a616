package signal

import (
	"context"
	"time"

	"github.com/mossu/presenced/internal/calendar"
	"github.com/mossu/presenced/internal/office"
)

// Kind identifies the variant of a signal sample.
type Kind int

const (
	KindNetwork Kind = iota
	KindLocation
	KindConnectivity
	KindCalendar
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindLocation:
		return "location"
	case KindConnectivity:
		return "connectivity"
	case KindCalendar:
		return "calendar"
	default:
		return "unknown"
	}
}

// Sample is one observed fact. Which payload field is meaningful depends on
// the kind.
type Sample struct {
	Kind Kind
	At   time.Time

	SSID     string
	Location *office.Location
	Online   bool
	Events   []calendar.Event
}

// Source produces samples until its context is canceled. Sources deliver
// asynchronously; the engine marshals every sample onto its serial loop
// before touching state.
type Source interface {
	Kind() Kind
	Run(ctx context.Context, emit func(Sample))
}

// DisplayFunc reports whether a display is active. Signal-driven publishes
// are deferred while no display is awake, so the engine never publishes
// blind from a lid-closed machine.
type DisplayFunc func() bool

// AlwaysDisplay is the headless default.
func AlwaysDisplay() bool { return true }
