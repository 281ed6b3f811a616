package signal

import (
	"context"
	"time"

	"github.com/mossu/presenced/internal/office"
)

// StaticLocationSource emits a single configured fix. A daemon host does not
// move; richer location streams plug in through the same Source interface.
type StaticLocationSource struct {
	location office.Location
}

func NewStaticLocationSource(location office.Location) *StaticLocationSource {
	return &StaticLocationSource{location: location}
}

func (s *StaticLocationSource) Kind() Kind { return KindLocation }

func (s *StaticLocationSource) Run(ctx context.Context, emit func(Sample)) {
	loc := s.location
	emit(Sample{Kind: KindLocation, At: time.Now(), Location: &loc})
	<-ctx.Done()
}
