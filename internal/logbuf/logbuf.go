package logbuf

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultCapacity = 100

// Entry is one diagnostic event.
type Entry struct {
	Timestamp time.Time
	Message   string
}

// Log is a capped ring of diagnostic events. Entries beyond the capacity
// evict the oldest. Every append is mirrored to the structured logger.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	logger   *zap.Logger
	now      func() time.Time
}

func New(capacity int, logger *zap.Logger) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{capacity: capacity, logger: logger, now: time.Now}
}

func (l *Log) Append(message string) {
	l.mu.Lock()
	l.entries = append(l.entries, Entry{Timestamp: l.now(), Message: message})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
	l.mu.Unlock()

	l.logger.Info(message)
}

func (l *Log) Appendf(format string, args ...any) {
	l.Append(fmt.Sprintf(format, args...))
}

// Entries returns the retained entries, newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}
