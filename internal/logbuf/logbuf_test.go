package logbuf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_CapsEntries(t *testing.T) {
	l := New(3, nil)

	for i := 0; i < 5; i++ {
		l.Append(fmt.Sprintf("entry %d", i))
	}

	entries := l.Entries()
	require.Len(t, entries, 3)
	// Newest first, oldest evicted.
	assert.Equal(t, "entry 4", entries[0].Message)
	assert.Equal(t, "entry 2", entries[2].Message)
}

func TestLog_Appendf(t *testing.T) {
	l := New(10, nil)

	l.Appendf("resolved %q", "en remoto")

	entries := l.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, `resolved "en remoto"`, entries[0].Message)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestLog_DefaultCapacity(t *testing.T) {
	l := New(0, nil)

	for i := 0; i < DefaultCapacity+10; i++ {
		l.Append("x")
	}

	assert.Len(t, l.Entries(), DefaultCapacity)
}
