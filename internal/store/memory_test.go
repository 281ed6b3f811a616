package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Set(ctx, KeyToken, "xoxp-123"))
	value, err := st.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "xoxp-123", value)

	require.NoError(t, st.Delete(ctx, KeyToken))
	_, err = st.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, st.Delete(ctx, "never-set"))
}
