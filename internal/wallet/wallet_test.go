package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(100)

	b, err := m.Balance(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 100, b)

	require.NoError(t, m.Apply(ctx, "a", "b", 30))

	b, err = m.Balance(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 70, b)

	b, err = m.Balance(ctx, "b")
	require.NoError(t, err)
	assert.EqualValues(t, 130, b)

	assert.ErrorIs(t, m.Apply(ctx, "a", "b", 71), ErrInsufficientFunds)

	m.Deposit("a", 1)
	require.NoError(t, m.Apply(ctx, "a", "b", 71))

	b, err = m.Balance(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, b)
}
