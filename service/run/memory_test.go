package run

import (
	"context"
	"testing"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFindOldestActive(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first, err := m.Add(ctx, model.Run{Status: model.RunStatusDone})
	require.NoError(t, err)
	second, err := m.Add(ctx, model.Run{Status: model.RunStatusPromoting})
	require.NoError(t, err)
	_, err = m.Add(ctx, model.Run{Status: model.RunStatusEnqueued})
	require.NoError(t, err)

	active, err := m.FindOldestActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	second.Status = model.RunStatusAborted
	_, err = m.Update(ctx, second)
	require.NoError(t, err)

	active, err = m.FindOldestActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), active.ID)

	// only the terminal run #1 and #2 remain after the last one finishes
	active.Status = model.RunStatusDone
	_, err = m.Update(ctx, active)
	require.NoError(t, err)
	_, err = m.FindOldestActive(ctx)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = m.FindByID(ctx, first.ID)
	assert.NoError(t, err)
	_, err = m.FindByID(ctx, 42)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemoryFindAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for i := 0; i < 3; i++ {
		_, err := m.Add(ctx, model.Run{Status: model.RunStatusEnqueued})
		require.NoError(t, err)
	}

	all, err := m.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(3), all[0].ID)
	assert.Equal(t, uint64(1), all[2].ID)
}
