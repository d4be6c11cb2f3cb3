package decision

import (
	"context"
	"testing"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRejectsSecondDecision(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	d, err := m.Add(ctx, model.Decision{RunID: 1, Environment: "production", Approved: true, ApprovedBy: model.DecisionByOperator})
	require.NoError(t, err)
	assert.NotZero(t, d.ID)

	_, err = m.Add(ctx, model.Decision{RunID: 1, Environment: "production", Approved: false})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrBadInput)

	// the first decision stays in place
	found, err := m.Find(ctx, 1, "production")
	require.NoError(t, err)
	assert.True(t, found.Approved)
}

func TestMemoryFindByRun(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Add(ctx, model.Decision{RunID: 1, Environment: "local", Approved: true})
	require.NoError(t, err)
	_, err = m.Add(ctx, model.Decision{RunID: 1, Environment: "development", Approved: true})
	require.NoError(t, err)
	_, err = m.Add(ctx, model.Decision{RunID: 2, Environment: "local", Approved: true})
	require.NoError(t, err)

	decisions, err := m.FindByRun(ctx, 1)
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	assert.Equal(t, "local", decisions[0].Environment)
	assert.Equal(t, "development", decisions[1].Environment)

	_, err = m.Find(ctx, 2, "production")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
