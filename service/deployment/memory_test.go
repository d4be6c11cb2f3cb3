package deployment

import (
	"context"
	"testing"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUpdateKeepsTerminalRecords(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec, err := m.Add(ctx, model.Deployment{RunID: 1, Status: model.DeploymentStatusPending})
	require.NoError(t, err)

	rec.Status = model.DeploymentStatusReady
	rec.Endpoint = "203.0.113.10:80"
	rec, err = m.Update(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, model.DeploymentStatusReady, rec.Status)

	// a terminal record is immutable; a retry is a new record
	rec.Status = model.DeploymentStatusFailed
	rec, err = m.Update(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, model.DeploymentStatusReady, rec.Status)
	assert.Equal(t, "203.0.113.10:80", rec.Endpoint)
}

func TestMemoryFindByRun(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Add(ctx, model.Deployment{RunID: 1, Environment: "local"})
	require.NoError(t, err)
	_, err = m.Add(ctx, model.Deployment{RunID: 2, Environment: "local"})
	require.NoError(t, err)
	_, err = m.Add(ctx, model.Deployment{RunID: 1, Environment: "development"})
	require.NoError(t, err)

	records, err := m.FindByRun(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "local", records[0].Environment)
	assert.Equal(t, "development", records[1].Environment)
}
