package deployment

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/beldeveloper/app-promoter/model"
)

// NewMemory creates a new instance of the in-memory deployment records store.
func NewMemory() *Memory {
	return &Memory{records: make(map[uint64]model.Deployment)}
}

// Memory implements the deployment records store in process memory.
type Memory struct {
	mux     sync.RWMutex
	lastID  uint64
	records map[uint64]model.Deployment
}

// Add saves a new deployment record.
func (m *Memory) Add(ctx context.Context, d model.Deployment) (model.Deployment, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.lastID++
	d.ID = m.lastID
	m.records[d.ID] = d
	return d, nil
}

// Update finalizes a pending deployment record. Terminal records stay untouched.
func (m *Memory) Update(ctx context.Context, d model.Deployment) (model.Deployment, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	old, ok := m.records[d.ID]
	if !ok {
		return d, fmt.Errorf("%w: deployment #%d", model.ErrNotFound, d.ID)
	}
	if old.Status != model.DeploymentStatusPending {
		return old, nil
	}
	m.records[d.ID] = d
	return d, nil
}

// FindByRun returns the deployment records of one promotion run in creation order.
func (m *Memory) FindByRun(ctx context.Context, runID uint64) ([]model.Deployment, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	res := make([]model.Deployment, 0)
	for _, d := range m.records {
		if d.RunID == runID {
			res = append(res, d)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// FindAll returns all deployment records, newest first.
func (m *Memory) FindAll(ctx context.Context) ([]model.Deployment, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	res := make([]model.Deployment, 0, len(m.records))
	for _, d := range m.records {
		res = append(res, d)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}
