package decision

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/beldeveloper/app-promoter/model"
)

// NewMemory creates a new instance of the in-memory decisions store.
func NewMemory() *Memory {
	return &Memory{decisions: make(map[string]model.Decision)}
}

// Memory implements the decisions store in process memory.
type Memory struct {
	mux       sync.RWMutex
	lastID    uint64
	decisions map[string]model.Decision
}

// Add saves a new gate decision. A second decision for the same gate is rejected.
func (m *Memory) Add(ctx context.Context, d model.Decision) (model.Decision, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	key := m.key(d.RunID, d.Environment)
	if _, ok := m.decisions[key]; ok {
		return d, fmt.Errorf("%w: the gate of run #%d at %s is already decided", model.ErrBadInput, d.RunID, d.Environment)
	}
	m.lastID++
	d.ID = m.lastID
	m.decisions[key] = d
	return d, nil
}

// Find returns the decision of one gate of one run.
func (m *Memory) Find(ctx context.Context, runID uint64, environment string) (model.Decision, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	d, ok := m.decisions[m.key(runID, environment)]
	if !ok {
		return d, model.ErrNotFound
	}
	return d, nil
}

// FindByRun returns all gate decisions of one run in creation order.
func (m *Memory) FindByRun(ctx context.Context, runID uint64) ([]model.Decision, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	res := make([]model.Decision, 0)
	for _, d := range m.decisions {
		if d.RunID == runID {
			res = append(res, d)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *Memory) key(runID uint64, environment string) string {
	return fmt.Sprintf("%d_%s", runID, environment)
}
