package run

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/beldeveloper/app-promoter/model"
)

// NewMemory creates a new instance of the in-memory runs store. It backs the one-shot
// CLI mode, where the run does not outlive the process.
func NewMemory() *Memory {
	return &Memory{runs: make(map[uint64]model.Run)}
}

// Memory implements the runs store in process memory.
type Memory struct {
	mux    sync.RWMutex
	lastID uint64
	runs   map[uint64]model.Run
}

// Add saves a new promotion run.
func (m *Memory) Add(ctx context.Context, r model.Run) (model.Run, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.lastID++
	r.ID = m.lastID
	m.runs[r.ID] = r
	return r, nil
}

// Update modifies a specific promotion run.
func (m *Memory) Update(ctx context.Context, r model.Run) (model.Run, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.runs[r.ID]; !ok {
		return r, fmt.Errorf("%w: run #%d", model.ErrNotFound, r.ID)
	}
	m.runs[r.ID] = r
	return r, nil
}

// FindByID returns the one run with the specific ID.
func (m *Memory) FindByID(ctx context.Context, id uint64) (model.Run, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return r, model.ErrNotFound
	}
	return r, nil
}

// FindAll returns all runs, newest first.
func (m *Memory) FindAll(ctx context.Context) ([]model.Run, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	res := make([]model.Run, 0, len(m.runs))
	for _, r := range m.runs {
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

// FindOldestActive returns the non-terminal run that was started first.
func (m *Memory) FindOldestActive(ctx context.Context) (model.Run, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	var res model.Run
	var found bool
	for _, r := range m.runs {
		if r.Terminal() {
			continue
		}
		if !found || r.ID < res.ID {
			res = r
			found = true
		}
	}
	if !found {
		return res, model.ErrNotFound
	}
	return res, nil
}
