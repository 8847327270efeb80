package track

import (
	"context"
	"fmt"
	"sync"

	"github.com/grigorel/gemcord/internal/core"
)

// Tracker is the in-memory tracked-thread set backed by the durable store.
// Threads on this list get a response to every message, mention or not.
type Tracker struct {
	mu   sync.RWMutex
	ids  map[string]bool
	repo core.ThreadsRepository
}

func NewTracker(repo core.ThreadsRepository) *Tracker {
	return &Tracker{
		ids:  make(map[string]bool),
		repo: repo,
	}
}

func (t *Tracker) Load(ctx context.Context) error {
	threads, err := t.repo.ListThreads(ctx)
	if err != nil {
		return fmt.Errorf("load tracked threads: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range threads {
		t.ids[id] = true
	}
	return nil
}

// Add records the thread in memory and persists the set. The in-memory add
// happens only after the write succeeds, so memory never runs ahead of disk.
func (t *Tracker) Add(ctx context.Context, threadID string) error {
	if err := t.repo.AddThread(ctx, threadID); err != nil {
		return fmt.Errorf("persist tracked thread: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids[threadID] = true
	return nil
}

func (t *Tracker) Contains(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ids[id]
}
