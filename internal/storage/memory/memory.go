// internal/storage/memory/memory.go
package memory

import (
	"slices"
	"sync"

	"github.com/msanigar/heliutils/internal/storage"
	"github.com/msanigar/heliutils/pkg/core"
)

// Backend keeps settings and audit records in process memory.
// Nothing survives a restart.
type Backend struct {
	settings *core.Settings
	changes  []core.SettingsChange
	drops    []core.CrateDrop
	saves    int

	// SaveErr, when set, is returned by SaveSettings.
	SaveErr error

	mu sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// Name returns "memory".
func (b *Backend) Name() string {
	return "memory"
}

// LoadSettings returns the last saved settings.
func (b *Backend) LoadSettings() (core.Settings, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.settings == nil {
		return core.Settings{}, storage.ErrNotFound
	}
	return *b.settings, nil
}

// SaveSettings replaces the stored settings.
func (b *Backend) SaveSettings(s core.Settings) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.SaveErr != nil {
		return b.SaveErr
	}
	b.settings = &s
	b.saves++
	return nil
}

// RecordSettingsChange appends an audit record.
func (b *Backend) RecordSettingsChange(c core.SettingsChange) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, c)
	return nil
}

// RecordCrateDrop appends a crate drop record.
func (b *Backend) RecordCrateDrop(d core.CrateDrop) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drops = append(b.drops, d)
	return nil
}

// RecentChanges returns up to limit changes, newest first. limit <= 0 returns all.
func (b *Backend) RecentChanges(limit int) ([]core.SettingsChange, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return newestFirst(b.changes, limit), nil
}

// RecentCrateDrops returns up to limit drops, newest first. limit <= 0 returns all.
func (b *Backend) RecentCrateDrops(limit int) ([]core.CrateDrop, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return newestFirst(b.drops, limit), nil
}

// SaveCount reports how many successful saves happened.
func (b *Backend) SaveCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.saves
}

func newestFirst[T any](in []T, limit int) []T {
	out := slices.Clone(in)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
