// Package settings holds the process-wide settings record and persists it
// through a storage backend.
package settings

import (
	"log/slog"
	"sync"

	"github.com/msanigar/heliutils/internal/storage"
	"github.com/msanigar/heliutils/pkg/core"
)

// Store is the single owner of the in-memory settings. All methods are safe
// for concurrent use; the host may call in from any thread.
type Store struct {
	backend storage.Backend
	log     *slog.Logger

	mu      sync.Mutex
	current core.Settings
}

// New creates a store holding the defaults until Load is called.
func New(backend storage.Backend, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		backend: backend,
		log:     log,
		current: core.DefaultSettings(),
	}
}

// Load reads the record from the backend. A missing or unreadable record is
// replaced with defaults, which are saved immediately. Load never fails.
func (s *Store) Load() core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.backend.LoadSettings()
	switch {
	case err == nil:
		s.current = loaded
	case storage.ShouldReset(err):
		s.log.Warn("Creating a new configuration file.", "backend", s.backend.Name(), "reason", err)
		s.current = core.DefaultSettings()
		if err := s.backend.SaveSettings(s.current); err != nil {
			s.log.Warn("Failed to save default configuration", "backend", s.backend.Name(), "error", err)
		}
	default:
		s.log.Error("Failed to load configuration, using defaults", "backend", s.backend.Name(), "error", err)
		s.current = core.DefaultSettings()
	}
	return s.current
}

// Save persists cfg and makes it current.
func (s *Store) Save(cfg core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = cfg
	return s.backend.SaveSettings(cfg)
}

// Get returns a copy of the current settings.
func (s *Store) Get() core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the in-memory settings without persisting.
func (s *Store) Set(cfg core.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = cfg
}

// Update applies fn to the current settings and persists the result.
// The in-memory change stands even when persisting fails; the error is
// returned for the caller to report.
func (s *Store) Update(fn func(*core.Settings)) (before, after core.Settings, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before = s.current
	after = before
	fn(&after)
	s.current = after
	return before, after, s.backend.SaveSettings(after)
}

// Backend returns the storage backend behind the store.
func (s *Store) Backend() storage.Backend {
	return s.backend
}
