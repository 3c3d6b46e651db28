// Package jsonfile stores the settings record as an indented JSON document,
// the format server owners edit by hand.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/msanigar/heliutils/internal/storage"
	"github.com/msanigar/heliutils/pkg/core"
	"github.com/spf13/viper"
)

// Backend reads and writes one settings file. It keeps no audit records.
type Backend struct {
	path string
	mu   sync.Mutex
}

// New creates a backend for the file at path.
func New(path string) *Backend {
	return &Backend{path: path}
}

// Init creates the parent directory.
func (b *Backend) Init() error {
	if b.path == "" {
		return fmt.Errorf("settings file path not set")
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	return nil
}

// Close is a no-op.
func (b *Backend) Close() error {
	return nil
}

// Name returns "json".
func (b *Backend) Name() string {
	return "json"
}

// Path returns the settings file location.
func (b *Backend) Path() string {
	return b.path
}

// LoadSettings reads the file. Keys are matched case-insensitively and
// missing keys take their default value.
func (b *Backend) LoadSettings() (core.Settings, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := os.Stat(b.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.Settings{}, fmt.Errorf("%s: %w", b.path, storage.ErrNotFound)
		}
		return core.Settings{}, fmt.Errorf("stat %s: %w", b.path, err)
	}

	v := viper.New()
	v.SetConfigFile(b.path)
	v.SetConfigType("json")

	d := core.DefaultSettings()
	v.SetDefault("CH47Health", d.CH47Health)
	v.SetDefault("PatrolHelicopterHealth", d.PatrolHelicopterHealth)
	v.SetDefault("CH47CrateCount", d.CH47CrateCount)
	v.SetDefault("PatrolHelicopterCrateCount", d.PatrolHelicopterCrateCount)

	if err := v.ReadInConfig(); err != nil {
		return core.Settings{}, fmt.Errorf("%w: %s: %v", storage.ErrCorrupt, b.path, err)
	}

	var s core.Settings
	if err := v.Unmarshal(&s); err != nil {
		return core.Settings{}, fmt.Errorf("%w: %s: %v", storage.ErrCorrupt, b.path, err)
	}
	return s, nil
}

// SaveSettings overwrites the file atomically.
func (b *Backend) SaveSettings(s core.Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", b.path, err)
	}
	return nil
}

// RecordSettingsChange is a no-op; the file holds only the current record.
func (b *Backend) RecordSettingsChange(core.SettingsChange) error {
	return nil
}

// RecordCrateDrop is a no-op.
func (b *Backend) RecordCrateDrop(core.CrateDrop) error {
	return nil
}
