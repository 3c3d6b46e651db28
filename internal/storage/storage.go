// internal/storage/storage.go
package storage

import (
	"errors"

	"github.com/msanigar/heliutils/pkg/core"
)

// ErrNotFound is returned by LoadSettings when nothing has been stored yet.
var ErrNotFound = errors.New("settings not found")

// ErrCorrupt is returned by LoadSettings when stored settings cannot be decoded.
var ErrCorrupt = errors.New("settings unreadable")

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Settings record
	LoadSettings() (core.Settings, error)
	SaveSettings(s core.Settings) error

	// Audit records
	RecordSettingsChange(c core.SettingsChange) error
	RecordCrateDrop(d core.CrateDrop) error

	// Name identifies the backend in logs and replies.
	Name() string
}

// Auditor is an optional interface for backends that keep audit records and
// can return them, newest first.
type Auditor interface {
	RecentChanges(limit int) ([]core.SettingsChange, error)
	RecentCrateDrops(limit int) ([]core.CrateDrop, error)
}

// ShouldReset reports whether a LoadSettings error means the stored record
// should be replaced with defaults.
func ShouldReset(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorrupt)
}
