package gormstorage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/msanigar/heliutils/internal/database"
	"github.com/msanigar/heliutils/internal/storage"
	"github.com/msanigar/heliutils/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Compile-time interface checks
var (
	_ storage.Backend = (*Backend)(nil)
	_ storage.Auditor = (*Backend)(nil)
)

// newTestBackend creates a Backend on a temp-file SQLite database.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	mgr := database.NewManager(zerolog.Nop())
	require.NoError(t, mgr.ConnectSqlite(filepath.Join(t.TempDir(), "heli.db")))

	b := New(Dependencies{DB: mgr.DB, Name: "sqlite", Release: mgr.Close})
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })
	return b
}

func TestInit_NoDatabase(t *testing.T) {
	b := New(Dependencies{})
	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database configured")
}

func TestInit_OpenError(t *testing.T) {
	b := New(Dependencies{
		Name: "postgres",
		Open: func() (*gorm.DB, error) { return nil, errors.New("connection refused") },
	})
	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: connection refused")
}

func TestNotInitialized(t *testing.T) {
	b := New(Dependencies{Name: "sqlite"})
	_, err := b.LoadSettings()
	assert.Error(t, err)
	assert.Error(t, b.SaveSettings(core.DefaultSettings()))
	assert.Error(t, b.RecordCrateDrop(core.CrateDrop{}))
}

func TestLoadSettings_Empty(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.LoadSettings()
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestSaveSettings_UpsertsSingleRow(t *testing.T) {
	b := newTestBackend(t)

	first := core.DefaultSettings()
	require.NoError(t, b.SaveSettings(first))

	second := first
	second.SetHealth(core.KindCH47, 6500.25)
	second.SetCrateCount(core.KindPatrol, -2)
	require.NoError(t, b.SaveSettings(second))

	got, err := b.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, second, got)

	var rows int64
	require.NoError(t, b.DB().Table("heli_settings").Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestRecordSettingsChange_RecentChanges(t *testing.T) {
	b := newTestBackend(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	before := core.DefaultSettings()
	for i := 0; i < 3; i++ {
		after := before
		after.SetCrateCount(core.KindCH47, i+2)
		require.NoError(t, b.RecordSettingsChange(core.SettingsChange{
			Time:       base.Add(time.Duration(i) * time.Minute),
			PlayerID:   "76561198000000001",
			PlayerName: "pilot",
			Action:     "setcrates",
			Kind:       core.KindCH47,
			Before:     before,
			After:      after,
		}))
		before = after
	}

	got, err := b.RecentChanges(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].After.CH47CrateCount)
	assert.Equal(t, 3, got[0].Before.CH47CrateCount)
	assert.Equal(t, core.KindCH47, got[0].Kind)
	assert.True(t, got[0].Time.After(got[1].Time))

	all, err := b.RecentChanges(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordCrateDrop_RecentCrateDrops(t *testing.T) {
	b := newTestBackend(t)

	drop := core.CrateDrop{
		Time:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		EntityID: 9876543210,
		Kind:     core.KindPatrol,
		Prefab:   core.CratePrefab,
		Count:    4,
		Position: core.Vector3{X: -1200.5, Y: 85, Z: 640.75},
	}
	require.NoError(t, b.RecordCrateDrop(drop))

	got, err := b.RecentCrateDrops(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, drop.EntityID, got[0].EntityID)
	assert.Equal(t, drop.Kind, got[0].Kind)
	assert.Equal(t, drop.Count, got[0].Count)
	assert.Equal(t, drop.Position, got[0].Position)
	assert.True(t, drop.Time.Equal(got[0].Time))
}

func TestName(t *testing.T) {
	assert.Equal(t, "gorm", New(Dependencies{}).Name())
	assert.Equal(t, "postgres", New(Dependencies{Name: "postgres"}).Name())
}
