package settings

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/msanigar/heliutils/internal/storage"
	"github.com/msanigar/heliutils/internal/storage/jsonfile"
	"github.com/msanigar/heliutils/internal/storage/memory"
	"github.com/msanigar/heliutils/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend wraps memory and fails loads with a fixed error.
type failingBackend struct {
	*memory.Backend
	loadErr error
}

func (f *failingBackend) LoadSettings() (core.Settings, error) {
	return core.Settings{}, f.loadErr
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestLoad_MissingCreatesDefaults(t *testing.T) {
	backend := memory.New()
	log, buf := testLogger()
	s := New(backend, log)

	got := s.Load()
	assert.Equal(t, core.DefaultSettings(), got)
	assert.Equal(t, 1, backend.SaveCount(), "defaults are written immediately")
	assert.Contains(t, buf.String(), "Creating a new configuration file.")

	stored, err := backend.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSettings(), stored)
}

func TestLoad_ExistingRecord(t *testing.T) {
	backend := memory.New()
	want := core.Settings{CH47Health: 1, PatrolHelicopterHealth: 2, CH47CrateCount: 3, PatrolHelicopterCrateCount: 4}
	require.NoError(t, backend.SaveSettings(want))

	s := New(backend, nil)
	assert.Equal(t, want, s.Load())
	assert.Equal(t, want, s.Get())
	assert.Equal(t, 1, backend.SaveCount(), "no extra save on a good load")
}

func TestLoad_CorruptFileIsReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "HeliUtils.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))
	backend := jsonfile.New(path)
	require.NoError(t, backend.Init())

	s := New(backend, nil)
	assert.Equal(t, core.DefaultSettings(), s.Load())

	reread, err := backend.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSettings(), reread)
}

func TestLoad_SaveDefaultsFailureIsOnlyLogged(t *testing.T) {
	backend := memory.New()
	backend.SaveErr = errors.New("read-only filesystem")
	log, buf := testLogger()

	s := New(backend, log)
	assert.Equal(t, core.DefaultSettings(), s.Load())
	assert.Contains(t, buf.String(), "read-only filesystem")
}

func TestLoad_BackendErrorKeepsDefaultsWithoutOverwrite(t *testing.T) {
	backend := &failingBackend{Backend: memory.New(), loadErr: errors.New("connection reset")}
	log, buf := testLogger()

	s := New(backend, log)
	assert.Equal(t, core.DefaultSettings(), s.Load())
	assert.Equal(t, 0, backend.SaveCount())
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestSave_RoundTripIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "HeliUtils.json")
	backend := jsonfile.New(path)
	require.NoError(t, backend.Init())
	s := New(backend, nil)

	cfg := core.Settings{CH47Health: 4200.75, PatrolHelicopterHealth: 0, CH47CrateCount: -1, PatrolHelicopterCrateCount: 12}
	require.NoError(t, s.Save(cfg))

	first := s.Load()
	require.NoError(t, s.Save(first))
	assert.Equal(t, first, s.Load())
	assert.Equal(t, cfg, first)
}

func TestSet_DoesNotPersist(t *testing.T) {
	backend := memory.New()
	s := New(backend, nil)

	s.Set(core.Settings{CH47Health: 1})
	assert.Equal(t, 1.0, s.Get().CH47Health)
	assert.Equal(t, 0, backend.SaveCount())
}

func TestUpdate(t *testing.T) {
	backend := memory.New()
	s := New(backend, nil)
	s.Load()

	before, after, err := s.Update(func(cfg *core.Settings) {
		cfg.SetHealth(core.KindCH47, 9999)
	})
	require.NoError(t, err)
	assert.Equal(t, core.DefaultCH47Health, before.CH47Health)
	assert.Equal(t, 9999.0, after.CH47Health)
	assert.Equal(t, after, s.Get())

	stored, _ := backend.LoadSettings()
	assert.Equal(t, after, stored)
}

func TestUpdate_SaveFailureKeepsInMemoryValue(t *testing.T) {
	backend := memory.New()
	s := New(backend, nil)
	backend.SaveErr = errors.New("disk full")

	_, after, err := s.Update(func(cfg *core.Settings) {
		cfg.SetCrateCount(core.KindPatrol, 8)
	})
	require.Error(t, err)
	assert.Equal(t, 8, after.PatrolHelicopterCrateCount)
	assert.Equal(t, 8, s.Get().PatrolHelicopterCrateCount)
}

func TestUpdate_Concurrent(t *testing.T) {
	s := New(memory.New(), nil)
	s.Load()

	var wg sync.WaitGroup
	for _i := 0; _i < 100; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = s.Update(func(cfg *core.Settings) {
				cfg.CH47CrateCount++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, core.DefaultCH47CrateCount+100, s.Get().CH47CrateCount)
}

func TestBackendAccessor(t *testing.T) {
	backend := memory.New()
	var b storage.Backend = backend
	assert.Same(t, backend, New(b, nil).Backend())
}
