package sqlitestorage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/msanigar/heliutils/internal/storage"
	"github.com/msanigar/heliutils/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.Backend = (*Backend)(nil)

func TestBackend_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heliutils.db")

	b := New(Config{Path: path}, zerolog.Nop(), nil)
	require.NoError(t, b.Init())
	assert.Equal(t, "sqlite", b.Name())

	_, err := b.LoadSettings()
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	s := core.DefaultSettings()
	s.SetHealth(core.KindPatrol, 20000)
	require.NoError(t, b.SaveSettings(s))
	require.NoError(t, b.Close())

	reopened := New(Config{Path: path}, zerolog.Nop(), nil)
	require.NoError(t, reopened.Init())
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestBackend_EmptyPath(t *testing.T) {
	b := New(Config{}, zerolog.Nop(), nil)
	assert.Error(t, b.Init())
}
