// Package sqlitestorage stores settings and audit records in a SQLite file.
// It wraps the GORM backend; the only SQLite-specific concern is opening the file.
package sqlitestorage

import (
	"log/slog"

	"github.com/msanigar/heliutils/internal/database"
	gormstorage "github.com/msanigar/heliutils/internal/storage/gorm"
	"github.com/rs/zerolog"

	"gorm.io/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path string
}

// Backend wraps the GORM backend for SQLite.
type Backend struct {
	*gormstorage.Backend
	mgr *database.Manager
}

// New creates a new SQLite storage backend. The file is opened by Init.
func New(cfg Config, dbLog zerolog.Logger, log *slog.Logger) *Backend {
	mgr := database.NewManager(dbLog)
	b := &Backend{mgr: mgr}
	b.Backend = gormstorage.New(gormstorage.Dependencies{
		Name:   "sqlite",
		Logger: log,
		Open: func() (*gorm.DB, error) {
			if err := mgr.ConnectSqlite(cfg.Path); err != nil {
				return nil, err
			}
			if err := mgr.Setup(); err != nil {
				mgr.Close()
				return nil, err
			}
			return mgr.DB, nil
		},
		Release: mgr.Close,
	})
	return b
}
