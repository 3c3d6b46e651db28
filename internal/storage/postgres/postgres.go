// Package postgres stores settings and audit records in PostgreSQL through
// the GORM backend.
package postgres

import (
	"log/slog"

	"github.com/msanigar/heliutils/internal/config"
	"github.com/msanigar/heliutils/internal/database"
	gormstorage "github.com/msanigar/heliutils/internal/storage/gorm"
	"github.com/rs/zerolog"

	"gorm.io/gorm"
)

// Backend wraps the GORM backend for PostgreSQL.
type Backend struct {
	*gormstorage.Backend
	mgr *database.Manager
}

// New creates a new PostgreSQL storage backend. The connection is opened by Init.
func New(cfg config.DatabaseConfig, dbLog zerolog.Logger, log *slog.Logger) *Backend {
	mgr := database.NewManager(dbLog)
	b := &Backend{mgr: mgr}
	b.Backend = gormstorage.New(gormstorage.Dependencies{
		Name:   "postgres",
		Logger: log,
		Open: func() (*gorm.DB, error) {
			if err := mgr.ConnectPostgres(cfg); err != nil {
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
