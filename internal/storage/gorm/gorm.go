// Package gormstorage implements the storage.Backend interface on top of GORM.
// The sqlite and postgres packages wrap it with their own connection setup.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msanigar/heliutils/internal/model"
	"github.com/msanigar/heliutils/internal/model/convert"
	"github.com/msanigar/heliutils/internal/storage"
	"github.com/msanigar/heliutils/pkg/core"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	// DB is used as-is when set; Init only migrates it.
	DB *gorm.DB
	// Open connects and migrates when DB is nil.
	Open func() (*gorm.DB, error)
	// Release closes whatever Open created.
	Release func() error
	Name    string
	Logger  *slog.Logger
}

// Backend implements storage.Backend using GORM.
type Backend struct {
	deps Dependencies
	db   *gorm.DB
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Name == "" {
		deps.Name = "gorm"
	}
	return &Backend{deps: deps}
}

// Init connects if needed and migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB != nil {
		if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
		b.db = b.deps.DB
		return nil
	}
	if b.deps.Open == nil {
		return fmt.Errorf("%s: no database configured", b.deps.Name)
	}
	db, err := b.deps.Open()
	if err != nil {
		return fmt.Errorf("%s: %w", b.deps.Name, err)
	}
	b.db = db
	b.deps.Logger.Debug("storage ready", "backend", b.deps.Name)
	return nil
}

// Close releases the connection opened by Init.
func (b *Backend) Close() error {
	b.db = nil
	if b.deps.Release != nil {
		return b.deps.Release()
	}
	return nil
}

// Name returns the configured backend name.
func (b *Backend) Name() string {
	return b.deps.Name
}

// DB exposes the connection for tests and maintenance.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

func (b *Backend) conn() (*gorm.DB, error) {
	if b.db == nil {
		return nil, fmt.Errorf("%s: not initialized", b.deps.Name)
	}
	return b.db, nil
}

// LoadSettings reads the single settings row.
func (b *Backend) LoadSettings() (core.Settings, error) {
	db, err := b.conn()
	if err != nil {
		return core.Settings{}, err
	}

	var row model.HeliSettings
	err = db.First(&row, model.SettingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Settings{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return convert.SettingsToCore(row), nil
}

// SaveSettings upserts the single settings row.
func (b *Backend) SaveSettings(s core.Settings) error {
	db, err := b.conn()
	if err != nil {
		return err
	}

	row := convert.CoreToSettings(s)
	row.UpdatedAt = time.Now().UTC()
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// RecordSettingsChange inserts an audit row.
func (b *Backend) RecordSettingsChange(c core.SettingsChange) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	row := convert.CoreToSettingsChange(c)
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("recording settings change: %w", err)
	}
	return nil
}

// RecordCrateDrop inserts a crate drop row.
func (b *Backend) RecordCrateDrop(d core.CrateDrop) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	row := convert.CoreToCrateDrop(d)
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("recording crate drop: %w", err)
	}
	return nil
}

// RecentChanges returns up to limit changes, newest first. limit <= 0 returns all.
func (b *Backend) RecentChanges(limit int) ([]core.SettingsChange, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	var rows []model.SettingsChange
	q := db.Order("time desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing settings changes: %w", err)
	}

	out := make([]core.SettingsChange, len(rows))
	for i, r := range rows {
		out[i] = convert.SettingsChangeToCore(r)
	}
	return out, nil
}

// RecentCrateDrops returns up to limit drops, newest first. limit <= 0 returns all.
func (b *Backend) RecentCrateDrops(limit int) ([]core.CrateDrop, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	var rows []model.CrateDrop
	q := db.Order("time desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing crate drops: %w", err)
	}

	out := make([]core.CrateDrop, len(rows))
	for i, r := range rows {
		out[i] = convert.CrateDropToCore(r)
	}
	return out, nil
}
