package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// SettingsRowID is the primary key of the single settings row.
const SettingsRowID = 1

// DatabaseModels is the list of tables migrated by the gorm backends.
var DatabaseModels = []any{
	&HeliSettings{},
	&SettingsChange{},
	&CrateDrop{},
}

// HeliSettings is the persisted settings record. There is only ever one row.
type HeliSettings struct {
	ID                         uint      `json:"-" gorm:"primarykey"`
	UpdatedAt                  time.Time `json:"updatedAt"`
	CH47Health                 float64   `json:"CH47Health" gorm:"column:ch47_health"`
	PatrolHelicopterHealth     float64   `json:"PatrolHelicopterHealth" gorm:"column:patrol_helicopter_health"`
	CH47CrateCount             int       `json:"CH47CrateCount" gorm:"column:ch47_crate_count"`
	PatrolHelicopterCrateCount int       `json:"PatrolHelicopterCrateCount" gorm:"column:patrol_helicopter_crate_count"`
}

func (*HeliSettings) TableName() string {
	return "heli_settings"
}

// SettingsChange is one audited command mutation with full before/after snapshots.
type SettingsChange struct {
	ID         uint           `json:"id" gorm:"primarykey"`
	Time       time.Time      `json:"time" gorm:"index:idx_settings_change_time"`
	PlayerID   string         `json:"playerId" gorm:"size:64"`
	PlayerName string         `json:"playerName" gorm:"size:127"`
	Action     string         `json:"action" gorm:"size:16"`
	Kind       string         `json:"kind" gorm:"size:16"`
	Before     datatypes.JSON `json:"before"`
	After      datatypes.JSON `json:"after"`
}

func (*SettingsChange) TableName() string {
	return "settings_changes"
}

// CrateDrop records crates requested when a helicopter died.
// Position holds the ground plane (world x, world z); elevation is kept apart.
type CrateDrop struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	Time      time.Time  `json:"time" gorm:"index:idx_crate_drop_time"`
	EntityID  uint64     `json:"entityId" gorm:"index:idx_crate_drop_entity"`
	Kind      string     `json:"kind" gorm:"size:16"`
	Prefab    string     `json:"prefab" gorm:"size:255"`
	Count     int        `json:"count"`
	Position  geom.Point `json:"position"`
	Elevation float64    `json:"elevation"`
}

func (*CrateDrop) TableName() string {
	return "crate_drops"
}
