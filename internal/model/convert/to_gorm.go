// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"

	"github.com/msanigar/heliutils/internal/model"
	"github.com/msanigar/heliutils/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// vector3ToPoint projects a world position onto the ground plane (x, z).
func vector3ToPoint(v core.Vector3) geom.Point {
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: v.X, Y: v.Z}})
}

// settingsToJSON snapshots settings for an audit row.
func settingsToJSON(s core.Settings) datatypes.JSON {
	data, err := json.Marshal(s)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}

// CoreToSettings converts core.Settings to the single settings row.
func CoreToSettings(s core.Settings) model.HeliSettings {
	return model.HeliSettings{
		ID:                         model.SettingsRowID,
		CH47Health:                 s.CH47Health,
		PatrolHelicopterHealth:     s.PatrolHelicopterHealth,
		CH47CrateCount:             s.CH47CrateCount,
		PatrolHelicopterCrateCount: s.PatrolHelicopterCrateCount,
	}
}

// CoreToSettingsChange converts an audit record to its GORM row.
func CoreToSettingsChange(c core.SettingsChange) model.SettingsChange {
	return model.SettingsChange{
		Time:       c.Time,
		PlayerID:   c.PlayerID,
		PlayerName: c.PlayerName,
		Action:     c.Action,
		Kind:       c.Kind.String(),
		Before:     settingsToJSON(c.Before),
		After:      settingsToJSON(c.After),
	}
}

// CoreToCrateDrop converts a crate drop to its GORM row.
func CoreToCrateDrop(d core.CrateDrop) model.CrateDrop {
	return model.CrateDrop{
		Time:      d.Time,
		EntityID:  d.EntityID,
		Kind:      d.Kind.String(),
		Prefab:    d.Prefab,
		Count:     d.Count,
		Position:  vector3ToPoint(d.Position),
		Elevation: d.Position.Y,
	}
}
