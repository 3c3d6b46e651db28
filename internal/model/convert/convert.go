package convert

import (
	"encoding/json"

	"github.com/msanigar/heliutils/internal/model"
	"github.com/msanigar/heliutils/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// pointToVector3 restores a world position from a ground-plane point and elevation.
func pointToVector3(p geom.Point, elevation float64) core.Vector3 {
	coord, ok := p.Coordinates()
	if !ok {
		return core.Vector3{Y: elevation}
	}
	return core.Vector3{X: coord.XY.X, Y: elevation, Z: coord.XY.Y}
}

// SettingsToCore converts the settings row to core.Settings.
func SettingsToCore(s model.HeliSettings) core.Settings {
	return core.Settings{
		CH47Health:                 s.CH47Health,
		PatrolHelicopterHealth:     s.PatrolHelicopterHealth,
		CH47CrateCount:             s.CH47CrateCount,
		PatrolHelicopterCrateCount: s.PatrolHelicopterCrateCount,
	}
}

// SettingsChangeToCore converts an audit row back to core. Snapshots that fail
// to decode are left zero.
func SettingsChangeToCore(c model.SettingsChange) core.SettingsChange {
	kind, _ := core.ParseHelicopterKind(c.Kind)
	out := core.SettingsChange{
		Time:       c.Time,
		PlayerID:   c.PlayerID,
		PlayerName: c.PlayerName,
		Action:     c.Action,
		Kind:       kind,
	}
	if len(c.Before) > 0 {
		_ = json.Unmarshal(c.Before, &out.Before)
	}
	if len(c.After) > 0 {
		_ = json.Unmarshal(c.After, &out.After)
	}
	return out
}

// CrateDropToCore converts a crate drop row back to core.
func CrateDropToCore(d model.CrateDrop) core.CrateDrop {
	kind, _ := core.ParseHelicopterKind(d.Kind)
	return core.CrateDrop{
		Time:     d.Time,
		EntityID: d.EntityID,
		Kind:     kind,
		Prefab:   d.Prefab,
		Count:    d.Count,
		Position: pointToVector3(d.Position, d.Elevation),
	}
}
