// pkg/core/audit.go
package core

import "time"

// SettingsChange records one successful command mutation.
type SettingsChange struct {
	Time       time.Time      `json:"time"`
	PlayerID   string         `json:"playerId"`
	PlayerName string         `json:"playerName"`
	Action     string         `json:"action"`
	Kind       HelicopterKind `json:"kind"`
	Before     Settings       `json:"before"`
	After      Settings       `json:"after"`
}

// CrateDrop records the crates requested for one helicopter death.
type CrateDrop struct {
	Time     time.Time      `json:"time"`
	EntityID uint64         `json:"entityId"`
	Kind     HelicopterKind `json:"kind"`
	Prefab   string         `json:"prefab"`
	Count    int            `json:"count"`
	Position Vector3        `json:"position"`
}
