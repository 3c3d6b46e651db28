// pkg/core/entity.go
package core

// CratePrefab is the loot container spawned when a helicopter dies.
const CratePrefab = "assets/prefabs/npc/patrol helicopter/heli_crate.prefab"

// Vector3 is a world position in game units. Y is up.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is a rotation as sent to the host.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// IdentityRotation is the no-rotation quaternion.
var IdentityRotation = Quaternion{W: 1}

// Entity is a host entity reported through a spawn or death event.
// ID is the host's network identifier.
type Entity struct {
	ID       uint64  `json:"id"`
	Type     string  `json:"type"`
	Prefab   string  `json:"prefab"`
	Position Vector3 `json:"position"`
}
