// pkg/core/helicopter.go
package core

import "strings"

// HelicopterKind selects which pair of settings fields an operation touches.
// The zero value is not a valid kind.
type HelicopterKind uint8

const (
	KindUnknown HelicopterKind = iota
	KindCH47
	KindPatrol
)

// HelicopterKinds lists every valid kind in display order.
func HelicopterKinds() []HelicopterKind {
	return []HelicopterKind{KindCH47, KindPatrol}
}

// entityTypes maps host entity type names to the kind they belong to.
// Subclasses reported by the host are listed explicitly.
var entityTypes = map[string]HelicopterKind{
	"CH47Helicopter":             KindCH47,
	"CH47HelicopterAIController": KindCH47,
	"PatrolHelicopter":           KindPatrol,
}

// ParseHelicopterKind resolves a command token ("ch47", "patrol") case-insensitively.
func ParseHelicopterKind(token string) (HelicopterKind, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "ch47":
		return KindCH47, true
	case "patrol":
		return KindPatrol, true
	default:
		return KindUnknown, false
	}
}

// KindForEntityType resolves a host entity type name.
func KindForEntityType(typeName string) (HelicopterKind, bool) {
	k, ok := entityTypes[strings.TrimSpace(typeName)]
	return k, ok
}

// Valid reports whether k is one of the known kinds.
func (k HelicopterKind) Valid() bool {
	return k == KindCH47 || k == KindPatrol
}

// String returns the command token for the kind.
func (k HelicopterKind) String() string {
	switch k {
	case KindCH47:
		return "ch47"
	case KindPatrol:
		return "patrol"
	default:
		return "unknown"
	}
}

// Label is the upper-cased token shown to players.
func (k HelicopterKind) Label() string {
	return strings.ToUpper(k.String())
}

// MarshalText encodes the kind as its command token.
func (k HelicopterKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a command token. Unrecognised tokens yield KindUnknown.
func (k *HelicopterKind) UnmarshalText(b []byte) error {
	*k, _ = ParseHelicopterKind(string(b))
	return nil
}
