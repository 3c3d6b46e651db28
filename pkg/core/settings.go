// pkg/core/settings.go
package core

// Default values written on first run.
const (
	DefaultCH47Health       float64 = 4000
	DefaultPatrolHealth     float64 = 10000
	DefaultCH47CrateCount   int     = 1
	DefaultPatrolCrateCount int     = 4
)

// Settings is the persisted plugin configuration.
// JSON keys match the HeliUtils.json file written by earlier releases.
type Settings struct {
	CH47Health                 float64 `json:"CH47Health" mapstructure:"CH47Health"`
	PatrolHelicopterHealth     float64 `json:"PatrolHelicopterHealth" mapstructure:"PatrolHelicopterHealth"`
	CH47CrateCount             int     `json:"CH47CrateCount" mapstructure:"CH47CrateCount"`
	PatrolHelicopterCrateCount int     `json:"PatrolHelicopterCrateCount" mapstructure:"PatrolHelicopterCrateCount"`
}

// DefaultSettings returns the first-run configuration.
func DefaultSettings() Settings {
	return Settings{
		CH47Health:                 DefaultCH47Health,
		PatrolHelicopterHealth:     DefaultPatrolHealth,
		CH47CrateCount:             DefaultCH47CrateCount,
		PatrolHelicopterCrateCount: DefaultPatrolCrateCount,
	}
}

// HealthOf returns the spawn health for kind, or 0 for an unknown kind.
func (s Settings) HealthOf(k HelicopterKind) float64 {
	switch k {
	case KindCH47:
		return s.CH47Health
	case KindPatrol:
		return s.PatrolHelicopterHealth
	default:
		return 0
	}
}

// CrateCountOf returns the number of crates dropped on death, or 0 for an unknown kind.
func (s Settings) CrateCountOf(k HelicopterKind) int {
	switch k {
	case KindCH47:
		return s.CH47CrateCount
	case KindPatrol:
		return s.PatrolHelicopterCrateCount
	default:
		return 0
	}
}

// SetHealth updates the spawn health for kind. Unknown kinds are ignored.
func (s *Settings) SetHealth(k HelicopterKind, v float64) {
	switch k {
	case KindCH47:
		s.CH47Health = v
	case KindPatrol:
		s.PatrolHelicopterHealth = v
	}
}

// SetCrateCount updates the crate count for kind. Unknown kinds are ignored.
func (s *Settings) SetCrateCount(k HelicopterKind, n int) {
	switch k {
	case KindCH47:
		s.CH47CrateCount = n
	case KindPatrol:
		s.PatrolHelicopterCrateCount = n
	}
}
