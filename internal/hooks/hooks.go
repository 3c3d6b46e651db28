// Package hooks reacts to helicopter spawn and death events reported by the host.
package hooks

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msanigar/heliutils/internal/cache"
	"github.com/msanigar/heliutils/internal/settings"
	"github.com/msanigar/heliutils/pkg/core"
)

// Host performs entity mutations inside the game server.
type Host interface {
	InitializeHealth(entityID uint64, health, maxHealth float64) error
	SpawnEntity(prefab string, position core.Vector3, rotation core.Quaternion) error
}

// CrateRecorder receives one record per helicopter death that requested crates.
type CrateRecorder interface {
	RecordCrateDrop(core.CrateDrop) error
}

// HealthRecorder receives one record per spawn whose health was applied.
type HealthRecorder interface {
	RecordHealthApplied(entityID uint64, kind core.HelicopterKind, health float64, at time.Time) error
}

// Dependencies holds everything the hook service needs
type Dependencies struct {
	Store           *settings.Store
	Host            Host
	EntityCache     *cache.EntityCache
	Logger          *slog.Logger
	CrateRecorders  []CrateRecorder
	HealthRecorders []HealthRecorder
}

// Service applies the stored settings to helicopters as they spawn and die.
type Service struct {
	deps Dependencies
	now  func() time.Time
}

// NewService creates a hook service. A nil cache or logger is replaced with a default.
func NewService(deps Dependencies) *Service {
	if deps.EntityCache == nil {
		deps.EntityCache = cache.NewEntityCache()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps, now: time.Now}
}

// EntityCache returns the cache of live helicopters.
func (s *Service) EntityCache() *cache.EntityCache {
	return s.deps.EntityCache
}

// OnEntitySpawned sets current and max health of a CH47 or patrol helicopter
// to the stored value. It reports whether the entity was a helicopter.
func (s *Service) OnEntitySpawned(e core.Entity) (bool, error) {
	kind, ok := core.KindForEntityType(e.Type)
	if !ok {
		return false, nil
	}

	health := s.deps.Store.Get().HealthOf(kind)
	if err := s.deps.Host.InitializeHealth(e.ID, health, health); err != nil {
		return true, fmt.Errorf("initializing health of %s %d: %w", kind, e.ID, err)
	}

	now := s.now().UTC()
	s.deps.EntityCache.Add(cache.TrackedEntity{
		ID:        e.ID,
		Kind:      kind,
		Health:    health,
		SpawnedAt: now,
	})

	for _, r := range s.deps.HealthRecorders {
		if err := r.RecordHealthApplied(e.ID, kind, health, now); err != nil {
			s.deps.Logger.Warn("Failed to record applied health", "entityId", e.ID, "error", err)
		}
	}

	s.deps.Logger.Debug("Applied helicopter health",
		"entityId", e.ID,
		"kind", kind.String(),
		"health", health)
	return true, nil
}

// OnEntityDeath requests the stored number of crates at the position of a
// dead helicopter. A type name that does not resolve falls back to the kind
// remembered at spawn. Every crate is attempted; spawn failures are joined.
// It returns the number of crates requested.
func (s *Service) OnEntityDeath(e core.Entity) (int, error) {
	tracked, wasTracked := s.deps.EntityCache.Remove(e.ID)

	kind, ok := core.KindForEntityType(e.Type)
	if !ok {
		if !wasTracked {
			return 0, nil
		}
		kind = tracked.Kind
	}

	count := s.deps.Store.Get().CrateCountOf(kind)
	if count <= 0 {
		s.deps.Logger.Debug("No crates configured", "entityId", e.ID, "kind", kind.String(), "count", count)
		return 0, nil
	}

	var errs []error
	for i := 0; i < count; i++ {
		if err := s.deps.Host.SpawnEntity(core.CratePrefab, e.Position, core.IdentityRotation); err != nil {
			errs = append(errs, fmt.Errorf("crate %d: %w", i+1, err))
		}
	}

	drop := core.CrateDrop{
		Time:     s.now().UTC(),
		EntityID: e.ID,
		Kind:     kind,
		Prefab:   core.CratePrefab,
		Count:    count,
		Position: e.Position,
	}
	for _, r := range s.deps.CrateRecorders {
		if err := r.RecordCrateDrop(drop); err != nil {
			s.deps.Logger.Warn("Failed to record crate drop", "entityId", e.ID, "error", err)
		}
	}

	s.deps.Logger.Debug("Requested crates",
		"entityId", e.ID,
		"kind", kind.String(),
		"count", count,
		"failed", len(errs))
	return count, errors.Join(errs...)
}
