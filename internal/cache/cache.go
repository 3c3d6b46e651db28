package cache

import (
	"sync"
	"time"

	"github.com/msanigar/heliutils/pkg/core"
)

// TrackedEntity is a helicopter whose health was set on spawn.
type TrackedEntity struct {
	ID        uint64              `json:"id"`
	Kind      core.HelicopterKind `json:"kind"`
	Health    float64             `json:"health"`
	SpawnedAt time.Time           `json:"spawnedAt"`
}

// EntityCache remembers live helicopters between their spawn and death events,
// so a death reported without a usable type name still resolves its kind.
type EntityCache struct {
	m        sync.Mutex
	entities map[uint64]TrackedEntity
}

func NewEntityCache() *EntityCache {
	return &EntityCache{
		entities: make(map[uint64]TrackedEntity),
	}
}

func (c *EntityCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.entities = make(map[uint64]TrackedEntity)
}

func (c *EntityCache) Add(e TrackedEntity) {
	c.m.Lock()
	defer c.m.Unlock()
	c.entities[e.ID] = e
}

func (c *EntityCache) Get(id uint64) (TrackedEntity, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	e, ok := c.entities[id]
	return e, ok
}

// Remove deletes and returns the entity.
func (c *EntityCache) Remove(id uint64) (TrackedEntity, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	e, ok := c.entities[id]
	if ok {
		delete(c.entities, id)
	}
	return e, ok
}

func (c *EntityCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.entities)
}

// CountByKind returns how many tracked entities there are of each kind.
func (c *EntityCache) CountByKind() map[core.HelicopterKind]int {
	c.m.Lock()
	defer c.m.Unlock()
	out := make(map[core.HelicopterKind]int, 2)
	for _, e := range c.entities {
		out[e.Kind]++
	}
	return out
}
