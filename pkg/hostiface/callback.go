package hostiface

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/msanigar/heliutils/pkg/core"
)

// ErrNoCallback is returned when data is sent before the host registered a callback.
var ErrNoCallback = errors.New("no callback registered")

// CallbackFunc delivers name, function and a JSON array of data to the host.
// A negative return value means the host rejected the call.
type CallbackFunc func(name, function, data string) int

// SetCallback installs the function used by WriteCallback.
func SetCallback(fn CallbackFunc) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.callback = fn
}

// HasCallback reports whether the host registered a callback.
func HasCallback() bool {
	Config.mu.RLock()
	defer Config.mu.RUnlock()
	return Config.callback != nil
}

// WriteCallback sends function with data encoded as one JSON array.
func WriteCallback(name, function string, data ...any) error {
	Config.mu.RLock()
	fn := Config.callback
	Config.mu.RUnlock()
	if fn == nil {
		return ErrNoCallback
	}

	if data == nil {
		data = []any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s callback: %w", function, err)
	}
	if rc := fn(name, function, string(payload)); rc < 0 {
		return fmt.Errorf("%s callback rejected by host (code %d)", function, rc)
	}
	return nil
}

// CallbackHost asks the host shim to mutate entities through the callback.
type CallbackHost struct {
	Name string
}

// InitializeHealth requests current and max health for an entity.
func (h CallbackHost) InitializeHealth(entityID uint64, health, maxHealth float64) error {
	return WriteCallback(h.Name, core.CallbackEntityHealth, entityID, health, maxHealth)
}

// SpawnEntity requests one entity spawn.
func (h CallbackHost) SpawnEntity(prefab string, position core.Vector3, rotation core.Quaternion) error {
	return WriteCallback(h.Name, core.CallbackEntitySpawn, prefab, position, rotation)
}
