// Package hostiface is the boundary between the game server shim and the
// extension: the exported C entry points, reply formatting and the outbound
// callback.
package hostiface

import (
	"sync"

	"github.com/msanigar/heliutils/internal/dispatcher"
)

// configStruct is the central configuration used by this package
type configStruct struct {
	mu sync.RWMutex

	// version is returned by HeliUtilsExtensionVersion
	version string

	// dispatcher handles event routing
	dispatcher *dispatcher.Dispatcher

	// callback sends data back to the host; nil until the host registers one
	callback CallbackFunc
}

// Config defines how calls to this extension will be handled
var Config = &configStruct{version: "No version set"}

// SetVersion sets the version string returned to the host.
func SetVersion(version string) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.version = version
}

// Version returns the version string returned to the host.
func Version() string {
	Config.mu.RLock()
	defer Config.mu.RUnlock()
	return Config.version
}

// SetDispatcher sets the event dispatcher for handling commands
func SetDispatcher(d *dispatcher.Dispatcher) {
	Config.mu.Lock()
	defer Config.mu.Unlock()
	Config.dispatcher = d
}

// GetDispatcher returns the configured dispatcher, or nil if not set
func GetDispatcher() *dispatcher.Dispatcher {
	Config.mu.RLock()
	defer Config.mu.RUnlock()
	return Config.dispatcher
}
