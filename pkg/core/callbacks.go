// pkg/core/callbacks.go
package core

// Callback functions the extension sends to the host shim.
const (
	CallbackReady        = ":EXT:READY:"
	CallbackReply        = ":REPLY:"
	CallbackEntityHealth = ":ENTITY:HEALTH:"
	CallbackEntitySpawn  = ":ENTITY:SPAWN:"
	CallbackStorageOK    = ":STORAGE:OK:"
	CallbackStorageError = ":STORAGE:ERROR:"
)
