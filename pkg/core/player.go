// pkg/core/player.go
package core

import "slices"

// ServerConsoleID identifies commands typed into the server console.
const ServerConsoleID = "server_console"

// Player is the caller of a chat or console command.
// Permissions holds the plugin permissions the host reports as granted.
type Player struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Language    string   `json:"language"`
	Permissions []string `json:"permissions"`
	IsServer    bool     `json:"isServer"`
}

// ServerConsole returns the caller used for console commands. It holds every permission.
func ServerConsole() Player {
	return Player{ID: ServerConsoleID, Name: "Server", IsServer: true}
}

// HasPermission reports whether the player was granted perm.
func (p Player) HasPermission(perm string) bool {
	if p.IsServer {
		return true
	}
	return slices.Contains(p.Permissions, perm)
}
