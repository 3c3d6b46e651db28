package hostiface

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/msanigar/heliutils/internal/dispatcher"
)

// formatResponse renders a dispatcher result as the array the host shim parses:
// ["ok", <json>], ["ok"] or ["error", "<message>"].
func formatResponse(result any, err error) string {
	if err != nil {
		return `["error", ` + quote(err.Error()) + `]`
	}
	if result == nil {
		return `["ok"]`
	}
	b, mErr := json.Marshal(result)
	if mErr != nil {
		return `["error", ` + quote(fmt.Sprintf("encoding result: %v", mErr)) + `]`
	}
	return `["ok", ` + string(b) + `]`
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// dispatch routes one host call through the configured dispatcher.
func dispatch(command string, args []string) string {
	d := GetDispatcher()
	if d == nil || !d.HasHandler(command) {
		return formatResponse(nil, fmt.Errorf("no handler registered for %s", command))
	}

	result, err := d.Dispatch(dispatcher.Event{
		Command:   command,
		Args:      args,
		Timestamp: time.Now(),
	})
	return formatResponse(result, err)
}
