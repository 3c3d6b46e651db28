package lang

import "fmt"

// MessageID identifies one reply template.
type MessageID uint8

const (
	NoPermission MessageID = iota + 1
	InvalidValue
	HealthSet
	CrateCountSet
	Usage
	InvalidType
	InvalidCommand
)

var keys = map[MessageID]string{
	NoPermission:   "NoPermission",
	InvalidValue:   "InvalidValue",
	HealthSet:      "HealthSet",
	CrateCountSet:  "CrateCountSet",
	Usage:          "Usage",
	InvalidType:    "InvalidType",
	InvalidCommand: "InvalidCommand",
}

// English templates use positional placeholders {0}, {1}.
var english = map[MessageID]string{
	NoPermission:   "You do not have permission to use this command.",
	InvalidValue:   "Invalid value.",
	HealthSet:      "{0} helicopter health set to {1}.",
	CrateCountSet:  "{0} helicopter number of crates set to {1}.",
	Usage:          "Usage: /heliutils sethealth [type] [value] or /heliutils setcrates [type] [number]",
	InvalidType:    "Invalid helicopter type specified. Use 'ch47' or 'patrol'.",
	InvalidCommand: "Unknown command. Usage: /heliutils sethealth [type] [value] or /heliutils setcrates [type] [number]",
}

// MessageIDs returns every message identifier in declaration order.
func MessageIDs() []MessageID {
	return []MessageID{NoPermission, InvalidValue, HealthSet, CrateCountSet, Usage, InvalidType, InvalidCommand}
}

// Key returns the name used in language files.
func (id MessageID) Key() string {
	if k, ok := keys[id]; ok {
		return k
	}
	return fmt.Sprintf("MessageID(%d)", id)
}

func (id MessageID) String() string {
	return id.Key()
}

// EnglishTemplate returns the built-in template for id.
func EnglishTemplate(id MessageID) (string, bool) {
	t, ok := english[id]
	return t, ok
}
