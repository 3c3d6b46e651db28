// Package command executes the "heliutils" chat and console command.
package command

import (
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/msanigar/heliutils/internal/lang"
	"github.com/msanigar/heliutils/internal/settings"
	"github.com/msanigar/heliutils/internal/util"
	"github.com/msanigar/heliutils/pkg/core"
)

// Name is the chat command handled here.
const Name = "heliutils"

// Permissions registered with the host.
const (
	PermSetHealth = "heliutils.sethealth"
	PermSetCrate  = "heliutils.setcrate"
)

// Actions.
const (
	ActionSetHealth = "sethealth"
	ActionSetCrates = "setcrates"
)

var errNotFinite = errors.New("value is not finite")

// Permissions returns every permission the command checks.
func Permissions() []string {
	return []string{PermSetHealth, PermSetCrate}
}

// Reply is the message sent back to the caller.
type Reply struct {
	ID   lang.MessageID `json:"id"`
	Text string         `json:"text"`
}

// ChangeRecorder receives an audit record for every applied change.
type ChangeRecorder interface {
	RecordSettingsChange(core.SettingsChange) error
}

// Handler validates and applies commands against a settings store.
type Handler struct {
	store     *settings.Store
	catalog   *lang.Catalog
	log       *slog.Logger
	recorders []ChangeRecorder

	now func() time.Time
}

// NewHandler creates a handler. Recorders are called in order after each change.
func NewHandler(store *settings.Store, catalog *lang.Catalog, log *slog.Logger, recorders ...ChangeRecorder) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		store:     store,
		catalog:   catalog,
		log:       log,
		recorders: recorders,
		now:       time.Now,
	}
}

// Handle runs one command. args are the tokens after the command name:
// action, helicopter type, value. Extra tokens are ignored.
func (h *Handler) Handle(player core.Player, args []string) Reply {
	if len(args) < 3 {
		return h.reply(player, lang.Usage)
	}

	// type is checked before action and permission
	kind, ok := core.ParseHelicopterKind(args[1])
	if !ok {
		return h.reply(player, lang.InvalidType)
	}

	switch action := strings.ToLower(strings.TrimSpace(args[0])); action {
	case ActionSetHealth:
		if !player.HasPermission(PermSetHealth) {
			return h.reply(player, lang.NoPermission)
		}
		v, err := parseHealth(args[2])
		if err != nil {
			h.log.Debug("Rejected health value", "player", player.ID, "value", args[2], "error", err)
			return h.reply(player, lang.InvalidValue)
		}
		h.apply(player, action, kind, func(s *core.Settings) { s.SetHealth(kind, v) })
		return h.reply(player, lang.HealthSet, kind.Label(), util.FormatFloat(v))

	case ActionSetCrates:
		if !player.HasPermission(PermSetCrate) {
			return h.reply(player, lang.NoPermission)
		}
		n, err := parseCrateCount(args[2])
		if err != nil {
			h.log.Debug("Rejected crate count", "player", player.ID, "value", args[2], "error", err)
			return h.reply(player, lang.InvalidValue)
		}
		h.apply(player, action, kind, func(s *core.Settings) { s.SetCrateCount(kind, n) })
		return h.reply(player, lang.CrateCountSet, kind.Label(), strconv.Itoa(n))

	default:
		return h.reply(player, lang.InvalidCommand)
	}
}

// apply mutates and persists the settings, then audits the change.
// A failed save keeps the in-memory value and is only logged.
func (h *Handler) apply(player core.Player, action string, kind core.HelicopterKind, fn func(*core.Settings)) {
	before, after, err := h.store.Update(fn)
	if err != nil {
		h.log.Warn("Failed to save configuration", "action", action, "kind", kind.String(), "error", err)
	}

	change := core.SettingsChange{
		Time:       h.now().UTC(),
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Action:     action,
		Kind:       kind,
		Before:     before,
		After:      after,
	}
	for _, r := range h.recorders {
		if err := r.RecordSettingsChange(change); err != nil {
			h.log.Warn("Failed to record settings change", "action", action, "error", err)
		}
	}

	h.log.Info("Settings changed",
		"player", player.ID,
		"action", action,
		"kind", kind.String())
}

func (h *Handler) reply(player core.Player, id lang.MessageID, args ...string) Reply {
	return Reply{ID: id, Text: h.catalog.Format(player.Language, id, args...)}
}

// parseHealth accepts any finite float, including zero and negatives.
func parseHealth(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// parseCrateCount accepts any 32-bit signed integer.
func parseCrateCount(s string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
