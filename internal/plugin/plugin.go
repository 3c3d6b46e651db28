// Package plugin registers the extension's host commands with the dispatcher.
package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/msanigar/heliutils/internal/command"
	"github.com/msanigar/heliutils/internal/dispatcher"
	"github.com/msanigar/heliutils/internal/hooks"
	"github.com/msanigar/heliutils/internal/influx"
	"github.com/msanigar/heliutils/internal/parser"
	"github.com/msanigar/heliutils/internal/settings"
	"github.com/msanigar/heliutils/internal/storage"
	"github.com/msanigar/heliutils/internal/util"
	"github.com/msanigar/heliutils/pkg/core"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// DefaultHistoryLimit is used by :HISTORY: when no limit is given.
const DefaultHistoryLimit = 20

// ErrNoHistory is returned by :HISTORY: for backends that keep no audit records.
var ErrNoHistory = errors.New("storage backend keeps no history")

// Notifier sends a callback function with data to the host.
type Notifier func(function string, data ...any) error

// PointWriter accepts custom metric points.
type PointWriter interface {
	WritePoint(*influxdb2_write.Point) error
}

// Dependencies holds everything the registered handlers need
type Dependencies struct {
	Store    *settings.Store
	Commands *command.Handler
	Hooks    *hooks.Service
	Parser   *parser.Parser
	Metrics  PointWriter
	Notify   Notifier
	Logger   *slog.Logger

	// StorageError is the reason the configured backend could not be used.
	StorageError error

	Version   string
	BuildDate string
}

// Plugin owns the handler set.
type Plugin struct {
	deps Dependencies
}

// InitResult is returned by :INIT:.
type InitResult struct {
	Command     string   `json:"command"`
	Permissions []string `json:"permissions"`
	Version     string   `json:"version"`
	Storage     string   `json:"storage"`
}

// HistoryResult is returned by :HISTORY:.
type HistoryResult struct {
	Changes []core.SettingsChange `json:"changes"`
	Drops   []core.CrateDrop      `json:"drops"`
}

// StatusResult is returned by :STATUS:.
type StatusResult struct {
	Version  string         `json:"version"`
	Storage  string         `json:"storage"`
	Settings core.Settings  `json:"settings"`
	Tracked  map[string]int `json:"tracked"`
}

// New creates a plugin. A nil Notify drops callbacks; a nil Logger uses the default.
func New(deps Dependencies) *Plugin {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Notify == nil {
		deps.Notify = func(string, ...any) error { return nil }
	}
	if deps.Parser == nil {
		deps.Parser = parser.NewParser(deps.Logger)
	}
	return &Plugin{deps: deps}
}

// RegisterHandlers registers every host command with d.
func (p *Plugin) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(":INIT:", p.handleInit)
	d.Register(":VERSION:", p.handleVersion)
	d.Register(":PERMISSIONS:", p.handlePermissions)
	d.Register(":SETTINGS:", p.handleSettings)
	d.Register(":RELOAD:", p.handleReload, dispatcher.Logged())
	d.Register(":STATUS:", p.handleStatus)
	d.Register(":HISTORY:", p.handleHistory)

	d.Register(":COMMAND:", p.handleCommand, dispatcher.Logged())
	d.Register(":ENTITY:SPAWNED:", p.handleEntitySpawned, dispatcher.Logged())
	d.Register(":ENTITY:DEATH:", p.handleEntityDeath, dispatcher.Logged())

	if p.deps.Metrics != nil {
		d.Register(":METRIC:", p.handleMetric, dispatcher.Buffered(1000))
	}
}

func (p *Plugin) handleInit(e dispatcher.Event) (any, error) {
	if err := p.deps.Notify(core.CallbackReady); err != nil {
		p.deps.Logger.Warn("Failed to send ready callback", "error", err)
	}

	backend := p.deps.Store.Backend().Name()
	var err error
	if p.deps.StorageError != nil {
		err = p.deps.Notify(core.CallbackStorageError, p.deps.StorageError.Error())
	} else {
		err = p.deps.Notify(core.CallbackStorageOK, backend)
	}
	if err != nil {
		p.deps.Logger.Warn("Failed to send storage callback", "error", err)
	}

	return InitResult{
		Command:     command.Name,
		Permissions: command.Permissions(),
		Version:     p.deps.Version,
		Storage:     backend,
	}, nil
}

func (p *Plugin) handleVersion(e dispatcher.Event) (any, error) {
	return []string{p.deps.Version, p.deps.BuildDate}, nil
}

func (p *Plugin) handlePermissions(e dispatcher.Event) (any, error) {
	return command.Permissions(), nil
}

func (p *Plugin) handleSettings(e dispatcher.Event) (any, error) {
	return p.deps.Store.Get(), nil
}

func (p *Plugin) handleReload(e dispatcher.Event) (any, error) {
	return p.deps.Store.Load(), nil
}

func (p *Plugin) handleStatus(e dispatcher.Event) (any, error) {
	tracked := map[string]int{}
	for _, k := range core.HelicopterKinds() {
		tracked[k.String()] = 0
	}
	if p.deps.Hooks != nil {
		for k, n := range p.deps.Hooks.EntityCache().CountByKind() {
			tracked[k.String()] = n
		}
	}
	return StatusResult{
		Version:  p.deps.Version,
		Storage:  p.deps.Store.Backend().Name(),
		Settings: p.deps.Store.Get(),
		Tracked:  tracked,
	}, nil
}

// handleHistory returns the newest audit records. Args: [limit?]
func (p *Plugin) handleHistory(e dispatcher.Event) (any, error) {
	limit := DefaultHistoryLimit
	if len(e.Args) > 0 {
		n, err := strconv.Atoi(util.CleanArg(e.Args[0]))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid history limit %q", e.Args[0])
		}
		limit = n
	}

	backend := p.deps.Store.Backend()
	auditor, ok := backend.(storage.Auditor)
	if !ok {
		return nil, fmt.Errorf("%s: %w", backend.Name(), ErrNoHistory)
	}
	changes, err := auditor.RecentChanges(limit)
	if err != nil {
		return nil, fmt.Errorf("reading settings changes: %w", err)
	}
	drops, err := auditor.RecentCrateDrops(limit)
	if err != nil {
		return nil, fmt.Errorf("reading crate drops: %w", err)
	}
	return HistoryResult{Changes: changes, Drops: drops}, nil
}

// handleCommand runs a chat or console command. Args: [playerJSON, tokens...]
// The reply is returned and also sent to the player through the callback.
func (p *Plugin) handleCommand(e dispatcher.Event) (any, error) {
	player, tokens, err := p.deps.Parser.ParseCommand(e.Args)
	if err != nil {
		return nil, err
	}

	reply := p.deps.Commands.Handle(player, tokens)
	if err := p.deps.Notify(core.CallbackReply, player.ID, reply.Text); err != nil {
		p.deps.Logger.Warn("Failed to send reply callback", "player", player.ID, "error", err)
	}
	return reply.Text, nil
}

func (p *Plugin) handleEntitySpawned(e dispatcher.Event) (any, error) {
	entity, err := p.deps.Parser.ParseEntity(e.Args)
	if err != nil {
		return nil, err
	}
	return p.deps.Hooks.OnEntitySpawned(entity)
}

func (p *Plugin) handleEntityDeath(e dispatcher.Event) (any, error) {
	entity, err := p.deps.Parser.ParseEntity(e.Args)
	if err != nil {
		return nil, err
	}
	return p.deps.Hooks.OnEntityDeath(entity)
}

// handleMetric writes a custom point sent by the host shim.
func (p *Plugin) handleMetric(e dispatcher.Event) (any, error) {
	point, err := influx.ProcessMetricData(e.Args, util.FixEscapeQuotes, util.TrimQuotes)
	if err != nil {
		return nil, err
	}
	return nil, p.deps.Metrics.WritePoint(point)
}
