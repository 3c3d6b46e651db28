package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/msanigar/heliutils/internal/util"
	"github.com/msanigar/heliutils/pkg/core"
)

// ErrMissingArgs is returned when a host call carries fewer arguments than required.
var ErrMissingArgs = errors.New("missing arguments")

// parseUintFromFloat parses a string that may be an integer ("32") or float ("32.00") into uint64.
// Host scripting layers may serialize integral ids as floats.
func parseUintFromFloat(s string) (uint64, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(uint64(f)) {
		return 0, fmt.Errorf("parseUintFromFloat: %q is not a valid uint64", s)
	}
	return uint64(f), nil
}

// Parser provides pure []string -> core struct conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParsePlayer decodes the caller of a command from a JSON object.
// A missing id is an error; an empty name falls back to the id.
func (p *Parser) ParsePlayer(raw string) (core.Player, error) {
	var player core.Player
	raw = util.CleanArg(raw)
	if err := json.Unmarshal([]byte(raw), &player); err != nil {
		return player, fmt.Errorf("error unmarshalling player data: %w", err)
	}
	player.ID = strings.TrimSpace(player.ID)
	if player.ID == "" {
		return player, fmt.Errorf("player id is empty")
	}
	// only the console id grants the server flag; the host cannot set it
	player.IsServer = player.ID == core.ServerConsoleID
	if player.Name == "" {
		player.Name = player.ID
	}
	return player, nil
}

// ParseCommand splits a :COMMAND: call into the caller and the chat command tokens.
// data[0] is the player JSON; the rest are the tokens typed after "heliutils".
func (p *Parser) ParseCommand(data []string) (core.Player, []string, error) {
	if len(data) < 1 {
		return core.Player{}, nil, fmt.Errorf("command: %w", ErrMissingArgs)
	}
	player, err := p.ParsePlayer(data[0])
	if err != nil {
		return player, nil, err
	}
	tokens := util.CleanArgs(data[1:])

	p.logger.Debug("Parsed command",
		"playerId", player.ID,
		"tokens", len(tokens))
	return player, tokens, nil
}

// ParseEntity reads an entity from either a single JSON object or the
// positional form [id, type, x, y, z, prefab?].
func (p *Parser) ParseEntity(data []string) (core.Entity, error) {
	var entity core.Entity
	if len(data) == 0 {
		return entity, fmt.Errorf("entity: %w", ErrMissingArgs)
	}

	// fix received data
	data = util.CleanArgs(data)

	if len(data) == 1 && strings.HasPrefix(strings.TrimSpace(data[0]), "{") {
		if err := json.Unmarshal([]byte(data[0]), &entity); err != nil {
			return entity, fmt.Errorf("error unmarshalling entity data: %w", err)
		}
		entity.Type = strings.TrimSpace(entity.Type)
		return entity, nil
	}

	if len(data) < 5 {
		return entity, fmt.Errorf("entity needs id, type, x, y, z: %w", ErrMissingArgs)
	}

	id, err := parseUintFromFloat(data[0])
	if err != nil {
		return entity, fmt.Errorf("error converting entity id to uint: %w", err)
	}
	entity.ID = id
	entity.Type = strings.TrimSpace(data[1])

	coords := make([]float64, 3)
	for i, s := range data[2:5] {
		coords[i], err = strconv.ParseFloat(s, 64)
		if err != nil {
			return entity, fmt.Errorf("error converting position[%d] to float: %w", i, err)
		}
	}
	entity.Position = core.Vector3{X: coords[0], Y: coords[1], Z: coords[2]}

	if len(data) > 5 {
		entity.Prefab = data[5]
	}
	return entity, nil
}
