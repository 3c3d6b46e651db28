package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/msanigar/heliutils/internal/config"
	"github.com/msanigar/heliutils/pkg/core"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func lineOf(p *influxdb2_write.Point) string {
	return strings.TrimSpace(influxdb2_write.PointToLineProtocol(p, time.Nanosecond))
}

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(config.InfluxConfig{Enabled: false}, zerolog.Nop(), "")
	err := m.Connect(context.Background())
	assert.True(t, errors.Is(err, ErrDisabled))

	// a manager that never connected drops points silently
	assert.NoError(t, m.RecordCrateDrop(core.CrateDrop{Kind: core.KindCH47}))
	assert.NoError(t, m.Close())
}

func TestConnect_UnreachableFallsBackToBackup(t *testing.T) {
	backup := filepath.Join(t.TempDir(), "heliutils_influx_backup.gz")
	m := NewManager(config.InfluxConfig{
		Enabled:  true,
		Protocol: "http",
		Host:     "127.0.0.1",
		Port:     "1",
		Org:      "heliutils",
		Bucket:   "heli_events",
	}, zerolog.Nop(), backup)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Connect(ctx))
	assert.False(t, m.IsValid)

	require.NoError(t, m.RecordHealthApplied(42, core.KindPatrol, 10000, at))
	require.NoError(t, m.Close())

	lines := readBackup(t, backup)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "health_applied,kind=patrol "))
}

func TestBackup_AppendsAcrossSessions(t *testing.T) {
	backup := filepath.Join(t.TempDir(), "backup.gz")

	for i := 0; i < 2; i++ {
		m := NewManager(config.InfluxConfig{}, zerolog.Nop(), backup)
		require.NoError(t, m.OpenBackup())
		require.NoError(t, m.RecordCrateDrop(core.CrateDrop{Time: at, Kind: core.KindCH47, Count: i + 1}))
		require.NoError(t, m.Close())
	}

	lines := readBackup(t, backup)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "count=1i")
	assert.Contains(t, lines[1], "count=2i")
}

func TestOpenBackup_NoPath(t *testing.T) {
	m := NewManager(config.InfluxConfig{}, zerolog.Nop(), "")
	assert.Error(t, m.OpenBackup())
}

func TestSettingsChangePoint(t *testing.T) {
	before := core.DefaultSettings()
	after := before
	after.SetHealth(core.KindCH47, 5000.5)

	line := lineOf(SettingsChangePoint(core.SettingsChange{
		Time:     at,
		PlayerID: "76561198000000001",
		Action:   "sethealth",
		Kind:     core.KindCH47,
		Before:   before,
		After:    after,
	}))
	assert.True(t, strings.HasPrefix(line, MeasurementSettingsChange+","))
	assert.Contains(t, line, "action=sethealth")
	assert.Contains(t, line, "kind=ch47")
	assert.Contains(t, line, "player_id=76561198000000001")
	assert.Contains(t, line, "after=5000.5")
	assert.Contains(t, line, "before=4000")
	assert.True(t, strings.HasSuffix(line, " "+strconv.FormatInt(at.UnixNano(), 10)))

	line = lineOf(SettingsChangePoint(core.SettingsChange{
		Time:   at,
		Action: "setcrates",
		Kind:   core.KindPatrol,
		Before: before,
		After:  core.Settings{PatrolHelicopterCrateCount: -2},
	}))
	assert.Contains(t, line, "before=4i")
	assert.Contains(t, line, "after=-2i")
}

func TestCrateDropPoint(t *testing.T) {
	line := lineOf(CrateDropPoint(core.CrateDrop{
		Time:     at,
		EntityID: 123,
		Kind:     core.KindPatrol,
		Count:    4,
		Position: core.Vector3{X: 1.5, Y: 2, Z: -3},
	}))
	assert.True(t, strings.HasPrefix(line, "crate_drop,kind=patrol "))
	assert.Contains(t, line, "count=4i")
	assert.Contains(t, line, `entity_id="123"`)
	assert.Contains(t, line, "x=1.5")
	assert.Contains(t, line, "z=-3")
}

func TestProcessMetricData(t *testing.T) {
	identity := func(s string) string { return s }
	trim := func(s string) string { return strings.Trim(s, `"`) }

	p, err := ProcessMetricData([]string{
		`"heli_population"`,
		`"tag::map::Procedural Map"`,
		`"field::int::ch47::2"`,
		`"field::float::avg_health::7500.5"`,
		`"field::string::note::ok"`,
		`"ignored"`,
	}, identity, trim)
	require.NoError(t, err)

	line := lineOf(p)
	assert.True(t, strings.HasPrefix(line, `heli_population,map=Procedural\ Map `))
	assert.Contains(t, line, "ch47=2i")
	assert.Contains(t, line, "avg_health=7500.5")
	assert.Contains(t, line, `note="ok"`)
}

func TestProcessMetricData_Errors(t *testing.T) {
	identity := func(s string) string { return s }

	_, err := ProcessMetricData(nil, identity, identity)
	assert.Error(t, err)

	_, err = ProcessMetricData([]string{"m", "field::int::n::abc"}, identity, identity)
	assert.Error(t, err)

	_, err = ProcessMetricData([]string{"m", "field::float::n::x"}, identity, identity)
	assert.Error(t, err)
}

func readBackup(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)

	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
