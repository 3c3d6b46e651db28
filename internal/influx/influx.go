package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/msanigar/heliutils/internal/config"
	"github.com/msanigar/heliutils/pkg/core"
	"github.com/rs/zerolog"
)

// ErrDisabled is returned by Connect when influx.enabled is false.
var ErrDisabled = errors.New("influx disabled")

// Measurement names written by the extension.
const (
	MeasurementSettingsChange = "settings_change"
	MeasurementCrateDrop      = "crate_drop"
	MeasurementHealthApplied  = "health_applied"
)

// Manager handles InfluxDB connections and writes. When the server cannot be
// reached, points go to a gzip line-protocol backup file instead. A manager
// that was never connected drops every point.
type Manager struct {
	Client     influxdb2.Client
	Writer     influxdb2_api.WriteAPI
	IsValid    bool
	Logger     zerolog.Logger
	BackupPath string

	cfg config.InfluxConfig

	mu           sync.Mutex
	backupFile   *os.File
	backupWriter *gzip.Writer
}

// NewManager creates a new InfluxDB manager.
func NewManager(cfg config.InfluxConfig, log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		cfg:        cfg,
		Logger:     log,
		BackupPath: backupPath,
	}
}

// Connect establishes a connection to InfluxDB, falling back to the backup file.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		m.cfg.URL(),
		m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Err(err).Str("backupPath", m.BackupPath).
			Msg("InfluxDB unreachable, writing to backup file")
		return m.OpenBackup()
	}

	if err := m.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}
	m.createWriter()
	m.IsValid = true
	m.Logger.Info().Str("url", m.cfg.URL()).Str("bucket", m.cfg.Bucket).Msg("InfluxDB client initialized")
	return nil
}

// OpenBackup opens the gzip backup file for appending.
func (m *Manager) OpenBackup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backupWriter != nil {
		return nil
	}
	if m.BackupPath == "" {
		return fmt.Errorf("influx backup path not set")
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.backupWriter = gzip.NewWriter(file)
	return nil
}

func (m *Manager) setupOrganizationAndBucket(ctx context.Context) error {
	orgs := m.Client.OrganizationsAPI()

	org, err := orgs.FindOrganizationByName(ctx, m.cfg.Org)
	if err != nil {
		m.Logger.Info().Str("org", m.cfg.Org).Msg("Organization not found, creating")
		org, err = orgs.CreateOrganizationWithName(ctx, m.cfg.Org)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", m.cfg.Org).Msg("Error creating organization")
			return fmt.Errorf("creating influx org %s: %w", m.cfg.Org, err)
		}
	}

	if _, err := m.Client.BucketsAPI().FindBucketByName(ctx, m.cfg.Bucket); err != nil {
		m.Logger.Info().Str("bucket", m.cfg.Bucket).Msg("Bucket not found, creating")
		rule := domain.RetentionRuleTypeExpire
		_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, org, m.cfg.Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: 60 * 60 * 24 * 90, // 90 days
		})
		if err != nil {
			m.Logger.Error().Err(err).Str("bucket", m.cfg.Bucket).Msg("Error creating bucket")
			return fmt.Errorf("creating influx bucket %s: %w", m.cfg.Bucket, err)
		}
	}
	return nil
}

func (m *Manager) createWriter() {
	m.Writer = m.Client.WriteAPI(m.cfg.Org, m.cfg.Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", m.cfg.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}(m.Writer.Errors())
}

// WritePoint writes a point to InfluxDB or the backup file. It is a no-op
// when neither is available.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	if m.IsValid && m.Writer != nil {
		m.Writer.WritePoint(point)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backupWriter == nil {
		return nil
	}

	lineProtocol := strings.TrimRight(influxdb2_write.PointToLineProtocol(point, time.Nanosecond), "\n")
	if _, err := m.backupWriter.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// RecordSettingsChange writes one settings_change point.
func (m *Manager) RecordSettingsChange(c core.SettingsChange) error {
	return m.WritePoint(SettingsChangePoint(c))
}

// RecordCrateDrop writes one crate_drop point.
func (m *Manager) RecordCrateDrop(d core.CrateDrop) error {
	return m.WritePoint(CrateDropPoint(d))
}

// RecordHealthApplied writes one health_applied point.
func (m *Manager) RecordHealthApplied(entityID uint64, kind core.HelicopterKind, health float64, at time.Time) error {
	return m.WritePoint(HealthAppliedPoint(entityID, kind, health, at))
}

// Close flushes pending writes and closes the client and backup file.
func (m *Manager) Close() error {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	if m.backupWriter != nil {
		errs = append(errs, m.backupWriter.Close())
		m.backupWriter = nil
	}
	if m.backupFile != nil {
		errs = append(errs, m.backupFile.Close())
		m.backupFile = nil
	}
	return errors.Join(errs...)
}

// SettingsChangePoint builds the point for an audited command.
func SettingsChangePoint(c core.SettingsChange) *influxdb2_write.Point {
	p := influxdb2_write.NewPointWithMeasurement(MeasurementSettingsChange).
		AddTag("action", c.Action).
		AddTag("kind", c.Kind.String()).
		AddTag("player_id", c.PlayerID).
		SetTime(c.Time)
	switch c.Action {
	case "sethealth":
		p.AddField("before", c.Before.HealthOf(c.Kind))
		p.AddField("after", c.After.HealthOf(c.Kind))
	case "setcrates":
		p.AddField("before", int64(c.Before.CrateCountOf(c.Kind)))
		p.AddField("after", int64(c.After.CrateCountOf(c.Kind)))
	}
	return p
}

// CrateDropPoint builds the point for a helicopter death.
func CrateDropPoint(d core.CrateDrop) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement(MeasurementCrateDrop).
		AddTag("kind", d.Kind.String()).
		AddField("count", int64(d.Count)).
		AddField("entity_id", strconv.FormatUint(d.EntityID, 10)).
		AddField("x", d.Position.X).
		AddField("y", d.Position.Y).
		AddField("z", d.Position.Z).
		SetTime(d.Time)
}

// HealthAppliedPoint builds the point for a spawn whose health was set.
func HealthAppliedPoint(entityID uint64, kind core.HelicopterKind, health float64, at time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement(MeasurementHealthApplied).
		AddTag("kind", kind.String()).
		AddField("health", health).
		AddField("entity_id", strconv.FormatUint(entityID, 10)).
		SetTime(at)
}

// ProcessMetricData parses a custom metric sent by the host shim.
//
//	0 = measurement name
//	"tag::name::value" entries become tags
//	"field::type::name::value" entries become fields (type is string, int or float)
func ProcessMetricData(data []string, fixEscapeQuotes func(string) string, trimQuotes func(string) string) (*influxdb2_write.Point, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("metric needs a measurement name")
	}
	for i, v := range data {
		data[i] = fixEscapeQuotes(trimQuotes(v))
	}

	point := influxdb2_write.NewPointWithMeasurement(data[0])

	for _, tag := range data[1:] {
		if !strings.HasPrefix(tag, "tag::") {
			continue
		}
		parts := strings.Split(tag, "::")
		if len(parts) >= 3 {
			point.AddTag(parts[1], parts[2])
		}
	}

	for _, field := range data[1:] {
		if !strings.HasPrefix(field, "field::") {
			continue
		}
		parts := strings.Split(field, "::")
		if len(parts) < 4 {
			continue
		}
		fieldType, fieldName, fieldValue := parts[1], parts[2], parts[3]

		switch fieldType {
		case "string":
			point.AddField(fieldName, fieldValue)
		case "int":
			intVal, err := strconv.Atoi(fieldValue)
			if err != nil {
				return nil, fmt.Errorf("error converting field value '%s' to int: %w", fieldValue, err)
			}
			point.AddField(fieldName, intVal)
		case "float":
			floatVal, err := strconv.ParseFloat(fieldValue, 64)
			if err != nil {
				return nil, fmt.Errorf("error converting field value '%s' to float: %w", fieldValue, err)
			}
			point.AddField(fieldName, floatVal)
		}
	}

	point.SetTime(time.Now())
	return point, nil
}
