// Package monitor periodically reports the extension's state to a status file
// and the metrics sink.
package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/msanigar/heliutils/internal/cache"
	"github.com/msanigar/heliutils/internal/settings"
	"github.com/msanigar/heliutils/pkg/core"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementStatus is the measurement written on every tick.
const MeasurementStatus = "heliutils_status"

// PointWriter accepts status points.
type PointWriter interface {
	WritePoint(*influxdb2_write.Point) error
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Store       *settings.Store
	EntityCache *cache.EntityCache
	Metrics     PointWriter
	Logger      *slog.Logger

	// StatusPath is rewritten on every tick; empty disables the file.
	StatusPath string
	Interval   time.Duration
}

// Status is one snapshot of the extension state.
type Status struct {
	Time     time.Time      `json:"time"`
	Storage  string         `json:"storage"`
	Settings core.Settings  `json:"settings"`
	Tracked  map[string]int `json:"tracked"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.EntityCache == nil {
		deps.EntityCache = cache.NewEntityCache()
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Snapshot returns the current status.
func (s *Service) Snapshot() Status {
	tracked := make(map[string]int, 2)
	for _, k := range core.HelicopterKinds() {
		tracked[k.String()] = 0
	}
	for k, n := range s.deps.EntityCache.CountByKind() {
		tracked[k.String()] = n
	}
	return Status{
		Time:     time.Now().UTC(),
		Storage:  s.deps.Store.Backend().Name(),
		Settings: s.deps.Store.Get(),
		Tracked:  tracked,
	}
}

// StatusPoint builds the metrics point for a snapshot.
func StatusPoint(st Status) *influxdb2_write.Point {
	p := influxdb2_write.NewPointWithMeasurement(MeasurementStatus).
		AddTag("storage", st.Storage).
		AddField("ch47_health", st.Settings.CH47Health).
		AddField("patrol_health", st.Settings.PatrolHelicopterHealth).
		AddField("ch47_crates", int64(st.Settings.CH47CrateCount)).
		AddField("patrol_crates", int64(st.Settings.PatrolHelicopterCrateCount)).
		SetTime(st.Time)
	for kind, n := range st.Tracked {
		p.AddField("tracked_"+kind, int64(n))
	}
	return p
}

// Tick takes one snapshot and reports it.
func (s *Service) Tick() error {
	st := s.Snapshot()

	var errs []error
	if s.deps.StatusPath != "" {
		if err := writeStatusFile(s.deps.StatusPath, st); err != nil {
			errs = append(errs, err)
		}
	}
	if s.deps.Metrics != nil {
		if err := s.deps.Metrics.WritePoint(StatusPoint(st)); err != nil {
			errs = append(errs, fmt.Errorf("writing status point: %w", err))
		}
	}
	return errors.Join(errs...)
}

func writeStatusFile(path string, st Status) error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding status: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine. A non-positive interval is a no-op.
func (s *Service) Start() error {
	if s.deps.Interval <= 0 {
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Logger.Debug("Starting status monitor", "interval", s.deps.Interval)
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := s.Tick(); err != nil {
					s.deps.Logger.Warn("Status monitor tick failed", "error", err)
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and waits for the goroutine to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
