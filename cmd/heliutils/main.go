package main

/*
#include <stdlib.h>
*/
import "C" // This is required to build the c-shared library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/msanigar/heliutils/internal/cache"
	"github.com/msanigar/heliutils/internal/command"
	"github.com/msanigar/heliutils/internal/config"
	"github.com/msanigar/heliutils/internal/dispatcher"
	"github.com/msanigar/heliutils/internal/hooks"
	"github.com/msanigar/heliutils/internal/influx"
	"github.com/msanigar/heliutils/internal/lang"
	"github.com/msanigar/heliutils/internal/logging"
	"github.com/msanigar/heliutils/internal/monitor"
	"github.com/msanigar/heliutils/internal/parser"
	"github.com/msanigar/heliutils/internal/plugin"
	"github.com/msanigar/heliutils/internal/settings"
	"github.com/msanigar/heliutils/internal/storage"
	"github.com/msanigar/heliutils/pkg/core"
	"github.com/msanigar/heliutils/pkg/hostiface"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentExtensionVersion string = "0.1.0"
	BuildDate               string = "unknown"

	ExtensionName string = "heliutils"
)

// file paths
var (
	// ModulePath is the absolute path to this library file, or the executable in console mode.
	ModulePath string

	// ModuleFolder is the parent folder of ModulePath. The config file, settings
	// file and lang directory are resolved against it.
	ModuleFolder string

	LogFilePath string
	LogFile     *os.File
)

// global variables
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// DBLogger is handed to the database and influx managers
	DBLogger zerolog.Logger = zerolog.Nop()

	SessionStartTime time.Time = time.Now()

	// closers run in reverse order on shutdown
	closers []io.Closer

	// Services
	storageBackend  storage.Backend
	storageErr      error
	settingsStore   *settings.Store
	catalog         *lang.Catalog
	influxManager   *influx.Manager
	commandHandler  *command.Handler
	hookService     *hooks.Service
	monitorService  *monitor.Service
	eventDispatcher *dispatcher.Dispatcher
)

// init is run automatically when the module is loaded
func init() {
	ModulePath = hostiface.GetModulePath()
	if ModulePath == "" {
		ModulePath, _ = os.Executable()
	}
	ModuleFolder = filepath.Dir(ModulePath)

	// stdout until the log file exists
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info")
	Logger = SlogManager.Logger()

	if err := config.Load(ModuleFolder); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	setupLogging()

	if err := setupExtension(); err != nil {
		Logger.Error("Failed to set up extension!", "error", err)
		return
	}
	Logger.Info("Extension ready", "version", CurrentExtensionVersion, "storage", storageBackend.Name())
}

// resolvePath makes p absolute relative to the module folder.
func resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(ModuleFolder, p)
}

func setupLogging() {
	level := viper.GetString("logLevel")
	logsDir := resolvePath(viper.GetString("logsDir"))

	LogFilePath = logging.LogFilePath(logsDir, ExtensionName, SessionStartTime)

	var err error
	LogFile, err = logging.OpenLogFile(LogFilePath)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
		LogFile = nil
	}

	var extra []slog.Handler
	if gc := config.GetGraylogConfig(); gc.Enabled {
		handler, writer, err := logging.NewGraylogHandler(gc.Address, level)
		if err != nil {
			Logger.Error("Failed to set up Graylog output", "error", err, "address", gc.Address)
		} else {
			extra = append(extra, handler)
			closers = append(closers, writer)
		}
	}

	SlogManager.ContextProvider = func() []slog.Attr {
		if storageBackend == nil {
			return nil
		}
		return []slog.Attr{slog.String("storage", storageBackend.Name())}
	}

	var out io.Writer = os.Stdout
	if LogFile != nil {
		out = LogFile
		closers = append(closers, LogFile)
		SlogManager.Setup(LogFile, level, extra...)
	} else {
		SlogManager.Setup(nil, level, extra...)
	}
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath)

	zlevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zlevel = zerolog.InfoLevel
	}
	DBLogger = zerolog.New(out).Level(zlevel).With().Timestamp().Str("extension", ExtensionName).Logger()
}

func setupExtension() error {
	initStorage()

	settingsStore = settings.New(storageBackend, Logger)
	settingsStore.Load()

	var err error
	catalog, err = lang.New()
	if err != nil {
		return fmt.Errorf("failed to create message catalog: %w", err)
	}
	langDir := resolvePath(viper.GetString("lang.dir"))
	if err := catalog.LoadDir(langDir); err != nil {
		Logger.Warn("Failed to load some language files", "error", err, "dir", langDir)
	}
	Logger.Debug("Loaded languages", "locales", catalog.Locales())

	setupInflux()

	commandHandler = command.NewHandler(settingsStore, catalog, Logger, storageBackend, influxManager)
	hookService = hooks.NewService(hooks.Dependencies{
		Store:           settingsStore,
		Host:            hostiface.CallbackHost{Name: ExtensionName},
		EntityCache:     cache.NewEntityCache(),
		Logger:          Logger,
		CrateRecorders:  []hooks.CrateRecorder{storageBackend, influxManager},
		HealthRecorders: []hooks.HealthRecorder{influxManager},
	})

	if err := setupHostInterface(); err != nil {
		return err
	}

	mc := config.GetMonitorConfig()
	monitorService = monitor.NewService(monitor.Dependencies{
		Store:       settingsStore,
		EntityCache: hookService.EntityCache(),
		Metrics:     influxManager,
		Logger:      Logger,
		StatusPath:  resolvePath(mc.StatusFile),
		Interval:    mc.Interval,
	})
	return monitorService.Start()
}

func setupInflux() {
	backupPath := filepath.Join(
		resolvePath(viper.GetString("logsDir")),
		fmt.Sprintf("%s_influx.%s.lp.gz", ExtensionName, SessionStartTime.Format("20060102_150405")),
	)
	influxManager = influx.NewManager(config.GetInfluxConfig(), DBLogger, backupPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := influxManager.Connect(ctx)
	switch {
	case errors.Is(err, influx.ErrDisabled):
		Logger.Debug("InfluxDB disabled")
	case err != nil:
		Logger.Warn("Failed to connect to InfluxDB", "error", err)
	}
	closers = append(closers, influxManager)
}

func setupHostInterface() error {
	hostiface.SetVersion(CurrentExtensionVersion)

	dispatcherLogger := logging.NewDispatcherLogger(Logger)
	d, err := dispatcher.New(dispatcherLogger)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	plugin.New(plugin.Dependencies{
		Store:        settingsStore,
		Commands:     commandHandler,
		Hooks:        hookService,
		Parser:       parser.NewParser(Logger),
		Metrics:      influxManager,
		Notify:       notifyHost,
		Logger:       Logger,
		StorageError: storageErr,
		Version:      CurrentExtensionVersion,
		BuildDate:    BuildDate,
	}).RegisterHandlers(d)

	hostiface.SetDispatcher(d)
	eventDispatcher = d
	Logger.Info("Dispatcher initialized", "commands", d.Commands())
	return nil
}

func notifyHost(function string, data ...any) error {
	return hostiface.WriteCallback(ExtensionName, function, data...)
}

func shutdown() {
	if monitorService != nil {
		monitorService.Stop()
	}
	if eventDispatcher != nil {
		eventDispatcher.Close()
	}
	if storageBackend != nil {
		if err := storageBackend.Close(); err != nil {
			Logger.Warn("Failed to close storage backend", "error", err)
		}
	}
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i].Close()
	}
}

// main runs console mode when built as an executable:
//
//	heliutils sethealth ch47 5000
//	heliutils setcrates patrol 7
//	heliutils settings | status | history [limit] | version
func main() {
	code := runConsole(os.Args[1:], os.Stdout)
	shutdown()
	os.Exit(code)
}

func runConsole(args []string, out io.Writer) int {
	if len(args) == 0 {
		args = []string{"status"}
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(out, "%s %s (%s)\n", ExtensionName, CurrentExtensionVersion, BuildDate)
		return 0
	case "settings":
		return printJSON(out, settingsStore.Get())
	case "status", "history":
		res, err := eventDispatcher.Dispatch(dispatcher.Event{
			Command: ":" + strings.ToUpper(args[0]) + ":",
			Args:    args[1:],
		})
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			return 1
		}
		return printJSON(out, res)
	}

	reply := commandHandler.Handle(core.ServerConsole(), args)
	fmt.Fprintln(out, reply.Text)
	switch reply.ID {
	case lang.HealthSet, lang.CrateCountSet:
		return 0
	default:
		return 2
	}
}

func printJSON(out io.Writer, v any) int {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(out, "error:", err)
		return 1
	}
	return 0
}
