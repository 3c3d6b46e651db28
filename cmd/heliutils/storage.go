package main

import (
	"fmt"
	"strings"

	"github.com/msanigar/heliutils/internal/config"
	"github.com/msanigar/heliutils/internal/storage"
	"github.com/msanigar/heliutils/internal/storage/jsonfile"
	"github.com/msanigar/heliutils/internal/storage/memory"
	pgstorage "github.com/msanigar/heliutils/internal/storage/postgres"
	sqlitestorage "github.com/msanigar/heliutils/internal/storage/sqlite"
)

// initStorage opens the configured backend. When it cannot be used the
// extension keeps running on memory storage and reports the error on :INIT:.
func initStorage() {
	storageCfg := config.GetStorageConfig()

	backend, err := createStorageBackend(storageCfg)
	if err == nil {
		err = backend.Init()
	}
	if err != nil {
		Logger.Error("Failed to initialize storage backend, falling back to memory", "type", storageCfg.Type, "error", err)
		storageErr = err
		backend = memory.New()
		backend.Init()
	}
	storageBackend = backend
	Logger.Info("Storage backend initialized", "type", backend.Name())
}

func createStorageBackend(storageCfg config.StorageConfig) (storage.Backend, error) {
	switch strings.ToLower(storageCfg.Type) {
	case "", "json":
		return jsonfile.New(resolvePath(storageCfg.File)), nil

	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			Path: resolvePath(storageCfg.SQLitePath),
		}, DBLogger, Logger), nil

	case "postgres":
		return pgstorage.New(storageCfg.Postgres, DBLogger, Logger), nil

	case "memory":
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}
