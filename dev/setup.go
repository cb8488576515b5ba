package main

import (
	"log/slog"
	devenv "olasagents-backend/dev/env"
	configlibsql "olasagents-backend/lib/configutil/libsql"
	"olasagents-backend/lib/telemetry"
	metadatadb "olasagents-backend/services/metadata/db"
	"os"
	"path/filepath"
)

func createDb(filename, schema string) error {
	file := filepath.Join(devenv.StatePrefix, filename)
	dbpath, err := devenv.ResolvePath(file)
	if err != nil {
		return err
	}

	_, err = os.Stat(dbpath)
	if err == nil {
		slog.Info("database already created", "path", dbpath)
		return nil
	}

	slog.Info("creating database", "path", dbpath)
	db, err := configlibsql.Struct{File: file}.OpenDB(schema)
	if err != nil {
		return err
	}
	return db.Close()
}

func CreateEmptyServiceDBs() error {
	return createDb("metadata.db", metadatadb.Schema)
}

func PrintConfigLocations() {
	slog.Info(
		"registry-cli reads registry.json5 from the repository root, put machine specific overrides in registry.local.json5",
		"telemetry", telemetry.ConfigName,
	)
}
