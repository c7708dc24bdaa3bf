package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/franz/metadata-customizer/internal/index"
	"github.com/franz/metadata-customizer/internal/report"
	"github.com/franz/metadata-customizer/internal/scan"
	"github.com/franz/metadata-customizer/internal/store"
	"github.com/franz/metadata-customizer/internal/util"
)

// applyLogLevels configures the logger from the global flags
func applyLogLevels() {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
}

// requireSource resolves the source directory with proper precedence:
// 1. Command-line flag (if set)
// 2. Environment variable (MDC_SOURCE)
// 3. Config file
func requireSource() (string, error) {
	source := viper.GetString("source")
	if source == "" {
		return "", fmt.Errorf("source directory is required (use --source/-s or set in config)")
	}
	if _, err := os.Stat(source); os.IsNotExist(err) {
		return "", fmt.Errorf("source directory does not exist: %s", source)
	}
	return source, nil
}

// openDatabase opens the preset and run-history database
func openDatabase() (*store.Store, error) {
	dbPath := viper.GetString("db")
	util.DebugLog("Opening database: %s", dbPath)

	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// newEventLogger creates the JSONL event logger with a level derived from
// the global flags. Falls back to a no-op logger on error.
func newEventLogger() *report.EventLogger {
	logLevel := report.LevelInfo
	if viper.GetBool("quiet") {
		logLevel = report.LevelWarning
	} else if viper.GetBool("verbose") {
		logLevel = report.LevelDebug
	}

	logger, err := report.NewEventLogger("artifacts", logLevel)
	if err != nil {
		util.WarnLog("Failed to create event logger: %v", err)
		return report.NullLogger()
	}
	return logger
}

// loadFolder builds a fresh index from the source directory
func loadFolder(ctx context.Context, source string, logger *report.EventLogger) (*index.Index, *scan.Loader, *scan.Result, error) {
	ix := index.New()
	loader := scan.New(&scan.Config{
		Index:          ix,
		AdditionalExts: viper.GetStringSlice("extensions"),
		Logger:         logger,
		Progress:       true,
	})

	result, err := loader.Load(ctx, source)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load failed: %w", err)
	}
	return ix, loader, result, nil
}
