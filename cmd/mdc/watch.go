package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/franz/metadata-customizer/internal/scan"
	"github.com/franz/metadata-customizer/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source folder and keep the index in sync",
	Long: `Load the source folder and then mirror filesystem changes into the
index until interrupted. Added and modified files are re-read, removed
files drop out, and new subdirectories are picked up automatically.

Useful together with verbose mode to observe version histories evolve as
files land in the archive.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	applyLogLevels()

	source, err := requireSource()
	if err != nil {
		return err
	}

	logger := newEventLogger()
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ix, loader, result, err := loadFolder(ctx, source, logger)
	if err != nil {
		return err
	}
	util.InfoLog("Index ready: %d file(s), press Ctrl-C to stop", result.FilesLoaded)

	watcher := scan.NewWatcher(&scan.WatcherConfig{
		Loader: loader,
		Index:  ix,
		Logger: logger,
		OnChange: func(path string) {
			util.DebugLog("Index now holds %d file(s)", ix.Len())
		},
	})

	if err := watcher.Watch(ctx, source); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	util.InfoLog("Watch stopped")
	return nil
}
