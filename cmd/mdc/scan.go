package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/franz/metadata-customizer/internal/index"
	"github.com/franz/metadata-customizer/internal/report"
	"github.com/franz/metadata-customizer/internal/song"
	"github.com/franz/metadata-customizer/internal/util"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Load a folder and report its contents",
	Long: `Scan the source directory for MP3 files and load their metadata.

Every file's standard ID3 frames and embedded JSON document are read into
the in-memory index. The summary reports how many files loaded, how many
could not be read, and how many distinct songs the folder contains.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogLevels()

	source, err := requireSource()
	if err != nil {
		return err
	}

	logger := newEventLogger()
	defer logger.Close()

	startTime := time.Now()

	ix, _, result, err := loadFolder(ctx, source, logger)
	if err != nil {
		return err
	}

	summary := &report.LoadSummary{
		SourcePath:  source,
		FilesLoaded: result.FilesLoaded,
		FilesFailed: result.FilesFailed,
		Songs:       countSongs(ix),
		Duration:    time.Since(startTime),
	}
	summary.Print()

	if util.IsVerbose() {
		printVersionFamilies(ix)
	}
	if logger.Path() != "" {
		util.InfoLog("Event log: %s", logger.Path())
	}

	return nil
}

// countSongs counts distinct song identities in the index
func countSongs(ix *index.Index) int {
	seen := make(map[song.Identity]bool)
	for _, rec := range ix.All() {
		seen[rec.ID] = true
	}
	return len(seen)
}

// printVersionFamilies lists songs that exist in more than one version
func printVersionFamilies(ix *index.Index) {
	seen := make(map[song.Identity]bool)
	for _, rec := range ix.All() {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true

		versions := ix.VersionsFor(rec.ID)
		if len(versions) < 2 {
			continue
		}
		util.InfoLog("%s: versions %v (latest %s)",
			rec.Fields.String(song.FieldTitle), versions,
			song.FormatValue(ix.LatestVersion(rec.ID)))
	}
}
