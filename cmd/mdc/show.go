package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/franz/metadata-customizer/internal/song"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show a file's metadata and version status",
	Long: `Show the merged metadata of a single file: standard ID3 frames
overlaid with the embedded JSON document, plus where the file stands in
its song's version history.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// displayOrder is the order well-known fields print in; extras follow sorted
var displayOrder = []string{
	song.FieldTitle,
	song.FieldArtist,
	song.FieldCoverArtist,
	song.FieldAlbum,
	song.FieldVersion,
	song.FieldDisc,
	song.FieldTrack,
	song.FieldDate,
	song.FieldComment,
	song.FieldSpecial,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogLevels()

	source, err := requireSource()
	if err != nil {
		return err
	}

	ix, _, _, err := loadFolder(ctx, source, nil)
	if err != nil {
		return err
	}

	path := args[0]
	rec, ok := ix.GetRecord(path)
	if !ok {
		if abs, absErr := filepath.Abs(path); absErr == nil {
			rec, ok = ix.GetRecord(abs)
		}
	}
	if !ok {
		return fmt.Errorf("file not found in source folder: %s", path)
	}

	fmt.Printf("File: %s\n\n", rec.Path)

	shown := map[string]bool{}
	for _, field := range displayOrder {
		if value, exists := rec.Fields[field]; exists {
			fmt.Printf("  %-12s %s\n", field+":", song.FormatValue(value))
			shown[field] = true
		}
	}

	var extras []string
	for field := range rec.Fields {
		if !shown[field] {
			extras = append(extras, field)
		}
	}
	sort.Strings(extras)
	for _, field := range extras {
		fmt.Printf("  %-12s %s\n", field+":", song.FormatValue(rec.Fields[field]))
	}

	versions := ix.VersionsFor(rec.ID)
	fmt.Printf("\nSong: %s\n", rec.ID)
	fmt.Printf("  Versions:   %s\n", formatVersions(versions))
	if ix.IsLatestRecord(rec) {
		fmt.Printf("  This file:  %s (latest)\n", song.FormatValue(rec.Version))
	} else {
		fmt.Printf("  This file:  %s (latest is %s)\n",
			song.FormatValue(rec.Version), song.FormatValue(ix.LatestVersion(rec.ID)))
	}

	return nil
}

func formatVersions(versions []float64) string {
	if len(versions) == 0 {
		return "none"
	}
	out := ""
	for i, v := range versions {
		if i > 0 {
			out += ", "
		}
		out += song.FormatValue(v)
	}
	return out
}
