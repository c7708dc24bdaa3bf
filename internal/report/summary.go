package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/franz/metadata-customizer/internal/util"
)

// LoadSummary describes the outcome of loading a folder into the index
type LoadSummary struct {
	SourcePath  string
	FilesLoaded int
	FilesFailed int
	Songs       int
	Duration    time.Duration
}

// Print logs the load summary
func (s *LoadSummary) Print() {
	util.SuccessLog("Loaded %s file(s) from %s in %s",
		humanize.Comma(int64(s.FilesLoaded)), s.SourcePath, s.Duration.Round(time.Millisecond))
	if s.Songs > 0 {
		util.InfoLog("%s distinct song identit%s in the index",
			humanize.Comma(int64(s.Songs)), pluralY(s.Songs))
	}
	if s.FilesFailed > 0 {
		util.WarnLog("%d file(s) could not be read and carry empty metadata", s.FilesFailed)
	}
}

// ApplySummary describes the outcome of an apply run
type ApplySummary struct {
	RunID     string
	Preset    string
	Query     string
	DryRun    bool
	Processed int
	Changed   int
	Written   int
	Errors    []FileError
	StartedAt time.Time
	Duration  time.Duration

	EventLogPath string
}

// FileError records a single file that failed during a run
type FileError struct {
	Path  string
	Error string
}

// Print logs the apply summary
func (s *ApplySummary) Print() {
	mode := ""
	if s.DryRun {
		mode = " (dry run)"
	}

	util.SuccessLog("Preset %q applied%s: %s processed, %s changed, %s written in %s",
		s.Preset, mode,
		humanize.Comma(int64(s.Processed)),
		humanize.Comma(int64(s.Changed)),
		humanize.Comma(int64(s.Written)),
		s.Duration.Round(time.Millisecond))

	if len(s.Errors) > 0 {
		util.WarnLog("%d file(s) failed:", len(s.Errors))
		for _, fe := range topErrors(s.Errors, 5) {
			util.WarnLog("  %s: %s", truncatePath(fe.Path, 60), fe.Error)
		}
		if len(s.Errors) > 5 {
			util.WarnLog("  ... and %d more", len(s.Errors)-5)
		}
	}

	if s.EventLogPath != "" {
		util.InfoLog("Event log: %s", s.EventLogPath)
	}
}

// WriteMarkdownReport writes the apply summary as Markdown
func WriteMarkdownReport(s *ApplySummary, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var md strings.Builder

	md.WriteString("# Metadata Customizer - Apply Report\n\n")
	md.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	if s.RunID != "" {
		md.WriteString(fmt.Sprintf("**Run:** `%s`\n\n", s.RunID))
	}
	if s.EventLogPath != "" {
		md.WriteString(fmt.Sprintf("**Event Log:** `%s`\n\n", s.EventLogPath))
	}

	md.WriteString("---\n\n")

	md.WriteString("## Overview\n\n")
	md.WriteString("| Metric | Value |\n")
	md.WriteString("|--------|-------|\n")
	md.WriteString(fmt.Sprintf("| Preset | %s |\n", s.Preset))
	if s.Query != "" {
		md.WriteString(fmt.Sprintf("| Query | `%s` |\n", s.Query))
	}
	md.WriteString(fmt.Sprintf("| Dry Run | %t |\n", s.DryRun))
	md.WriteString(fmt.Sprintf("| Files Processed | %d |\n", s.Processed))
	md.WriteString(fmt.Sprintf("| Files Changed | %d |\n", s.Changed))
	md.WriteString(fmt.Sprintf("| Files Written | %d |\n", s.Written))
	md.WriteString(fmt.Sprintf("| Duration | %s |\n", s.Duration.Round(time.Millisecond)))
	md.WriteString("\n")

	if len(s.Errors) > 0 {
		md.WriteString("## Errors\n\n")
		md.WriteString("| File | Error |\n")
		md.WriteString("|------|-------|\n")
		for _, fe := range topErrors(s.Errors, 20) {
			md.WriteString(fmt.Sprintf("| `%s` | %s |\n", truncatePath(fe.Path, 60), fe.Error))
		}
		if len(s.Errors) > 20 {
			md.WriteString(fmt.Sprintf("\n... and %d more\n", len(s.Errors)-20))
		}
		md.WriteString("\n")
	}

	if err := os.WriteFile(outputPath, []byte(md.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// topErrors returns up to limit file errors, sorted by path for stable output
func topErrors(errors []FileError, limit int) []FileError {
	sorted := make([]FileError, len(errors))
	copy(sorted, errors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// truncatePath shortens a path for display, keeping the trailing components
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
