package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/franz/metadata-customizer/internal/preset"
	"github.com/franz/metadata-customizer/internal/query"
	"github.com/franz/metadata-customizer/internal/report"
	"github.com/franz/metadata-customizer/internal/store"
	"github.com/franz/metadata-customizer/internal/tags"
	"github.com/franz/metadata-customizer/internal/util"
)

var (
	applyQuery      string
	applyDryRun     bool
	applyReportPath string
)

var applyCmd = &cobra.Command{
	Use:   "apply <preset>",
	Short: "Apply a preset's rule chains to the loaded folder",
	Long: `Apply a stored preset to the source folder.

The folder is loaded into the index, optionally narrowed with --query, and
every matching file is run through the preset's title, artist and album
rule chains. Files whose fields change are rewritten in place: standard
ID3 frames plus the embedded JSON document.

Use --dry-run to see what would change without touching any file.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyQuery, "query", "", "narrow the run to files matching a search query")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "report changes without writing files")
	applyCmd.Flags().StringVar(&applyReportPath, "report", "", "write a Markdown report to this path")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogLevels()

	source, err := requireSource()
	if err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := preset.NewRepository(db)
	p, err := repo.Load(args[0])
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("preset %q: %w", args[0], util.ErrNotFound)
	}

	logger := newEventLogger()
	defer logger.Close()

	runID := uuid.NewString()
	startTime := time.Now()

	ix, _, _, err := loadFolder(ctx, source, logger)
	if err != nil {
		return err
	}

	records := ix.All()
	if applyQuery != "" {
		filters, terms := query.Parse(applyQuery)
		records = query.Apply(records, filters, terms, ix.IsLatestRecord)
	}

	mode := ""
	if applyDryRun {
		mode = " (dry run)"
	}
	util.InfoLog("Applying preset %q to %d file(s)%s", p.Name, len(records), mode)

	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stderr.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(records),
			progressbar.OptionSetDescription("Applying"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	summary := &report.ApplySummary{
		RunID:        runID,
		Preset:       p.Name,
		Query:        applyQuery,
		DryRun:       applyDryRun,
		StartedAt:    startTime,
		EventLogPath: logger.Path(),
	}

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		summary.Processed++
		if bar != nil {
			bar.Add(1)
		}

		updated, changes := p.Apply(rec.Fields, ix.IsLatestRecord(rec))
		if len(changes) == 0 {
			continue
		}
		summary.Changed++

		for _, ch := range changes {
			util.DebugLog("%s: %s %q -> %q", rec.Path, ch.Field, ch.Old, ch.New)
			logger.LogChange(rec.Path, p.Name, ch.Field, ch.Old, ch.New)
		}

		if applyDryRun {
			continue
		}

		writeStart := time.Now()
		writeErr := util.Retry(nil, func() error {
			return tags.Write(rec.Path, updated)
		}, "write tags")
		logger.LogWrite(rec.Path, p.Name, time.Since(writeStart), writeErr)

		if writeErr != nil {
			util.ErrorLog("Failed to write %s: %v", rec.Path, writeErr)
			summary.Errors = append(summary.Errors, report.FileError{
				Path:  rec.Path,
				Error: writeErr.Error(),
			})
			continue
		}

		summary.Written++
		ix.Stage(rec.Path, updated)
	}
	ix.Commit()

	if bar != nil {
		bar.Finish()
	}

	summary.Duration = time.Since(startTime)
	summary.Print()

	run := &store.ApplyRun{
		ID:        runID,
		Preset:    p.Name,
		Query:     applyQuery,
		Processed: summary.Processed,
		Changed:   summary.Changed,
		Written:   summary.Written,
		Errors:    len(summary.Errors),
		DryRun:    applyDryRun,
		StartedAt: startTime,
		Duration:  summary.Duration,
	}
	if err := db.InsertApplyRun(run); err != nil {
		util.WarnLog("Failed to record run: %v", err)
	}

	if applyReportPath != "" {
		if err := report.WriteMarkdownReport(summary, applyReportPath); err != nil {
			return err
		}
		util.InfoLog("Report written: %s", applyReportPath)
	}

	return nil
}
