package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/franz/metadata-customizer/internal/util"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent apply runs",
	Long:  `List the most recent preset applications recorded in the database.`,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	applyLogLevels()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListApplyRuns(runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		util.InfoLog("No runs recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPRESET\tQUERY\tPROCESSED\tCHANGED\tWRITTEN\tERRORS\tMODE")
	for _, run := range runs {
		mode := "write"
		if run.DryRun {
			mode = "dry-run"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			humanize.RelTime(run.StartedAt, time.Now(), "ago", "from now"),
			run.Preset, run.Query,
			run.Processed, run.Changed, run.Written, run.Errors, mode)
	}
	return w.Flush()
}
