package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/franz/metadata-customizer/internal/query"
	"github.com/franz/metadata-customizer/internal/song"
	"github.com/franz/metadata-customizer/internal/util"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the loaded folder with the query mini-language",
	Long: `Search the source folder's metadata.

A query mixes free-text terms with field filters:

  mdc search -s ./songs 'artist="The Beatles" version>=2 yesterday'

Field filters use ==, !=, ~, !~, =, <, >, <= or >=. Quoting a value keeps
its whitespace and makes = and ~ match exactly instead of by substring.
The version field additionally accepts the keyword "latest":

  mdc search -s ./songs version=latest

Free-text terms match case-insensitively against title, artist, cover
artist, date, comment, special and version.`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	filters, terms := query.Parse(strings.Join(args, " "))
	results := query.Apply(ix.All(), filters, terms, ix.IsLatestRecord)

	if len(results) == 0 {
		util.InfoLog("No matches in %d file(s)", ix.Len())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tARTIST\tCOVER ARTIST\tVERSION\tFILE")
	for _, rec := range results {
		version := song.FormatValue(rec.Version)
		if ix.IsLatestRecord(rec) {
			version += " (latest)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.Fields.String(song.FieldTitle),
			rec.Fields.String(song.FieldArtist),
			rec.Fields.String(song.FieldCoverArtist),
			version,
			rec.Path)
	}
	w.Flush()

	util.InfoLog("%d of %d file(s) matched", len(results), ix.Len())
	return nil
}
