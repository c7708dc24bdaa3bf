package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/franz/metadata-customizer/internal/preset"
	"github.com/franz/metadata-customizer/internal/rules"
	"github.com/franz/metadata-customizer/internal/util"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage stored presets",
	Long: `Manage the preset library.

Presets are rule chains for the title, artist and album fields, stored as
JSON documents in the database. They can be exchanged with other archives
through import and export.`,
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored presets",
	RunE:  runPresetList,
}

var presetShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a preset's rule chains",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetShow,
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetDelete,
}

var presetImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a preset from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetImport,
}

var presetExportCmd = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Export a preset to a JSON document",
	Args:  cobra.ExactArgs(2),
	RunE:  runPresetExport,
}

func init() {
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetShowCmd)
	presetCmd.AddCommand(presetDeleteCmd)
	presetCmd.AddCommand(presetImportCmd)
	presetCmd.AddCommand(presetExportCmd)
	rootCmd.AddCommand(presetCmd)
}

func runPresetList(cmd *cobra.Command, args []string) error {
	applyLogLevels()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	presets, err := preset.NewRepository(db).List()
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		util.InfoLog("No presets stored yet. Create one with: mdc preset import <file>")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tUPDATED\tDESCRIPTION")
	for _, row := range presets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			row.Name, row.Version, humanize.Time(row.UpdatedAt), row.Description)
	}
	return w.Flush()
}

func runPresetShow(cmd *cobra.Command, args []string) error {
	applyLogLevels()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := preset.NewRepository(db).Load(args[0])
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("preset %q: %w", args[0], util.ErrNotFound)
	}

	fmt.Printf("Name:        %s\n", p.Name)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	fmt.Printf("Version:     %s\n", p.Version)

	for _, target := range preset.TargetOrder {
		chain := p.Chain(target)
		if len(chain) == 0 {
			continue
		}
		fmt.Printf("\n%s rules:\n", target)
		for i, r := range chain {
			printRule(i, r)
		}
	}
	return nil
}

func printRule(i int, r rules.Rule) {
	marker := " "
	if r.First {
		marker = "*"
	}
	condition := fmt.Sprintf("%s %s", r.Field, r.Operator)
	if r.Value != "" {
		condition += fmt.Sprintf(" %q", r.Value)
	}
	template := "(continuation)"
	if r.Template != "" {
		template = fmt.Sprintf("-> %q", r.Template)
	}
	fmt.Printf("  %s %2d. [%s] %s %s\n", marker, i+1, r.Logic, condition, template)
}

func runPresetDelete(cmd *cobra.Command, args []string) error {
	applyLogLevels()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	found, err := preset.NewRepository(db).Delete(args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("preset %q: %w", args[0], util.ErrNotFound)
	}

	util.SuccessLog("Deleted preset %q", args[0])
	return nil
}

func runPresetImport(cmd *cobra.Command, args []string) error {
	applyLogLevels()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := preset.NewRepository(db).Import(args[0])
	if err != nil {
		return err
	}

	util.SuccessLog("Imported preset %q from %s", p.Name, args[0])
	return nil
}

func runPresetExport(cmd *cobra.Command, args []string) error {
	applyLogLevels()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	found, err := preset.NewRepository(db).Export(args[0], args[1])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("preset %q: %w", args[0], util.ErrNotFound)
	}

	util.SuccessLog("Exported preset %q to %s", args[0], args[1])
	return nil
}
