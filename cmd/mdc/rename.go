package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/franz/metadata-customizer/internal/util"
)

var renameCmd = &cobra.Command{
	Use:   "rename <file> <new-name>",
	Short: "Rename a file without losing its place in the index",
	Long: `Rename a file inside the source folder. The file keeps its metadata;
only its path changes. The new name is resolved relative to the file's
current directory unless an absolute path is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	applyLogLevels()

	source, err := requireSource()
	if err != nil {
		return err
	}

	logger := newEventLogger()
	defer logger.Close()

	ix, _, _, err := loadFolder(ctx, source, logger)
	if err != nil {
		return err
	}

	oldPath := args[0]
	if _, ok := ix.GetRecord(oldPath); !ok {
		if abs, absErr := filepath.Abs(oldPath); absErr == nil {
			if _, ok = ix.GetRecord(abs); ok {
				oldPath = abs
			}
		}
		if _, ok := ix.GetRecord(oldPath); !ok {
			return fmt.Errorf("file not found in source folder: %s", args[0])
		}
	}

	newPath := args[1]
	if !filepath.IsAbs(newPath) {
		newPath = filepath.Join(filepath.Dir(oldPath), newPath)
	}
	if filepath.Ext(newPath) == "" {
		newPath += filepath.Ext(oldPath)
	}
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("target already exists: %s", newPath)
	}

	if err := util.RetryableRename(oldPath, newPath, nil); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}

	ix.Rename(oldPath, newPath)
	ix.Commit()
	logger.LogRename(oldPath, newPath)

	util.SuccessLog("Renamed %s -> %s", oldPath, newPath)
	return nil
}
