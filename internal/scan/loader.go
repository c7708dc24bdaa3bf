// Package scan discovers audio files in a folder and loads their metadata
// into the index.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/franz/metadata-customizer/internal/index"
	"github.com/franz/metadata-customizer/internal/report"
	"github.com/franz/metadata-customizer/internal/song"
	"github.com/franz/metadata-customizer/internal/tags"
	"github.com/franz/metadata-customizer/internal/util"
)

// AudioExtensions are the default supported audio file extensions
var AudioExtensions = []string{
	".mp3",
}

// ReadFunc loads the metadata fields of a single file
type ReadFunc func(path string) (song.Fields, error)

// Loader walks a directory tree and fills the index
type Loader struct {
	index      *index.Index
	read       ReadFunc
	extensions map[string]bool
	logger     *report.EventLogger
	progress   bool
}

// Config holds loader configuration
type Config struct {
	Index          *index.Index
	Read           ReadFunc // defaults to tags.Read
	AdditionalExts []string
	Logger         *report.EventLogger
	Progress       bool // show a progress bar when on a terminal
}

// New creates a new Loader
func New(cfg *Config) *Loader {
	read := cfg.Read
	if read == nil {
		read = tags.Read
	}

	// Build extension map (case-insensitive)
	extMap := make(map[string]bool)
	for _, ext := range AudioExtensions {
		extMap[strings.ToLower(ext)] = true
	}
	for _, ext := range cfg.AdditionalExts {
		extMap[strings.ToLower(ext)] = true
	}

	return &Loader{
		index:      cfg.Index,
		read:       read,
		extensions: extMap,
		logger:     cfg.Logger,
		progress:   cfg.Progress,
	}
}

// Result represents a load result
type Result struct {
	FilesLoaded int
	FilesFailed int
	Errors      []error
}

// Load walks the source directory, reads every audio file's metadata and
// commits the result to the index, replacing its previous contents. Files
// whose tags cannot be read stay in the index with empty fields so they
// still show up in searches by path.
func (l *Loader) Load(ctx context.Context, sourcePath string) (*Result, error) {
	util.InfoLog("Loading folder: %s", sourcePath)

	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to access source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source is not a directory: %s", sourcePath)
	}

	result := &Result{
		Errors: make([]error, 0),
	}

	var bar *progressbar.ProgressBar
	if l.progress && util.IsTerminal(os.Stderr.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Loading"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files"),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}

	l.index.Clear()

	walkErr := filepath.WalkDir(sourcePath, func(path string, d fs.DirEntry, err error) error {
		// Check for cancellation between files
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			util.WarnLog("Error accessing path %s: %v", path, err)
			result.Errors = append(result.Errors, fmt.Errorf("access error: %s: %w", path, err))
			return nil // Continue walking
		}
		if d.IsDir() || !l.isAudioFile(path) {
			return nil
		}

		l.loadFile(path, result)
		if bar != nil {
			bar.Add(1)
		}
		return nil
	})

	if bar != nil {
		bar.Finish()
	}
	if walkErr != nil {
		return result, fmt.Errorf("walk failed: %w", walkErr)
	}

	l.index.Commit()

	util.SuccessLog("Loaded %d file(s), %d unreadable", result.FilesLoaded, result.FilesFailed)
	return result, nil
}

// Reload re-reads a single file and commits it to the index. Unreadable
// files keep their place with empty fields; the read error is returned for
// reporting.
func (l *Loader) Reload(path string) error {
	fields, err := l.read(path)
	if err != nil {
		fields = song.Fields{}
	}
	l.index.Stage(path, fields)
	l.index.Commit()
	return err
}

func (l *Loader) loadFile(path string, result *Result) {
	fields, err := l.read(path)
	if err != nil {
		util.WarnLog("Failed to read %s: %v", path, err)
		result.FilesFailed++
		result.Errors = append(result.Errors, fmt.Errorf("read error: %s: %w", path, err))
		fields = song.Fields{}
	}

	l.logger.LogLoad(path, err)
	l.index.Stage(path, fields)
	result.FilesLoaded++
}

func (l *Loader) isAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return l.extensions[ext]
}
