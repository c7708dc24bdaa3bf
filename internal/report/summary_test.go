package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteMarkdownReport(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "reports", "apply.md")

	summary := &ApplySummary{
		RunID:     "run-1234",
		Preset:    "covers",
		Query:     `artist="The Beatles"`,
		DryRun:    true,
		Processed: 120,
		Changed:   45,
		Written:   0,
		Duration:  1500 * time.Millisecond,
		Errors: []FileError{
			{Path: "/music/broken.mp3", Error: "no tags"},
		},
	}

	if err := WriteMarkdownReport(summary, outputPath); err != nil {
		t.Fatalf("WriteMarkdownReport failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(content)

	for _, want := range []string{
		"# Metadata Customizer - Apply Report",
		"run-1234",
		"| Preset | covers |",
		"| Dry Run | true |",
		"| Files Processed | 120 |",
		"broken.mp3",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestTopErrors(t *testing.T) {
	errors := []FileError{
		{Path: "/c.mp3", Error: "x"},
		{Path: "/a.mp3", Error: "y"},
		{Path: "/b.mp3", Error: "z"},
	}

	top := topErrors(errors, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(top))
	}
	if top[0].Path != "/a.mp3" || top[1].Path != "/b.mp3" {
		t.Errorf("errors not sorted by path: %+v", top)
	}
	// Input must not be reordered.
	if errors[0].Path != "/c.mp3" {
		t.Error("topErrors mutated its input")
	}
}

func TestTruncatePath(t *testing.T) {
	if got := truncatePath("/music/a.mp3", 60); got != "/music/a.mp3" {
		t.Errorf("short path changed: %q", got)
	}

	long := "/very/long/path/to/some/music/file.mp3"
	got := truncatePath(long, 20)
	if len(got) != 20 {
		t.Errorf("truncated length = %d, want 20", len(got))
	}
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "file.mp3") {
		t.Errorf("truncation should keep trailing components: %q", got)
	}
}
