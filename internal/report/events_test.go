package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNewEventLogger(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}
	defer logger.Close()

	if logger.path == "" {
		t.Error("EventLogger path is empty")
	}

	if _, err := os.Stat(logger.path); os.IsNotExist(err) {
		t.Errorf("Event log file was not created at %s", logger.path)
	}

	filename := filepath.Base(logger.path)
	if len(filename) < len("events-20060102-150405.jsonl") {
		t.Errorf("Event log filename format incorrect: %s", filename)
	}
}

func TestEventLogger_Log(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	event := &Event{
		Timestamp: time.Now(),
		Level:     LevelInfo,
		Event:     EventApply,
		Path:      "/music/a.mp3",
		Preset:    "covers",
		Field:     "Title",
		Old:       "Yesterday",
		New:       "Yesterday (Cover)",
	}

	if err := logger.Log(event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	logger.Close()

	content, err := os.ReadFile(logger.path)
	if err != nil {
		t.Fatalf("read event log: %v", err)
	}

	var got Event
	if err := json.Unmarshal(content, &got); err != nil {
		t.Fatalf("event is not valid JSON: %v", err)
	}
	if got.Event != EventApply || got.Preset != "covers" || got.New != "Yesterday (Cover)" {
		t.Errorf("event round trip mismatch: %+v", got)
	}
}

func TestEventLogger_MinLevel(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelWarning)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	logger.LogWatch("/music/a.mp3", "create")                // debug, filtered
	logger.LogChange("/music/a.mp3", "covers", "Title", "a", "b") // info, filtered
	logger.LogError(EventWrite, "/music/a.mp3", errors.New("boom"))
	logger.Close()

	file, err := os.Open(logger.path)
	if err != nil {
		t.Fatalf("open event log: %v", err)
	}
	defer file.Close()

	var lines int
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines++
	}
	if lines != 1 {
		t.Errorf("expected 1 event above min level, got %d", lines)
	}
}

func TestEventLogger_Helpers(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	logger.LogLoad("/music/a.mp3", nil)
	logger.LogLoad("/music/bad.mp3", errors.New("no tags"))
	logger.LogWrite("/music/a.mp3", "covers", 12*time.Millisecond, nil)
	logger.LogRename("/music/a.mp3", "/music/b.mp3")
	logger.Close()

	file, err := os.Open(logger.path)
	if err != nil {
		t.Fatalf("open event log: %v", err)
	}
	defer file.Close()

	byType := map[EventType]int{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("bad event line: %v", err)
		}
		byType[event.Event]++
	}

	if byType[EventLoad] != 2 {
		t.Errorf("load events = %d, want 2", byType[EventLoad])
	}
	if byType[EventWrite] != 1 || byType[EventRename] != 1 {
		t.Errorf("unexpected event counts: %v", byType)
	}
}

func TestEventLogger_NilSafe(t *testing.T) {
	var logger *EventLogger

	if err := logger.Log(&Event{Level: LevelInfo, Event: EventLoad}); err != nil {
		t.Errorf("nil logger Log returned error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("nil logger Close returned error: %v", err)
	}
	if logger.Path() != "" {
		t.Error("nil logger Path should be empty")
	}
	if NullLogger() != nil {
		t.Error("NullLogger should return nil")
	}
}

func TestEventLogger_Concurrent(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := NewEventLogger(tmpDir, LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				logger.LogChange("/music/a.mp3", "covers", "Title", "a", "b")
			}
		}()
	}
	wg.Wait()
	logger.Close()

	file, err := os.Open(logger.path)
	if err != nil {
		t.Fatalf("open event log: %v", err)
	}
	defer file.Close()

	var lines int
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("interleaved write produced bad JSON: %v", err)
		}
		lines++
	}
	if lines != 200 {
		t.Errorf("expected 200 events, got %d", lines)
	}
}
