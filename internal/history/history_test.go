package history_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/zhiyue/BlockCanvas/internal/history"
)

func TestRecordAndRecent(t *testing.T) {
	h, err := history.New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer h.Close()

	first := history.Run{
		Timestamp:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		OutFile:        "index.bin",
		Cap:            2,
		Workers:        4,
		Solutions:      123456,
		UniqueLayouts:  42,
		Nodes:          999,
		ElapsedSeconds: 12.5,
	}
	if err := h.Record(first); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	second := first
	second.Timestamp = first.Timestamp.Add(time.Hour)
	second.OutFile = "index2.bin"
	if err := h.Record(second); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	runs, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Recent() returned %d runs, want 2", len(runs))
	}
	// newest first
	if runs[0].OutFile != "index2.bin" {
		t.Errorf("runs[0].OutFile = %q, want index2.bin", runs[0].OutFile)
	}
	got := runs[1]
	if got.Solutions != first.Solutions || got.UniqueLayouts != first.UniqueLayouts {
		t.Errorf("run = %+v, want %+v", got, first)
	}
	if !got.Timestamp.Equal(first.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, first.Timestamp)
	}
}

func TestRecentLimit(t *testing.T) {
	h, err := history.New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	for i := 0; i < 5; i++ {
		if err := h.Record(history.Run{OutFile: "index.bin"}); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := h.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("Recent(3) returned %d runs", len(runs))
	}
}
