package monitor

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteCSVLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inotify_logs")
	observed := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	records := []Record{
		{Path: "/tmp", Name: "myfile", EventTypes: []string{"create", "write"}, ObservedAt: observed},
		{Path: "/etc", Name: ".", EventTypes: []string{"chmod"}, ObservedAt: observed.Add(time.Second)},
	}

	if err := WriteCSVLog(path, records); err != nil {
		t.Fatalf("write csv log: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "path" || rows[0][2] != "event(s)" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "/tmp" || rows[1][1] != "myfile" || rows[1][2] != "create|write" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][3] != observed.Add(time.Second).Format(time.RFC3339Nano) {
		t.Fatalf("unexpected timestamp column: %v", rows[2])
	}
}

func TestWriteCSVLogEmptyStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty_logs")
	if err := WriteCSVLog(path, nil); err != nil {
		t.Fatalf("write csv log: %v", err)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(payload) != "path,name,event(s),observed_at\n" {
		t.Fatalf("expected bare header, got %q", payload)
	}
}

func TestWriteCSVLogUnwritableDirFails(t *testing.T) {
	err := WriteCSVLog(filepath.Join(t.TempDir(), "missing", "log"), nil)
	if !errors.Is(err, ErrReporting) {
		t.Fatalf("expected reporting error, got %v", err)
	}
}
