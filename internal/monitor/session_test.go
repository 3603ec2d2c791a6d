package monitor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"inwatch/internal/watcher"
)

func testRequest(t *testing.T, paths ...string) Request {
	t.Helper()
	return Request{
		Paths:       paths,
		Timeout:     500 * time.Millisecond,
		EventBuffer: 64,
		MaxWatches:  128,
	}
}

type recordingSink struct {
	records []Record
	err     error
}

func (s *recordingSink) Record(record Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func TestRunCollectsEventsForFullWindow(t *testing.T) {
	dir := t.TempDir()
	request := testRequest(t, dir)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "first"), []byte("a"), 0600)
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "second"), []byte("b"), 0600)
	}()

	started := time.Now()
	report, err := Run(request, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if elapsed := time.Since(started); elapsed < request.Timeout {
		t.Fatalf("expected full-window run, returned after %v", elapsed)
	}
	if report.Elapsed < request.Timeout {
		t.Fatalf("expected elapsed >= timeout, got %v", report.Elapsed)
	}

	names := map[string]bool{}
	for _, record := range report.Records {
		if record.Path != dir {
			t.Fatalf("expected watch path %q, got %q", dir, record.Path)
		}
		if len(record.EventTypes) == 0 {
			t.Fatalf("expected event types on %+v", record)
		}
		if record.ObservedAt.IsZero() {
			t.Fatalf("expected observation timestamp on %+v", record)
		}
		names[record.Name] = true
	}
	if !names["first"] || !names["second"] {
		t.Fatalf("expected events for both files, got %v", names)
	}

	for i := 1; i < len(report.Records); i++ {
		if report.Records[i].ObservedAt.Before(report.Records[i-1].ObservedAt) {
			t.Fatal("expected records ordered by observation time")
		}
	}
}

func TestRunQuietWindowReportsNothing(t *testing.T) {
	request := testRequest(t, t.TempDir())
	request.Timeout = 200 * time.Millisecond

	report, err := Run(request, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Records) != 0 {
		t.Fatalf("expected no records, got %v", report.Records)
	}
	result := NewResult(report)
	if result.Changed || result.Failed {
		t.Fatalf("expected unchanged success, got %+v", result)
	}
	if result.Events == nil {
		t.Fatal("expected events list, not null")
	}
}

func TestRunFilterExcludesEvents(t *testing.T) {
	dir := t.TempDir()
	request := testRequest(t, dir)
	request.Timeout = 300 * time.Millisecond
	request.Filter = []string{watcher.OpRemove}

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "ignored"), []byte("x"), 0600)
	}()

	report, err := Run(request, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Records) != 0 {
		t.Fatalf("expected create/write filtered out, got %v", report.Records)
	}
}

func TestRunDeliversToSinks(t *testing.T) {
	dir := t.TempDir()
	request := testRequest(t, dir)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "streamed"), []byte("x"), 0600)
	}()

	sink := &recordingSink{}
	report, err := Run(request, nil, sink)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sink.records) != len(report.Records) {
		t.Fatalf("expected sink to see every record: sink %d, report %d", len(sink.records), len(report.Records))
	}
	if len(sink.records) == 0 {
		t.Fatal("expected at least one streamed record")
	}
}

func TestRunSinkFailureAbortsSession(t *testing.T) {
	dir := t.TempDir()
	request := testRequest(t, dir)
	request.Timeout = 2 * time.Second

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "poison"), []byte("x"), 0600)
	}()

	sink := &recordingSink{err: errors.New("connection lost")}
	started := time.Now()
	_, err := Run(request, nil, sink)
	if !errors.Is(err, ErrReporting) {
		t.Fatalf("expected reporting error, got %v", err)
	}
	if time.Since(started) >= request.Timeout {
		t.Fatal("expected early abort on sink failure")
	}
}

func TestRunMissingPathIsSubscriptionError(t *testing.T) {
	request := testRequest(t, filepath.Join(t.TempDir(), "vanished"))
	_, err := Run(request, nil)
	if !errors.Is(err, ErrSubscription) {
		t.Fatalf("expected subscription error, got %v", err)
	}
}

func TestMakeRecordMapsToOwningRoot(t *testing.T) {
	now := time.Now().UTC()
	roots := []string{"/watch/root/nested", "/watch/root"}

	record, ok := makeRecord(watcher.Event{
		Path:      "/watch/root/nested/file",
		Op:        fsnotify.Create,
		Timestamp: now,
	}, roots)
	if !ok {
		t.Fatal("expected record for watched path")
	}
	if record.Path != "/watch/root/nested" || record.Name != "file" {
		t.Fatalf("expected nested root to claim event, got %+v", record)
	}

	record, ok = makeRecord(watcher.Event{
		Path:      "/watch/root",
		Op:        fsnotify.Chmod,
		Timestamp: now,
	}, roots)
	if !ok || record.Name != "." {
		t.Fatalf("expected '.' name for the watch path itself, got %+v", record)
	}

	record, ok = makeRecord(watcher.Event{
		Path:      "/newfile",
		Op:        fsnotify.Create,
		Timestamp: now,
	}, []string{"/"})
	if !ok {
		t.Fatal("expected record for filesystem root watch")
	}
	if record.Path != "/" || record.Name != "newfile" {
		t.Fatalf("expected root watch to claim event, got %+v", record)
	}

	if _, ok := makeRecord(watcher.Event{Path: "/elsewhere", Op: fsnotify.Write}, roots); ok {
		t.Fatal("expected events outside every root to be skipped")
	}

	if _, ok := makeRecord(watcher.Event{Path: "/watch/root/x", Op: 0}, roots); ok {
		t.Fatal("expected empty op to be skipped")
	}
}

func TestNewResultShapesReport(t *testing.T) {
	report := Report{
		Records: []Record{{Path: "/tmp", Name: "f", EventTypes: []string{"create"}}},
		Elapsed: 1500 * time.Millisecond,
		Dropped: 2,
	}
	result := NewResult(report)
	if !result.Changed || result.Failed {
		t.Fatalf("expected changed success, got %+v", result)
	}
	if result.Elapsed != 1.5 {
		t.Fatalf("expected elapsed 1.5s, got %v", result.Elapsed)
	}
	if result.DroppedEvents != 2 {
		t.Fatalf("expected dropped count surfaced, got %d", result.DroppedEvents)
	}
}
