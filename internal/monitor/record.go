package monitor

import "time"

// Record is a single observed filesystem change. Path is the
// registered watch path that owns the event; Name is the affected
// entry relative to Path ("." for the watch path itself); EventTypes
// lists the decoded change types (create, write, remove, rename,
// chmod). Records are append-only and ordered by observation time.
type Record struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	EventTypes []string  `json:"event_types"`
	ObservedAt time.Time `json:"observed_at"`
}

// Result is the body returned to the host framework.
type Result struct {
	Changed       bool     `json:"changed"`
	Failed        bool     `json:"failed,omitempty"`
	Msg           string   `json:"msg"`
	Elapsed       float64  `json:"elapsed"`
	Events        []Record `json:"events"`
	DroppedEvents uint64   `json:"dropped_events,omitempty"`
	LogFile       string   `json:"log_file,omitempty"`
}

// NewResult shapes a completed session report into the result body.
func NewResult(report Report) Result {
	events := report.Records
	if events == nil {
		events = []Record{}
	}
	msg := "no filesystem events observed"
	if len(events) > 0 {
		msg = "filesystem events observed"
	}
	return Result{
		Changed:       len(events) > 0,
		Msg:           msg,
		Elapsed:       report.Elapsed.Seconds(),
		Events:        events,
		DroppedEvents: report.Dropped,
	}
}
