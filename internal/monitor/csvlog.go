package monitor

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"
)

// WriteCSVLog writes the collected records to path in the module's log
// format: a header row, then one row per record.
func WriteCSVLog(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return reportingErr(fmt.Errorf("create log file: %w", err))
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"path", "name", "event(s)", "observed_at"}); err != nil {
		return reportingErr(err)
	}
	for _, record := range records {
		row := []string{
			record.Path,
			record.Name,
			strings.Join(record.EventTypes, "|"),
			record.ObservedAt.Format(time.RFC3339Nano),
		}
		if err := writer.Write(row); err != nil {
			return reportingErr(err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return reportingErr(err)
	}
	if err := file.Close(); err != nil {
		return reportingErr(fmt.Errorf("close log file: %w", err))
	}
	return nil
}
