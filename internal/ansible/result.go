package ansible

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteResult marshals the module result to out. The host framework
// requires exactly one JSON object on stdout, so callers must invoke
// this once per run.
func WriteResult(out io.Writer, result any) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if _, err := out.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// FailResult builds the minimal failure body the framework expects.
func FailResult(msg string) map[string]any {
	return map[string]any{
		"changed": false,
		"failed":  true,
		"msg":     msg,
	}
}
