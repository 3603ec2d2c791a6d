package ansible

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteResult(t *testing.T) {
	var out strings.Builder
	err := WriteResult(&out, map[string]any{"changed": true, "msg": "ok"})
	if err != nil {
		t.Fatalf("write result: %v", err)
	}
	if !strings.HasSuffix(out.String(), "\n") {
		t.Fatal("expected trailing newline")
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out.String()), &decoded); err != nil {
		t.Fatalf("result is not valid json: %v", err)
	}
	if decoded["changed"] != true || decoded["msg"] != "ok" {
		t.Fatalf("unexpected result body: %v", decoded)
	}
}

func TestFailResult(t *testing.T) {
	body := FailResult("boom")
	if body["failed"] != true || body["changed"] != false || body["msg"] != "boom" {
		t.Fatalf("unexpected failure body: %v", body)
	}
}
