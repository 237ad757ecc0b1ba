package main

import (
	"encoding/json"
	"strings"
	"testing"

	"framefix/internal/testsupport"
)

func runSample(t *testing.T, env *cliTestEnv) {
	t.Helper()
	if _, _, err := runCLI(t, []string{"run", "-w", env.workOrder, "-s", env.shotLog}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRecordsListsPersistedRows(t *testing.T) {
	env := setupCLITestEnv(t)
	runSample(t, env)

	out, _, err := runCLI(t, []string{"records", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	var payload recordsPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(payload.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(payload.Rows))
	}
	if payload.RunID == "" || payload.MaxFrame != nil {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Header == nil || payload.Header.Title != "Xytech Work Order 1109" {
		t.Fatalf("unexpected work order header %+v", payload.Header)
	}
}

func TestRecordsMaxFrameTable(t *testing.T) {
	env := setupCLITestEnv(t)
	runSample(t, env)

	out, _, err := runCLI(t, []string{"records", "--max-frame", "100"}, env.configPath)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	requireContains(t, out, "Frame bound: 100")
	requireContains(t, out, "2-4")
	requireContains(t, out, "31-33")
	requireNotContains(t, out, "155")
	requireNotContains(t, out, "1260")
}

func TestRecordsMediaBound(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFakeFFprobe(200))
	runSample(t, env)

	out, _, err := runCLI(t, []string{"records", "--media", env.workOrder, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	var payload recordsPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(payload.Rows) != 3 {
		t.Fatalf("expected 3 rows within 200, got %d", len(payload.Rows))
	}
	if payload.MaxFrame == nil || *payload.MaxFrame != 200 {
		t.Fatalf("expected max frame 200, got %v", payload.MaxFrame)
	}
}

func TestRecordsEmptyStore(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"records"}, env.configPath)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	requireContains(t, out, "No records stored")
}

func TestRecordsErrors(t *testing.T) {
	t.Run("store disabled", func(t *testing.T) {
		env := setupCLITestEnv(t, testsupport.WithoutStore())
		_, _, err := runCLI(t, []string{"records"}, env.configPath)
		if err == nil || !strings.Contains(err.Error(), "disabled") {
			t.Fatalf("expected disabled store error, got %v", err)
		}
	})
	t.Run("conflicting bounds", func(t *testing.T) {
		env := setupCLITestEnv(t)
		_, _, err := runCLI(t, []string{"records", "--max-frame", "5", "--media", "x.mp4"}, env.configPath)
		if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
			t.Fatalf("expected conflict error, got %v", err)
		}
	})
}

func TestRecordsHelpDescribesPerRowBound(t *testing.T) {
	out, _, err := runCLI(t, []string{"records", "--help"}, "")
	if err != nil {
		t.Fatalf("records --help: %v", err)
	}
	requireContains(t, out, "each stored row is bounded on its own")
	requireContains(t, out, "its end frame is at or below the bound")
}

func TestRecordsBoundEachRowUnlikePreview(t *testing.T) {
	env := setupCLITestEnv(t)
	runSample(t, env)

	out, _, err := runCLI(t, []string{"preview", "-w", env.workOrder, "-s", env.shotLog, "--max-frame", "100", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	var preview previewPayload
	if err := json.Unmarshal([]byte(out), &preview); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if len(preview.Rows) != 0 {
		t.Fatalf("expected preview to drop both partly out-of-bound entries, got %+v", preview.Rows)
	}

	out, _, err = runCLI(t, []string{"records", "--max-frame", "100", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	var payload recordsPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	var ranges []string
	for _, row := range payload.Rows {
		ranges = append(ranges, row.Range)
	}
	if strings.Join(ranges, ",") != "2-4,31-33" {
		t.Fatalf("expected rows within the bound to survive individually, got %v", ranges)
	}
}
