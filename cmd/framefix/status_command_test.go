package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"framefix/internal/deps"
	"framefix/internal/testsupport"
)

func TestStatusWithStubbedBinaries(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Configuration ==")
	requireContains(t, out, "[OK] "+env.configPath)
	requireContains(t, out, "created on first run")
	requireContains(t, out, "Artifacts:")
	requireContains(t, out, "0 files (0 B)")
	requireContains(t, out, "Clip Upload:")
	requireContains(t, out, "== Dependencies ==")

	binDir := filepath.Join(env.baseDir, "path-bin")
	requireContains(t, out, "[OK] "+filepath.Join(binDir, "ffmpeg"))
	requireNotContains(t, out, "[ERROR]")
}

func TestStatusJSONReportsMissingProbe(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Media.FFprobeBinary = filepath.Join(env.baseDir, "missing", "ffprobe")
	env.rewrite(t)

	out, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var payload statusPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !payload.ConfigFound || payload.ConfigPath != env.configPath {
		t.Fatalf("unexpected config info %+v", payload)
	}
	if !payload.StoreEnabled || payload.StorePath != env.cfg.Store.Path {
		t.Fatalf("unexpected store info %+v", payload)
	}
	missing := deps.Missing(payload.Dependencies)
	if len(missing) != 1 || missing[0].Name != "FFprobe" {
		t.Fatalf("expected ffprobe to be missing, got %+v", missing)
	}
}

func TestRenderStatusLine(t *testing.T) {
	got := renderStatusLine("FFprobe", statusOK, "/usr/bin/ffprobe", false)
	want := "  FFprobe:" + strings.Repeat(" ", statusLabelWidth-len("FFprobe:")) + " [OK] /usr/bin/ffprobe"
	if got != want {
		t.Fatalf("renderStatusLine = %q, want %q", got, want)
	}

	colored := renderStatusLine("FFmpeg", statusWarn, "", true)
	if !strings.HasPrefix(colored, ansiYellow) || !strings.HasSuffix(colored, "[WARN]"+ansiReset) {
		t.Fatalf("unexpected colored line %q", colored)
	}
}

func TestRenderDependencyLine(t *testing.T) {
	line := renderDependencyLine(deps.Status{Name: "FFmpeg", Optional: true, Detail: `binary "ffmpeg" not found`}, false)
	requireContains(t, line, "[WARN]")
	requireContains(t, line, "not found")

	line = renderDependencyLine(deps.Status{Name: "FFprobe", Description: "Counts frames"}, false)
	requireContains(t, line, "[ERROR] unavailable – Counts frames")
}

func TestRenderTablePadsRows(t *testing.T) {
	out := renderTable([]string{"Location", "Count"}, [][]string{{"/a"}, {"/b", "3", "extra"}}, []columnAlignment{alignLeft, alignRight})
	requireContains(t, out, "Location")
	requireContains(t, out, "/a")
	requireNotContains(t, out, "extra")
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty table without headers")
	}
}
