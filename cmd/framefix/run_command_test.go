package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framefix/internal/fileutil"
	"framefix/internal/report"
	"framefix/internal/testsupport"
)

func TestRunCommandWritesCSV(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run", "--work-order", env.workOrder, "--shot-log", env.shotLog}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Rows: 5 (11 frames)")
	requireContains(t, out, "CSV: "+env.cfg.CSVPath())
	requireContains(t, out, "Persisted: yes")
	requireContains(t, out, "Unmatched shot paths (1):")
	requireContains(t, out, unmatchedShot)
	requireNotContains(t, out, "Workbook:")

	data, err := os.ReadFile(env.cfg.CSVPath())
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 3 header lines and 5 rows, got %d:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[3], "/hpsans13/production/dogman/reel1/partA/1920x1080,2-4") {
		t.Fatalf("unexpected first row %q", lines[3])
	}
}

func TestRunCommandStrictFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, stderr, err := runCLI(t, []string{"run", "-w", env.workOrder, "-s", env.shotLog, "--strict"}, env.configPath)
	if !errors.Is(err, report.ErrUnmatchedPath) {
		t.Fatalf("expected unmatched path error, got %v", err)
	}
	requireContains(t, stderr, unmatchedShot)
	if fileutil.Exists(env.cfg.CSVPath()) {
		t.Fatal("expected no csv after strict failure")
	}
}

func TestRunCommandOutputOverride(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutStore())
	outDir := filepath.Join(env.baseDir, "elsewhere")

	out, _, err := runCLI(t, []string{"run", "-w", env.workOrder, "-s", env.shotLog, "--output", outDir}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Persisted: no")
	if !fileutil.Exists(filepath.Join(outDir, "output.csv")) {
		t.Fatalf("expected csv under %s", outDir)
	}
	if fileutil.Exists(env.cfg.CSVPath()) {
		t.Fatal("expected configured output dir to stay empty")
	}
}

func TestRunCommandWorkbookWithMedia(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithFakeFFprobe(200), testsupport.WithFakeFFmpeg())
	media := filepath.Join(env.baseDir, "reference.mp4")

	out, _, err := runCLI(t, []string{"run", "-w", env.workOrder, "-s", env.shotLog, "-m", media, "--xlsx"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Frame bound: 200")
	requireContains(t, out, "Dropped past bound: "+hydraulxShot)
	requireContains(t, out, "Rows: 3 (7 frames)")
	requireContains(t, out, "Workbook: "+env.cfg.XLSXPath()+" (24 fps)")
	if !fileutil.Exists(env.cfg.XLSXPath()) {
		t.Fatal("expected workbook to be written")
	}
}

func TestRunCommandWorkbookNeedsMedia(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", "-w", env.workOrder, "-s", env.shotLog, "--xlsx"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "reference video") {
		t.Fatalf("expected media requirement error, got %v", err)
	}
}

func TestRunCommandRequiresInputs(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", "--work-order", env.workOrder}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "shot-log") {
		t.Fatalf("expected missing flag error, got %v", err)
	}
}

func TestLogLevelFlagIsValidated(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"--log-level", "loud", "status"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging.level error, got %v", err)
	}
}
