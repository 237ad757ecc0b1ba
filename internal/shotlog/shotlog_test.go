package shotlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"framefix/internal/frames"
)

func TestParseCompressesFrames(t *testing.T) {
	text := strings.Join([]string{
		"/baselightfilesystem1/Dogman/reel1/partA/1920x1080 2 3 4 31 32 33 67 68 69 70 122 123 155 1023 1111 1112 1160 1201 1202 1203 1204 1205 1211 1212 1213 1214 1215 1216 1217 1218 1219 1220",
		"",
		"/baselightfilesystem1/Dogman/reel1/VFX/Hydraulx 1260 1261 1262 1267",
		"   ",
		"/baselightfilesystem1/Dogman/reel1/partA/1920x1080 5000 <err> 5001 <null> 5002",
	}, "\n")

	entries, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	got := make([][]string, len(entries))
	for i, entry := range entries {
		got[i] = frames.FormatRanges(entry.Ranges)
	}
	want := [][]string{
		{"2-4", "31-33", "67-70", "122-123", "155", "1023", "1111-1112", "1160", "1201-1205", "1211-1220"},
		{"1260-1262", "1267"},
		{"5000-5002"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ranges mismatch (-want +got):\n%s", diff)
	}
	if entries[1].Path != "/baselightfilesystem1/Dogman/reel1/VFX/Hydraulx" {
		t.Fatalf("unexpected path %q", entries[1].Path)
	}
}

func TestParseLineWithoutFrames(t *testing.T) {
	entries, err := Parse("/only/a/path <err>\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != "/only/a/path" || len(entries[0].Ranges) != 0 {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
	if entries[0].FrameCount() != 0 {
		t.Fatalf("expected zero frames, got %d", entries[0].FrameCount())
	}
}

func TestParseUnorderedAndDuplicateFrames(t *testing.T) {
	entries, err := Parse("/p 9 8 7 7 1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"1", "7-9"}, frames.FormatRanges(entries[0].Ranges)); diff != "" {
		t.Fatalf("ranges mismatch (-want +got):\n%s", diff)
	}
	if entries[0].FrameCount() != 4 {
		t.Fatalf("expected 4 frames, got %d", entries[0].FrameCount())
	}
}

func TestReadRejectsOverlongLine(t *testing.T) {
	text := "/ok 1\n/long " + strings.Repeat("1 ", maxLineBytes) + "\n"
	_, err := Read(strings.NewReader(text))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	var malformed *MalformedError
	if !errors.As(err, &malformed) || malformed.Line != 2 {
		t.Fatalf("expected malformed line 2, got %v", err)
	}
}

func TestLoadAndPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baselight.txt")
	if err := os.WriteFile(path, []byte("/a/b 1\n/c/d 2 3\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	entries, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"/a/b", "/c/d"}, Paths(entries)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
