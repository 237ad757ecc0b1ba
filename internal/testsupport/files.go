package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleWorkOrder is a work order with two distinct locations, one listed twice.
const SampleWorkOrder = `Xytech Work Order 1109

Producer: Joan Jett
Operator: John Doe
Job: Dirtfixing

Location:
/hpsans13/production/dogman/reel1/partA/1920x1080
/hpsans12/production/dogman/reel1/VFX/Hydraulx
/hpsans13/production/dogman/reel1/partA/1920x1080
Notes:
Please clean files noted per Colorist
`

// SampleShotLog matches both SampleWorkOrder locations and carries one path
// that no location matches.
const SampleShotLog = `/baselightfilesystem1/dogman/reel1/partA/1920x1080 2 3 4 31 32 33 155
/baselightfilesystem1/dogman/reel1/VFX/Hydraulx 1260 1261 1262 1267 <err>
/baselightfilesystem1/dogman/reel9/partZ/1920x1080 5 6 <null>
`

// WriteFixture writes content to dir/name and returns the path.
func WriteFixture(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSampleInputs writes SampleWorkOrder and SampleShotLog under dir and
// returns their paths.
func WriteSampleInputs(t testing.TB, dir string) (workOrderPath, shotLogPath string) {
	t.Helper()
	return WriteFixture(t, dir, "xytech.txt", SampleWorkOrder),
		WriteFixture(t, dir, "baselight_export.txt", SampleShotLog)
}
