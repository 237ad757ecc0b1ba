package render

import (
	"fmt"
	"math"
	"strconv"

	"framefix/internal/frames"
)

// Timecode formats frame as non-drop-frame HH:MM:SS:FF at the nominal rate
// nearest to fps.
func Timecode(frame int, fps float64) string {
	rate := nominalRate(fps)
	if frame < 0 {
		frame = 0
	}
	ff := frame % rate
	total := frame / rate
	return fmt.Sprintf("%02d:%02d:%02d:%02d", total/3600, (total%3600)/60, total%60, ff)
}

// RangeTimecode formats a range as "start-end" timecodes, or a single
// timecode when the range covers one frame.
func RangeTimecode(rng frames.Range, fps float64) string {
	if rng.IsSingle() {
		return Timecode(rng.Start, fps)
	}
	return Timecode(rng.Start, fps) + "-" + Timecode(rng.End, fps)
}

// Seconds converts a frame number into a presentation time at fps.
func Seconds(frame int, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frame) / fps
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

func nominalRate(fps float64) int {
	rate := int(math.Round(fps))
	if rate < 1 {
		return 1
	}
	return rate
}
