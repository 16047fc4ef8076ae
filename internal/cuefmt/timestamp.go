package cuefmt

import "fmt"

// Timestamp renders milliseconds as H:MM:SS.cc. Hours are unpadded and
// unbounded; centiseconds are truncated. Negative input renders as zero.
func Timestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3_600_000
	minutes := ms % 3_600_000 / 60_000
	seconds := ms % 60_000 / 1_000
	centis := ms % 1_000 / 10
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}
