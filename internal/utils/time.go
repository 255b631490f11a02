package util

import "fmt"

// FormatClock renders seconds as a zero-padded mm:ss countdown. Minutes are not
// wrapped into hours, so a 90 minute exam starts at 90:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
