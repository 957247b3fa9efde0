package shared

import "fmt"

// FormatDuration renders a millisecond duration as m:ss (or h:mm:ss past an
// hour).
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// VisibilityString renders a playlist's public flag; nil means the server
// did not report one.
func VisibilityString(public *bool) string {
	switch {
	case public == nil:
		return "Unknown"
	case *public:
		return "Public"
	default:
		return "Private"
	}
}
