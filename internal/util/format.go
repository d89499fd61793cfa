package util

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatHz formats a frequency for an axis label, switching to kHz above
// 1 kHz and dropping precision above 10 kHz.
func FormatHz(hz float64) string {
	switch {
	case hz > 10_000:
		return fmt.Sprintf("%.1f kHz", hz/1000)
	case hz > 1000:
		return fmt.Sprintf("%.2f kHz", hz/1000)
	default:
		return fmt.Sprintf("%.0f Hz", hz)
	}
}
