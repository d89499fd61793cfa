package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{61 * time.Second, "1:01"},
		{10*time.Minute + 5*time.Second, "10:05"},
		{-3 * time.Second, "0:00"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.d); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatHz(t *testing.T) {
	cases := []struct {
		hz   float64
		want string
	}{
		{5.4, "5 Hz"},
		{440, "440 Hz"},
		{1500, "1.50 kHz"},
		{22050, "22.1 kHz"},
	}
	for _, tc := range cases {
		if got := FormatHz(tc.hz); got != tc.want {
			t.Errorf("FormatHz(%v) = %q, want %q", tc.hz, got, tc.want)
		}
	}
}
