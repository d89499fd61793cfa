package ui

import (
	"time"

	"github.com/olivier-w/grater/internal/spectrogram"
	"github.com/olivier-w/grater/internal/util"
)

// A tick is a labelled axis position; 0 is bottom/left, 1 is top/right.
type tick struct {
	position float64
	label    string
}

const majorFreqTicks = 10

// freqTicks places the frequency axis labels. The lowest frequency the
// transform resolves above the constant bin is one cycle per window; the
// highest is half the sample rate.
func freqTicks(sampleRate, windowLen int) []tick {
	hzMin := float64(sampleRate) / float64(windowLen)
	hzMax := float64(sampleRate) / 2

	ticks := make([]tick, majorFreqTicks)
	for i := range ticks {
		t := float64(i) / (majorFreqTicks - 1)
		ticks[i] = tick{
			position: t,
			label:    util.FormatHz(spectrogram.MapAxis(t, hzMin, hzMax)),
		}
	}
	return ticks
}

// timeTicks places m:ss labels along the bottom, spaced to the graph width.
func timeTicks(total time.Duration, width int) []tick {
	n := width / 16
	if n < 2 {
		n = 2
	}
	if n > 8 {
		n = 8
	}

	ticks := make([]tick, n)
	for i := range ticks {
		t := float64(i) / float64(n-1)
		ticks[i] = tick{
			position: t,
			label:    util.FormatDuration(time.Duration(t * float64(total))),
		}
	}
	return ticks
}
