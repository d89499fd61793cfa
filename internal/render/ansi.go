package render

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
)

type colorProfile uint8

const (
	colorNone colorProfile = iota
	colorANSI16
	colorANSI256
	colorTrueColor
)

var (
	profileOnce sync.Once
	profile     colorProfile
	seqCache    sync.Map
)

// detectProfile decides the color capability from the environment; env is
// injectable so tests do not depend on the process environment.
func detectProfile(env func(string) (string, bool)) colorProfile {
	if _, disabled := env("NO_COLOR"); disabled {
		return colorNone
	}
	term, _ := env("TERM")
	colorTerm, _ := env("COLORTERM")
	term = strings.ToLower(term)
	colorTerm = strings.ToLower(colorTerm)
	switch {
	case strings.Contains(colorTerm, "truecolor"), strings.Contains(colorTerm, "24bit"):
		return colorTrueColor
	case strings.Contains(term, "256color"):
		return colorANSI256
	case term == "", term == "dumb":
		return colorNone
	default:
		return colorANSI16
	}
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func currentColorProfile() colorProfile {
	profileOnce.Do(func() {
		profile = detectProfile(lookupEnv)
	})
	return profile
}

// Grayscale ramp used when the terminal has no color support.
var shadeChars = []rune{' ', '.', ':', '-', '=', '+', '*', '#', '%', '@'}

// HalfBlocks renders the bitmap with upper-half-block cells, pairing two
// bitmap rows per terminal row: the foreground colors the top row, the
// background the bottom one. On colorless terminals it falls back to a
// grayscale character ramp. The bitmap height should be even; a trailing odd
// row is dropped.
func HalfBlocks(b *Bitmap) []string {
	rows := b.Height / 2
	out := make([]string, rows)
	prof := currentColorProfile()

	for r := 0; r < rows; r++ {
		var line strings.Builder
		if prof == colorNone {
			for x := 0; x < b.Width; x++ {
				top := b.At(x, r*2)
				bottom := b.At(x, r*2+1)
				line.WriteRune(shadeRune(top, bottom))
			}
			out[r] = line.String()
			continue
		}

		state := newANSIState()
		for x := 0; x < b.Width; x++ {
			state.set(&line, b.At(x, r*2), b.At(x, r*2+1))
			line.WriteRune('▀')
		}
		state.reset(&line)
		out[r] = line.String()
	}
	return out
}

func shadeRune(top, bottom RGB) rune {
	lum := func(c RGB) float64 {
		return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
	}
	v := (lum(top) + lum(bottom)) / 2
	idx := int(v * float64(len(shadeChars)-1))
	if idx >= len(shadeChars) {
		idx = len(shadeChars) - 1
	}
	return shadeChars[idx]
}

type ansiState struct {
	profile colorProfile
	fg      uint32
	bg      uint32
}

func newANSIState() ansiState {
	return ansiState{profile: currentColorProfile(), fg: ^uint32(0), bg: ^uint32(0)}
}

func (s *ansiState) set(sb *strings.Builder, fg, bg RGB) {
	if s.profile == colorNone {
		return
	}
	if key := colorKey(fg); key != s.fg {
		sb.WriteString(colorSequence(s.profile, fg, false))
		s.fg = key
	}
	if key := colorKey(bg); key != s.bg {
		sb.WriteString(colorSequence(s.profile, bg, true))
		s.bg = key
	}
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.profile == colorNone || (s.fg == ^uint32(0) && s.bg == ^uint32(0)) {
		return
	}
	sb.WriteString("\x1b[0m")
	s.fg = ^uint32(0)
	s.bg = ^uint32(0)
}

func colorKey(c RGB) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func colorSequence(profile colorProfile, c RGB, background bool) string {
	key := uint64(profile)<<32 | uint64(colorKey(c))<<2
	if background {
		key |= 1
	}
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	base := 38
	if background {
		base = 48
	}

	var seq string
	switch profile {
	case colorTrueColor:
		seq = fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", base, c.R, c.G, c.B)
	case colorANSI256:
		r := int(c.R) * 5 / 255
		g := int(c.G) * 5 / 255
		b := int(c.B) * 5 / 255
		idx := 16 + 36*r + 6*g + b
		seq = fmt.Sprintf("\x1b[%d;5;%dm", base, idx)
	case colorANSI16:
		pal := []RGB{
			{R: 0, G: 0, B: 0},
			{R: 205, G: 49, B: 49},
			{R: 13, G: 188, B: 121},
			{R: 229, G: 229, B: 16},
			{R: 36, G: 114, B: 200},
			{R: 188, G: 63, B: 188},
			{R: 17, G: 168, B: 205},
			{R: 229, G: 229, B: 229},
		}
		best := 0
		bestDist := math.MaxFloat64
		for i, p := range pal {
			dr := float64(c.R) - float64(p.R)
			dg := float64(c.G) - float64(p.G)
			db := float64(c.B) - float64(p.B)
			d := dr*dr + dg*dg + db*db
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		offset := 30
		if background {
			offset = 40
		}
		seq = fmt.Sprintf("\x1b[%dm", offset+best)
	default:
		seq = ""
	}

	seqCache.Store(key, seq)
	return seq
}
