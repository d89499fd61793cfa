package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/grater/internal/decode"
	"github.com/olivier-w/grater/internal/dsp"
	"github.com/olivier-w/grater/internal/player"
	"github.com/olivier-w/grater/internal/render"
	"github.com/olivier-w/grater/internal/spectrogram"
	"github.com/olivier-w/grater/internal/util"
)

const (
	// Samples per Read from the decoder, and reads per background pass.
	// Bounding the pass keeps the UI responsive: each pass re-posts itself,
	// which acts like a yield point, and partial spectrograms render as
	// decoding progresses.
	decodeChunk   = 8192
	chunksPerPass = 24

	// Resolution for exported bitmaps.
	exportWidth  = 1600
	exportHeight = 960

	// Space left of the graph for axis labels like "22.1 kHz" plus a tick.
	labelGutter = 10
)

// Model is the Bubbletea model for the spectrogram viewer.
type Model struct {
	path    string
	meta    decode.Metadata
	src     decode.Source
	builder *spectrogram.Builder

	sampleRate   int
	totalSamples int64 // -1 when the container does not know
	decoded      int64
	decoding     bool
	decodeErr    string

	width  int
	height int

	spin spinner.Model
	prog progress.Model

	play        *player.Player
	playing     bool
	spring      harmonica.Spring
	playheadPos float64
	playheadVel float64

	statusMsg  string
	statusTime time.Time
	quitting   bool
}

// New creates a viewer for src, which it decodes in the background once the
// model runs.
func New(src decode.Source, meta decode.Metadata, path string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
		progress.WithoutPercentage(),
	)
	p.Width = 30

	return Model{
		path:         path,
		meta:         meta,
		src:          src,
		builder:      spectrogram.NewBuilder(spectrogram.DefaultWindowLen, spectrogram.DefaultHop, dsp.Hann),
		sampleRate:   src.SampleRate(),
		totalSamples: src.TotalSamples(),
		decoding:     true,
		spin:         s,
		prog:         p,
		spring:       harmonica.NewSpring(harmonica.FPS(10), 6.0, 0.9),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		decodePass(m.src, m.builder),
		tea.SetWindowTitle(m.meta.Title),
	)
}

// decodePass reads a bounded number of chunks, feeds them to the builder,
// and reports back. The final pass flushes the trailing partial window.
func decodePass(src decode.Source, b *spectrogram.Builder) tea.Cmd {
	return func() tea.Msg {
		buf := make([]float64, decodeChunk)
		var total int64
		for i := 0; i < chunksPerPass; i++ {
			n, err := src.Read(buf)
			if n > 0 {
				b.Append(buf[:n])
				total += int64(n)
			}
			if err == io.EOF {
				b.Flush()
				return decodeMsg{samples: total, done: true}
			}
			if err != nil {
				b.Flush()
				return decodeMsg{samples: total, done: true, err: err}
			}
		}
		return decodeMsg{samples: total}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			m.src.Close()
			if m.play != nil {
				m.play.Close()
			}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		switch msg.String() {
		case " ":
			return m.togglePlayback()
		case "e":
			m.statusMsg = "Exporting..."
			m.statusTime = time.Now()
			return m, exportCmd(m.builder, m.path)
		}
		return m, nil

	case decodeMsg:
		m.decoded += msg.samples
		if msg.err != nil {
			// Keep whatever decoded cleanly; the partial spectrogram is
			// still worth looking at.
			m.decodeErr = msg.err.Error()
		}
		if msg.done {
			m.decoding = false
			m.src.Close()
			return m, nil
		}
		return m, decodePass(m.src, m.builder)

	case spinner.TickMsg:
		if !m.decoding {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tickMsg:
		if m.play == nil {
			return m, nil
		}
		if m.play.Finished() {
			m.play.Close()
			m.play = nil
			m.playing = false
			m.playheadPos, m.playheadVel = 0, 0
			return m, nil
		}
		target := m.playheadTarget()
		m.playheadPos, m.playheadVel = m.spring.Update(m.playheadPos, m.playheadVel, target)
		return m, tickCmd()

	case playerReadyMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Playback failed: %v", msg.err)
			m.statusTime = time.Now()
			return m, nil
		}
		m.play = msg.player
		m.playing = true
		return m, tickCmd()

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("Exported to %s", msg.dest)
		}
		m.statusTime = time.Now()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - labelGutter - 20
		if barWidth < 10 {
			barWidth = 10
		}
		if barWidth > 40 {
			barWidth = 40
		}
		m.prog.Width = barWidth
		return m, nil
	}

	return m, nil
}

func (m Model) togglePlayback() (tea.Model, tea.Cmd) {
	if m.play != nil {
		m.play.TogglePause()
		m.playing = !m.play.Paused()
		if m.playing {
			return m, tickCmd()
		}
		return m, nil
	}
	path := m.path
	return m, func() tea.Msg {
		p, err := player.New(path)
		return playerReadyMsg{player: p, err: err}
	}
}

// playheadTarget returns the playback position as a fraction of the graph.
func (m Model) playheadTarget() float64 {
	if m.play == nil {
		return 0
	}
	total := m.duration()
	if total <= 0 {
		return 0
	}
	t := float64(m.play.Position()) / float64(total)
	if t > 1 {
		t = 1
	}
	return t
}

// duration returns the best known length of the audio: the container's count
// when available, otherwise what has been decoded so far.
func (m Model) duration() time.Duration {
	samples := m.totalSamples
	if samples < 0 || samples < m.decoded {
		samples = m.decoded
	}
	if m.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(samples) / float64(m.sampleRate) * float64(time.Second))
}

func exportCmd(b *spectrogram.Builder, path string) tea.Cmd {
	return func() tea.Msg {
		dest := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
		s := spectrogram.NewSampler(b)
		bmp := render.Generate(exportWidth, exportHeight, func(x, y int) float64 {
			return s.Intensity(x, y, exportWidth, exportHeight)
		})

		f, err := os.Create(dest)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		defer f.Close()
		if err := bmp.WritePNG(f); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{dest: filepath.Base(dest)}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return ""
	}

	graphW := m.width - labelGutter - 1
	graphH := m.height - 4
	if graphW < 8 || graphH < 2 {
		return statusStyle.Render("window too small")
	}

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(titleStyle.Render(m.meta.Title))
	if m.meta.Artist != "" {
		b.WriteString("  ")
		b.WriteString(artistStyle.Render(m.meta.Artist))
	}
	b.WriteString("\n")

	b.WriteString(m.renderGraph(graphW, graphH))
	b.WriteString("\n")
	b.WriteString(m.renderTimeAxis(graphW))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderGraph(graphW, graphH int) string {
	sampler := spectrogram.NewSampler(m.builder)

	var lines []string
	if sampler.Count() == 0 {
		blank := strings.Repeat(" ", graphW)
		lines = make([]string, graphH)
		for i := range lines {
			lines[i] = blank
		}
	} else {
		// Two bitmap rows per terminal row, stacked with half blocks.
		bmpH := graphH * 2
		bmp := render.Generate(graphW, bmpH, func(x, y int) float64 {
			return sampler.Intensity(x, y, graphW, bmpH)
		})
		lines = render.HalfBlocks(bmp)
	}

	labels := make([]string, graphH)
	for _, tk := range freqTicks(m.sampleRate, m.builder.WindowLen()) {
		row := int((1-tk.position)*float64(graphH-1) + 0.5)
		if row >= 0 && row < graphH {
			labels[row] = tk.label
		}
	}

	var b strings.Builder
	for r := 0; r < graphH; r++ {
		label := labels[r]
		pad := labelGutter - 2 - len(label)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad))
		if label != "" {
			b.WriteString(axisStyle.Render(label + " ┤"))
		} else {
			b.WriteString(axisStyle.Render(" │"))
		}
		b.WriteString(lines[r])
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTimeAxis draws the bottom ruler with m:ss labels and, during
// playback, the sprung playhead marker.
func (m Model) renderTimeAxis(graphW int) string {
	ruler := []rune(strings.Repeat("─", graphW))
	ticks := timeTicks(m.duration(), graphW)
	for _, tk := range ticks {
		col := int(tk.position * float64(graphW-1))
		ruler[col] = '┬'
	}
	if m.play != nil {
		col := int(m.playheadPos * float64(graphW-1))
		if col >= 0 && col < graphW {
			ruler[col] = '▲'
		}
	}

	labels := make([]rune, graphW)
	for i := range labels {
		labels[i] = ' '
	}
	for _, tk := range ticks {
		col := int(tk.position * float64(graphW-1))
		for j, ch := range tk.label {
			pos := col + j
			if tk.position == 1 {
				pos = col - len(tk.label) + 1 + j
			}
			if pos >= 0 && pos < graphW {
				labels[pos] = ch
			}
		}
	}

	gutter := strings.Repeat(" ", labelGutter-1)
	return gutter + axisStyle.Render("└"+string(ruler)) + "\n" +
		gutter + " " + axisStyle.Render(string(labels))
}

func (m Model) renderStatus() string {
	var b strings.Builder
	b.WriteString(" ")

	switch {
	case m.decodeErr != "":
		b.WriteString(errorStyle.Render("Decode error: " + m.decodeErr))
	case m.decoding:
		b.WriteString(m.spin.View())
		b.WriteString(statusStyle.Render(" Decoding "))
		if m.totalSamples > 0 {
			b.WriteString(m.prog.ViewAs(float64(m.decoded) / float64(m.totalSamples)))
		}
	default:
		b.WriteString(statusStyle.Render(util.FormatDuration(m.duration())))
		if m.playing {
			b.WriteString(statusStyle.Render("  playing " + util.FormatDuration(m.play.Position())))
		}
	}

	if m.statusMsg != "" && time.Since(m.statusTime) < 5*time.Second {
		b.WriteString("  ")
		b.WriteString(statusStyle.Render(m.statusMsg))
	}

	b.WriteString("  ")
	b.WriteString(helpStyle.Render(helpText(m.playing)))
	return b.String()
}
