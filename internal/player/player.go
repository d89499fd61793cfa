// Package player provides preview playback of the file being analyzed, so
// the spectrogram can be matched against what is heard.
package player

import (
	"encoding/binary"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/olivier-w/grater/internal/decode"
)

const channelCount = 2

// pcmStream converts a mono float64 source into the s16le stereo stream oto
// consumes, counting frames so the playhead can be derived.
type pcmStream struct {
	src decode.Source

	mu       sync.Mutex
	samples  []float64
	leftover []byte
	frames   int64
	eof      bool
}

func (s *pcmStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.leftover) > 0 {
		n := copy(p, s.leftover)
		s.leftover = s.leftover[n:]
		return n, nil
	}
	if s.eof {
		return 0, io.EOF
	}

	want := len(p) / 4 // one mono sample per s16le stereo frame
	if want == 0 {
		want = 1
	}
	if cap(s.samples) < want {
		s.samples = make([]float64, want)
	}
	n, err := s.src.Read(s.samples[:want])
	if err == io.EOF {
		s.eof = true
		err = nil
	}
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*4)
	for i := 0; i < n; i++ {
		v := s.samples[i]
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		pcm := uint16(int16(v * 32767))
		binary.LittleEndian.PutUint16(raw[i*4:], pcm)
		binary.LittleEndian.PutUint16(raw[i*4+2:], pcm)
	}
	s.frames += int64(n)

	written := copy(p, raw)
	if written < len(raw) {
		s.leftover = raw[written:]
	}
	return written, err
}

// Frames returns the number of mono frames handed to the audio device so far.
func (s *pcmStream) Frames() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Player streams one decoded source through the system audio device.
type Player struct {
	stream *pcmStream
	otoCtx *oto.Context
	oto    *oto.Player
	rate   int

	mu     sync.Mutex
	paused bool
	closed bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

// One context per process; grater analyzes a single file per run, so the
// context can be created at that file's rate.
func initOto(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New opens path with its own decoding source and starts playback.
func New(path string) (*Player, error) {
	src, err := decode.Open(path)
	if err != nil {
		return nil, err
	}

	ctx, err := initOto(src.SampleRate())
	if err != nil {
		src.Close()
		return nil, err
	}

	p := &Player{
		stream: &pcmStream{src: src},
		otoCtx: ctx,
		rate:   src.SampleRate(),
	}
	p.oto = ctx.NewPlayer(p.stream)
	p.oto.SetVolume(0.8)
	p.oto.Play()
	return p, nil
}

// TogglePause switches between playing and paused.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.paused {
		p.oto.Play()
	} else {
		p.oto.Pause()
	}
	p.paused = !p.paused
}

// Paused reports whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Finished reports whether the stream is exhausted and the device drained.
func (p *Player) Finished() bool {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return true
	}
	p.stream.mu.Lock()
	eof := p.stream.eof && len(p.stream.leftover) == 0
	p.stream.mu.Unlock()
	return eof && !p.oto.IsPlaying()
}

// Position returns the playback position. It runs slightly ahead of the
// loudspeaker by the device's buffer, which is fine for a playhead marker.
func (p *Player) Position() time.Duration {
	secs := float64(p.stream.Frames()) / float64(p.rate)
	return time.Duration(secs * float64(time.Second))
}

// Close stops playback and releases the source.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.oto.Pause()
	return p.stream.src.Close()
}
