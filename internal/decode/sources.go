package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// --- MP3 ---

// go-mp3 always produces 16-bit little-endian stereo at the native rate.
type mp3Source struct {
	file *os.File
	dec  *mp3.Decoder
	raw  []byte
}

func newMP3Source(f *os.File) (*mp3Source, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}
	return &mp3Source{file: f, dec: dec}, nil
}

func (s *mp3Source) Read(dst []float64) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	need := len(dst) * 4 // one mono sample per s16le stereo frame
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	n, err := io.ReadFull(s.dec, s.raw[:need])
	frames := n / 4
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(s.raw[i*4:]))
		r := int16(binary.LittleEndian.Uint16(s.raw[i*4+2:]))
		dst[i] = (float64(l) + float64(r)) / 2 / 32768
	}
	if err == io.ErrUnexpectedEOF || (err == nil && frames == 0) {
		err = io.EOF
	}
	if frames > 0 && err == io.EOF {
		// Deliver the tail first; the next call reports EOF.
		err = nil
	}
	return frames, err
}

func (s *mp3Source) SampleRate() int { return s.dec.SampleRate() }

func (s *mp3Source) TotalSamples() int64 { return s.dec.Length() / 4 }

func (s *mp3Source) Close() error { return s.file.Close() }

// --- WAV ---

type wavSource struct {
	file        *os.File
	sampleRate  int
	channels    int
	bitDepth    int
	totalFrames int64
	readFrames  int64
	raw         []byte
}

func newWAVSource(f *os.File) (*wavSource, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}

	// FwdToPCM positions the reader at the start of PCM data; from there the
	// samples are read raw, which keeps decoding incremental.
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if channels < 1 {
		return nil, fmt.Errorf("invalid WAV channel count: %d", channels)
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth: %d", bitDepth)
	}

	frameSize := int64(channels) * int64(bitDepth) / 8
	return &wavSource{
		file:        f,
		sampleRate:  int(dec.SampleRate),
		channels:    channels,
		bitDepth:    bitDepth,
		totalFrames: dec.PCMLen() / frameSize,
	}, nil
}

func (s *wavSource) Read(dst []float64) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	// Stop at the end of the data chunk; trailing chunks are not audio.
	remaining := s.totalFrames - s.readFrames
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(dst)) > remaining {
		dst = dst[:remaining]
	}
	bytesPerSample := s.bitDepth / 8
	frameSize := s.channels * bytesPerSample
	need := len(dst) * frameSize
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	n, err := io.ReadFull(s.file, s.raw[:need])
	frames := n / frameSize
	scale := float64(int64(1) << (s.bitDepth - 1))

	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < s.channels; ch++ {
			off := i*frameSize + ch*bytesPerSample
			var v int64
			switch s.bitDepth {
			case 8:
				// 8-bit WAV is unsigned.
				v = int64(s.raw[off]) - 128
			case 16:
				v = int64(int16(binary.LittleEndian.Uint16(s.raw[off:])))
			case 24:
				u := int32(s.raw[off]) | int32(s.raw[off+1])<<8 | int32(s.raw[off+2])<<16
				if u&0x800000 != 0 {
					u |= ^int32(0xFFFFFF)
				}
				v = int64(u)
			case 32:
				v = int64(int32(binary.LittleEndian.Uint32(s.raw[off:])))
			}
			sum += float64(v) / scale
		}
		dst[i] = sum / float64(s.channels)
	}
	s.readFrames += int64(frames)
	if err == io.ErrUnexpectedEOF || (err == nil && frames == 0) {
		err = io.EOF
	}
	if frames > 0 && err == io.EOF {
		err = nil
	}
	return frames, err
}

func (s *wavSource) SampleRate() int { return s.sampleRate }

func (s *wavSource) TotalSamples() int64 { return s.totalFrames }

func (s *wavSource) Close() error { return s.file.Close() }

// --- FLAC ---

type flacSource struct {
	file       *os.File
	stream     *flac.Stream
	sampleRate int
	channels   int
	bps        int
	total      int64
	buf        []float64
}

func newFLACSource(f *os.File) (*flacSource, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	return &flacSource{
		file:       f,
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bps:        int(info.BitsPerSample),
		total:      int64(info.NSamples),
	}, nil
}

func (s *flacSource) Read(dst []float64) (int, error) {
	filled := 0
	for filled < len(dst) {
		if len(s.buf) > 0 {
			n := copy(dst[filled:], s.buf)
			s.buf = s.buf[n:]
			filled += n
			continue
		}

		frame, err := s.stream.ParseNext()
		if err != nil {
			if filled > 0 && err == io.EOF {
				return filled, nil
			}
			return filled, err
		}

		nSamples := int(frame.Subframes[0].NSamples)
		scale := float64(int64(1) << (s.bps - 1))
		if cap(s.buf) < nSamples {
			s.buf = make([]float64, nSamples)
		}
		s.buf = s.buf[:nSamples]
		for i := 0; i < nSamples; i++ {
			var sum float64
			for ch := 0; ch < s.channels; ch++ {
				sum += float64(frame.Subframes[ch].Samples[i]) / scale
			}
			s.buf[i] = sum / float64(s.channels)
		}
	}
	return filled, nil
}

func (s *flacSource) SampleRate() int { return s.sampleRate }

func (s *flacSource) TotalSamples() int64 {
	if s.total == 0 {
		return -1
	}
	return s.total
}

func (s *flacSource) Close() error { return s.file.Close() }

// --- Ogg Vorbis ---

type oggSource struct {
	file     *os.File
	reader   *oggvorbis.Reader
	channels int
	raw      []float32
}

func newOGGSource(f *os.File) (*oggSource, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding Ogg Vorbis: %w", err)
	}
	return &oggSource{file: f, reader: reader, channels: reader.Channels()}, nil
}

func (s *oggSource) Read(dst []float64) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	need := len(dst) * s.channels
	if cap(s.raw) < need {
		s.raw = make([]float32, need)
	}
	// The reader returns whole frames only, so n is a channel multiple.
	n, err := s.reader.Read(s.raw[:need])
	frames := n / s.channels
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < s.channels; ch++ {
			sum += float64(s.raw[i*s.channels+ch])
		}
		dst[i] = sum / float64(s.channels)
	}
	if err == nil && frames == 0 {
		err = io.EOF
	}
	if frames > 0 && err == io.EOF {
		err = nil
	}
	return frames, err
}

func (s *oggSource) SampleRate() int { return s.reader.SampleRate() }

func (s *oggSource) TotalSamples() int64 { return s.reader.Length() }

func (s *oggSource) Close() error { return s.file.Close() }
