// Package decode turns audio containers into flat sequences of normalized
// mono samples for spectral analysis.
package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// A Source delivers decoded audio incrementally, in caller-sized chunks.
type Source interface {
	// Read fills dst with the next mono samples, normalized to [-1, 1],
	// averaging channels for multi-channel input. It returns the number of
	// samples written and io.EOF once the stream is exhausted.
	Read(dst []float64) (int, error)

	// SampleRate returns the stream's sample rate in Hz.
	SampleRate() int

	// TotalSamples returns the total number of mono samples in the stream,
	// or -1 when the container does not know it up front.
	TotalSamples() int64

	// Close releases the underlying file.
	Close() error
}

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// IsSupportedExt returns true if the extension is a supported audio format.
func IsSupportedExt(ext string) bool {
	return audioExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of supported formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .flac, .ogg"
}

// Open detects the format by file extension and returns a decoding source.
func Open(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupportedExt(ext) {
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var src Source
	switch ext {
	case ".mp3":
		src, err = newMP3Source(f)
	case ".wav":
		src, err = newWAVSource(f)
	case ".flac":
		src, err = newFLACSource(f)
	case ".ogg":
		src, err = newOGGSource(f)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}
