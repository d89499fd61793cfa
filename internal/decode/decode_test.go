package decode

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, path string, sampleRate, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("writing WAV samples: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing encoder: %v", err)
	}
}

func TestOpenRejectsUnsupportedExtension(t *testing.T) {
	if _, err := Open("track.m4a"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestWAVSourceDecodesMono16Bit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeWAV(t, path, 8000, 1, []int{0, 16384, -16384, 32767, -32768})

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 8000 {
		t.Fatalf("SampleRate() = %d, want 8000", src.SampleRate())
	}
	if src.TotalSamples() != 5 {
		t.Fatalf("TotalSamples() = %d, want 5", src.TotalSamples())
	}

	got := readAll(t, src)
	want := []float64{0, 0.5, -0.5, float64(32767) / 32768, -1}
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) >= 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWAVSourceAveragesStereoToMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	// Interleaved L/R pairs.
	writeWAV(t, path, 44100, 2, []int{16384, -16384, 8192, 8192, -32768, -32768})

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	if src.TotalSamples() != 3 {
		t.Fatalf("TotalSamples() = %d, want 3", src.TotalSamples())
	}

	got := readAll(t, src)
	want := []float64{0, 0.25, -1}
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) >= 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWAVSourceReadsInSmallChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.wav")
	data := make([]int, 1000)
	for i := range data {
		data[i] = (i%100 - 50) * 300
	}
	writeWAV(t, path, 44100, 1, data)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	var got []float64
	buf := make([]float64, 7)
	for {
		n, err := src.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}

	if len(got) != len(data) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(data))
	}
	for i, want := range data {
		if math.Abs(got[i]-float64(want)/32768) >= 1e-9 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], float64(want)/32768)
		}
	}
}

func readAll(t *testing.T, src Source) []float64 {
	t.Helper()
	var out []float64
	buf := make([]float64, 512)
	for {
		n, err := src.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}
}

func TestReadMetadataFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Evening Raga.mp3")
	if err := os.WriteFile(path, []byte("not an mp3"), 0o644); err != nil {
		t.Fatal(err)
	}

	meta := ReadMetadata(path)
	if meta.Title != "Evening Raga" {
		t.Fatalf("Title = %q, want %q", meta.Title, "Evening Raga")
	}
}
