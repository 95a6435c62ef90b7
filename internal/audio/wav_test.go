package audio

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/voxlate/voxlate/internal/models"
)

func sineless(n int) []int {
	samples := make([]int, n)
	for i := range samples {
		samples[i] = (i % 64) - 32
	}
	return samples
}

func testWAVBytes(t *testing.T, sampleRate, channels, samples int) []byte {
	t.Helper()
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           sineless(samples * channels),
		SourceBitDepth: 16,
	}
	data, err := EncodeWAV(buf, 16)
	if err != nil {
		t.Fatalf("encode wav: %v", err)
	}
	return data
}

func TestEncodeWAVProbeRoundTrip(t *testing.T) {
	data := testWAVBytes(t, 16000, 1, 16000)

	info, err := Probe(data)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if info.SampleRate != 16000 {
		t.Fatalf("sample rate = %d", info.SampleRate)
	}
	if info.Channels != 1 {
		t.Fatalf("channels = %d", info.Channels)
	}
	if info.BitDepth != 16 {
		t.Fatalf("bit depth = %d", info.BitDepth)
	}
	if got := info.Duration.Seconds(); got < 0.9 || got > 1.1 {
		t.Fatalf("duration = %v, want ~1s", info.Duration)
	}
}

func TestProbeRejectsGarbage(t *testing.T) {
	if _, err := Probe([]byte("definitely not a wav file")); err == nil {
		t.Fatal("expected error for non-wav bytes")
	}
}

func TestLoadWAV(t *testing.T) {
	data := testWAVBytes(t, 8000, 1, 800)
	path := filepath.Join(t.TempDir(), "sample.wav")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	payload, info, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("load wav: %v", err)
	}
	if payload.Format != models.AudioFormatWAV {
		t.Fatalf("format = %q", payload.Format)
	}
	if len(payload.Data) != len(data) {
		t.Fatalf("payload bytes = %d, want %d", len(payload.Data), len(data))
	}
	if info.SampleRate != 8000 {
		t.Fatalf("sample rate = %d", info.SampleRate)
	}
}

func TestLoadWAVMissingFile(t *testing.T) {
	if _, _, err := LoadWAV(filepath.Join(t.TempDir(), "absent.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEncodeWAVRequiresFormat(t *testing.T) {
	if _, err := EncodeWAV(&goaudio.IntBuffer{}, 16); err == nil {
		t.Fatal("expected error for buffer without format")
	}
}
