package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"

	"github.com/voxlate/voxlate/internal/models"
)

// Info describes a WAV container.
type Info struct {
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	BitDepth   int           `json:"bit_depth"`
	Duration   time.Duration `json:"duration"`
}

// LoadWAV reads a waveform file into a payload ready for request
// construction. The file is validated as a WAV container but its samples are
// passed through untouched.
func LoadWAV(path string) (models.AudioPayload, Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.AudioPayload{}, Info{}, fmt.Errorf("read wav file: %w", err)
	}
	info, err := Probe(data)
	if err != nil {
		return models.AudioPayload{}, Info{}, err
	}
	return models.AudioPayload{Data: data, Format: models.AudioFormatWAV}, info, nil
}

// Probe parses the container header of WAV bytes.
func Probe(data []byte) (Info, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("not a valid wav file")
	}
	dec.ReadInfo()
	duration, err := dec.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("read wav duration: %w", err)
	}
	return Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Duration:   duration,
	}, nil
}

// EncodeWAV renders a PCM buffer into WAV bytes in memory.
func EncodeWAV(buf *goaudio.IntBuffer, bitDepth int) ([]byte, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("pcm buffer with format required")
	}
	ws := &writerseeker.WriterSeeker{}
	enc := wav.NewEncoder(ws, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, 1)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize wav: %w", err)
	}
	out, err := io.ReadAll(ws.Reader())
	if err != nil {
		return nil, fmt.Errorf("read encoded wav: %w", err)
	}
	return out, nil
}
