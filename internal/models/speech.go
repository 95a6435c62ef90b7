package models

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Modality is an output kind requested from the completion endpoint.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityAudio Modality = "audio"
)

// ModalitySet is an ordered set of requested output modalities.
type ModalitySet []Modality

// TextOnly and TextAndAudio cover the two shapes the remote endpoint
// actually supports for speech turns.
var (
	TextOnly     = ModalitySet{ModalityText}
	TextAndAudio = ModalitySet{ModalityText, ModalityAudio}
)

func (s ModalitySet) Has(m Modality) bool {
	for _, v := range s {
		if v == m {
			return true
		}
	}
	return false
}

func (s ModalitySet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, m := range s {
		out = append(out, string(m))
	}
	return out
}

// Validate rejects empty or unknown modality sets before a request is built.
func (s ModalitySet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("modality set must not be empty")
	}
	for _, m := range s {
		switch m {
		case ModalityText, ModalityAudio:
		default:
			return fmt.Errorf("unknown modality %q", m)
		}
	}
	return nil
}

// AudioFormat tags the container format of an audio payload.
type AudioFormat string

const (
	AudioFormatWAV AudioFormat = "wav"
	AudioFormatMP3 AudioFormat = "mp3"
)

// AudioPayload holds raw audio samples and their container format. It only
// lives for the duration of a single request construction.
type AudioPayload struct {
	Data   []byte
	Format AudioFormat
}

// Base64 returns the payload encoded for inline transport.
func (p AudioPayload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// DecodeAudioBase64 is the inverse of AudioPayload.Base64.
func DecodeAudioBase64(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	return data, nil
}

// SpeechTurnRequest carries everything needed for one speech turn against
// the multimodal completion endpoint.
type SpeechTurnRequest struct {
	Model       string
	Instruction string
	Audio       AudioPayload
	Modalities  ModalitySet
	// Voice and OutputFormat steer synthesis; only consulted when the
	// modality set includes audio.
	Voice        string
	OutputFormat AudioFormat
}

// SpeechResultKind discriminates the two response shapes of a speech turn.
type SpeechResultKind string

const (
	SpeechResultText  SpeechResultKind = "text"
	SpeechResultAudio SpeechResultKind = "audio"
)

// SynthesizedAudio is the audio half of an audio-modality response.
type SynthesizedAudio struct {
	// Transcript is the target-language script of the synthesized speech.
	Transcript string
	// Data holds the decoded waveform bytes.
	Data   []byte
	Format AudioFormat
}

// SpeechTurnResult is the normalized reply to a speech turn. Exactly one of
// Text or Audio is populated, keyed by Kind: a text-only request yields
// Kind=SpeechResultText, a request that included the audio modality yields
// Kind=SpeechResultAudio.
type SpeechTurnResult struct {
	Kind  SpeechResultKind
	Text  string
	Audio *SynthesizedAudio
	Usage Usage
}

// Transcript returns the textual content of the result regardless of shape.
func (r SpeechTurnResult) Transcript() string {
	if r.Kind == SpeechResultAudio && r.Audio != nil {
		return r.Audio.Transcript
	}
	return r.Text
}

// Usage mirrors the endpoint's token accounting.
type Usage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CompletionTokens int32 `json:"completion_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
}

// Add merges usage across sequential pipeline calls.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
	}
}
