package models

import (
	"bytes"
	"testing"
)

func TestAudioPayloadBase64RoundTrip(t *testing.T) {
	original := []byte{0x52, 0x49, 0x46, 0x46, 0x00, 0xFF, 0x7F, 0x80}
	payload := AudioPayload{Data: original, Format: AudioFormatWAV}

	decoded, err := DecodeAudioBase64(payload.Base64())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Fatalf("round trip mismatch: got %v want %v", decoded, original)
	}
}

func TestDecodeAudioBase64Invalid(t *testing.T) {
	if _, err := DecodeAudioBase64("not base64!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestModalitySetValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     ModalitySet
		wantErr bool
	}{
		{"text only", TextOnly, false},
		{"text and audio", TextAndAudio, false},
		{"empty", ModalitySet{}, true},
		{"unknown", ModalitySet{"video"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSpeechTurnResultTranscript(t *testing.T) {
	textResult := SpeechTurnResult{Kind: SpeechResultText, Text: "hello"}
	if got := textResult.Transcript(); got != "hello" {
		t.Fatalf("text transcript = %q", got)
	}

	audioResult := SpeechTurnResult{
		Kind:  SpeechResultAudio,
		Audio: &SynthesizedAudio{Transcript: "hola", Data: []byte{1}},
	}
	if got := audioResult.Transcript(); got != "hola" {
		t.Fatalf("audio transcript = %q", got)
	}
}

func TestUsageAdd(t *testing.T) {
	total := Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}.
		Add(Usage{PromptTokens: 2, CompletionTokens: 3, TotalTokens: 5})
	if total.PromptTokens != 12 || total.CompletionTokens != 8 || total.TotalTokens != 20 {
		t.Fatalf("unexpected usage: %+v", total)
	}
}
