package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxlate/voxlate/internal/models"
)

func testPayload() models.AudioPayload {
	return models.AudioPayload{Data: []byte("RIFF-fake-wav-bytes"), Format: models.AudioFormatWAV}
}

func newStubAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	adapter, err := New(Options{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return adapter
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Options{APIKey: "   "})
	require.Error(t, err)
}

func TestSpeechTurnTextOnly(t *testing.T) {
	adapter := newStubAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, []any{"text"}, body["modalities"])
		require.NotContains(t, body, "audio")

		messages := body["messages"].([]any)
		require.Len(t, messages, 2)
		system := messages[0].(map[string]any)
		require.Equal(t, "system", system["role"])
		require.Equal(t, "transcribe verbatim", system["content"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-audio-preview",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello world."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	})

	result, err := adapter.SpeechTurn(context.Background(), models.SpeechTurnRequest{
		Model:       "gpt-4o-audio-preview",
		Instruction: "transcribe verbatim",
		Audio:       testPayload(),
		Modalities:  models.TextOnly,
	})
	require.NoError(t, err)
	require.Equal(t, models.SpeechResultText, result.Kind)
	require.Equal(t, "Hello world.", result.Text)
	require.Nil(t, result.Audio)
	require.Equal(t, int32(15), result.Usage.TotalTokens)
}

func TestSpeechTurnTextAndAudio(t *testing.T) {
	waveform := []byte("synthesized-waveform")
	adapter := newStubAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, []any{"text", "audio"}, body["modalities"])
		audioParams := body["audio"].(map[string]any)
		require.Equal(t, "wav", audioParams["format"])
		require.Equal(t, "alloy", audioParams["voice"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-2",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-audio-preview",
			"choices": []map[string]any{{
				"index": 0,
				"message": map[string]any{
					"role": "assistant",
					"audio": map[string]any{
						"id":         "audio-1",
						"transcript": "Hola mundo.",
						"data":       base64.StdEncoding.EncodeToString(waveform),
						"expires_at": 1700003600,
					},
				},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 20, "completion_tokens": 40, "total_tokens": 60},
		})
	})

	result, err := adapter.SpeechTurn(context.Background(), models.SpeechTurnRequest{
		Model:        "gpt-4o-audio-preview",
		Instruction:  "dub into Spanish",
		Audio:        testPayload(),
		Modalities:   models.TextAndAudio,
		Voice:        "alloy",
		OutputFormat: models.AudioFormatWAV,
	})
	require.NoError(t, err)
	require.Equal(t, models.SpeechResultAudio, result.Kind)
	require.NotNil(t, result.Audio)
	require.Equal(t, "Hola mundo.", result.Audio.Transcript)
	require.Equal(t, waveform, result.Audio.Data)
	require.Equal(t, models.AudioFormatWAV, result.Audio.Format)
}

func TestSpeechTurnRemoteFailureIsDeterministic(t *testing.T) {
	adapter := newStubAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": {"message": "engine overloaded"}}`))
	})

	_, err := adapter.SpeechTurn(context.Background(), models.SpeechTurnRequest{
		Model:       "gpt-4o-audio-preview",
		Instruction: "transcribe verbatim",
		Audio:       testPayload(),
		Modalities:  models.TextOnly,
	})
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	require.Equal(t, http.StatusServiceUnavailable, remoteErr.Status)
	require.Contains(t, remoteErr.Body, "engine overloaded")
}

func TestSpeechTurnModalityMismatch(t *testing.T) {
	// Audio requested but the message only carries plain content.
	adapter := newStubAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-3",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-audio-preview",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "text instead of audio"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
		}`))
	})

	_, err := adapter.SpeechTurn(context.Background(), models.SpeechTurnRequest{
		Model:        "gpt-4o-audio-preview",
		Instruction:  "dub into Spanish",
		Audio:        testPayload(),
		Modalities:   models.TextAndAudio,
		Voice:        "alloy",
		OutputFormat: models.AudioFormatWAV,
	})
	require.ErrorIs(t, err, ErrModalityMismatch)
}

func TestSpeechTurnRejectsEmptyModalities(t *testing.T) {
	adapter, err := New(Options{APIKey: "test-key"})
	require.NoError(t, err)
	_, err = adapter.SpeechTurn(context.Background(), models.SpeechTurnRequest{
		Model:       "gpt-4o-audio-preview",
		Instruction: "transcribe verbatim",
		Audio:       testPayload(),
	})
	require.Error(t, err)
}

func TestBuildSpeechParamsIsIdempotent(t *testing.T) {
	req := models.SpeechTurnRequest{
		Model:        "gpt-4o-audio-preview",
		Instruction:  "dub into Spanish, preserving glossary terms verbatim",
		Audio:        testPayload(),
		Modalities:   models.TextAndAudio,
		Voice:        "alloy",
		OutputFormat: models.AudioFormatWAV,
	}

	first, err := json.Marshal(buildSpeechParams(req))
	require.NoError(t, err)
	second, err := json.Marshal(buildSpeechParams(req))
	require.NoError(t, err)
	require.Equal(t, first, second, "request body must contain no hidden timestamp or nonce fields")
}

func TestNormalizeErrorPassesThroughUnknownErrors(t *testing.T) {
	sentinel := errors.New("dial tcp: connection refused")
	require.ErrorIs(t, normalizeError(sentinel), sentinel)
}
