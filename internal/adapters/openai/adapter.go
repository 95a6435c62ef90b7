package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/voxlate/voxlate/internal/models"
)

// ErrModalityMismatch reports a 2xx response whose shape does not match the
// requested modality set. Without this check a missing field would surface
// as an incidental lookup failure far from the call site.
var ErrModalityMismatch = errors.New("openai: response shape does not match requested modalities")

// RemoteError is the single remote failure kind: the endpoint answered with
// a non-success status. It carries the status and raw body so callers can
// report the failure deterministically. There is no retry.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("openai: remote call failed with status %d: %s", e.Status, e.Body)
}

// Options configure the speech adapter. The API key is injected here rather
// than read from the environment so the adapter stays testable with a fake
// credential.
type Options struct {
	APIKey       string
	BaseURL      string
	Organization string
	Extra        []option.RequestOption
}

// Adapter wraps the official OpenAI SDK for multimodal speech turns.
type Adapter struct {
	client *openai.Client
}

// New creates a speech adapter using the provided API key and optional base
// URL/organization.
func New(opts Options) (*Adapter, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai: api key required")
	}

	requestOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if strings.TrimSpace(opts.BaseURL) != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(strings.TrimRight(opts.BaseURL, "/")))
	}
	if strings.TrimSpace(opts.Organization) != "" {
		requestOpts = append(requestOpts, option.WithOrganization(strings.TrimSpace(opts.Organization)))
	}
	requestOpts = append(requestOpts, option.WithMaxRetries(0))
	requestOpts = append(requestOpts, opts.Extra...)

	client := openai.NewClient(requestOpts...)
	return &Adapter{client: &client}, nil
}

// SpeechTurn issues exactly one synchronous chat completion carrying the
// audio payload and returns the normalized result. The request body is a
// pure function of req: repeated calls with identical arguments build
// identical bodies and are never cached or deduplicated.
func (a *Adapter) SpeechTurn(ctx context.Context, req models.SpeechTurnRequest) (models.SpeechTurnResult, error) {
	if err := req.Modalities.Validate(); err != nil {
		return models.SpeechTurnResult{}, fmt.Errorf("openai: %w", err)
	}
	if len(req.Audio.Data) == 0 {
		return models.SpeechTurnResult{}, errors.New("openai: audio payload required")
	}

	params := buildSpeechParams(req)
	resp, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return models.SpeechTurnResult{}, normalizeError(err)
	}
	result, err := convertSpeechResult(*resp, req.Modalities)
	if err != nil {
		return models.SpeechTurnResult{}, err
	}
	if result.Audio != nil {
		result.Audio.Format = req.OutputFormat
	}
	return result, nil
}

func buildSpeechParams(req models.SpeechTurnRequest) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Instruction),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.InputAudioContentPart(openai.ChatCompletionContentPartInputAudioInputAudioParam{
					Data:   req.Audio.Base64(),
					Format: string(req.Audio.Format),
				}),
			}),
		},
		Modalities: req.Modalities.Strings(),
	}
	if req.Modalities.Has(models.ModalityAudio) {
		params.Audio = openai.ChatCompletionAudioParam{
			Format: openai.ChatCompletionAudioParamFormat(req.OutputFormat),
			Voice:  openai.ChatCompletionAudioParamVoice(req.Voice),
		}
	}
	return params
}

func normalizeError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &RemoteError{Status: apiErr.StatusCode, Body: apiErr.RawJSON()}
	}
	return err
}

// convertSpeechResult enforces the union contract: if audio was requested
// the message must contain an audio sub-structure with both a transcript and
// sample data; a text-only request must yield a plain content string.
func convertSpeechResult(resp openai.ChatCompletion, modalities models.ModalitySet) (models.SpeechTurnResult, error) {
	if len(resp.Choices) == 0 {
		return models.SpeechTurnResult{}, fmt.Errorf("%w: response has no choices", ErrModalityMismatch)
	}
	message := resp.Choices[0].Message
	usage := models.Usage{
		PromptTokens:     int32(resp.Usage.PromptTokens),
		CompletionTokens: int32(resp.Usage.CompletionTokens),
		TotalTokens:      int32(resp.Usage.TotalTokens),
	}

	if modalities.Has(models.ModalityAudio) {
		if message.Audio.Transcript == "" || message.Audio.Data == "" {
			return models.SpeechTurnResult{}, fmt.Errorf("%w: audio requested but transcript or data missing", ErrModalityMismatch)
		}
		data, err := models.DecodeAudioBase64(message.Audio.Data)
		if err != nil {
			return models.SpeechTurnResult{}, err
		}
		return models.SpeechTurnResult{
			Kind: models.SpeechResultAudio,
			Audio: &models.SynthesizedAudio{
				Transcript: message.Audio.Transcript,
				Data:       data,
			},
			Usage: usage,
		}, nil
	}

	if message.Content == "" {
		return models.SpeechTurnResult{}, fmt.Errorf("%w: text requested but content missing", ErrModalityMismatch)
	}
	return models.SpeechTurnResult{
		Kind:  models.SpeechResultText,
		Text:  message.Content,
		Usage: usage,
	}, nil
}
