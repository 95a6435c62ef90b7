package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voxlate/voxlate/internal/adapters/openai"
	"github.com/voxlate/voxlate/internal/audio"
	"github.com/voxlate/voxlate/internal/config"
	"github.com/voxlate/voxlate/internal/models"
	"github.com/voxlate/voxlate/internal/observability"
	"github.com/voxlate/voxlate/internal/pricing"
	"github.com/voxlate/voxlate/internal/providers"
	"github.com/voxlate/voxlate/internal/textmetrics"
)

// Step names label metrics and errors for the three provider calls.
const (
	StepTranscribe    = "transcribe"
	StepDub           = "dub"
	StepBackTranslate = "backtranslate"
)

// Pipeline runs the sequential transcribe -> dub -> back-translate flow and
// scores the round trip. Every step blocks on the previous one: the dub
// consumes the uploaded audio, the back-translation consumes the dubbed
// audio.
type Pipeline struct {
	provider providers.SpeechTurner
	cfg      config.ProviderConfig
	defaults config.PipelineConfig
	prices   *pricing.Table
	obs      *observability.Provider
}

// New wires a pipeline from the configured provider settings.
func New(provider providers.SpeechTurner, providerCfg config.ProviderConfig, defaults config.PipelineConfig, prices *pricing.Table, obs *observability.Provider) *Pipeline {
	return &Pipeline{
		provider: provider,
		cfg:      providerCfg,
		defaults: defaults,
		prices:   prices,
		obs:      obs,
	}
}

// RunOptions override the configured pipeline defaults for one run.
type RunOptions struct {
	SourceLanguage string
	TargetLanguage string
	Glossary       []string
	Voice          string
	// Reference optionally supplies a known-good target-language
	// translation to score the dub transcript against.
	Reference string
}

// Result is the full report of one pipeline run.
type Result struct {
	ID               uuid.UUID           `json:"id"`
	SourceLanguage   string              `json:"source_language"`
	TargetLanguage   string              `json:"target_language"`
	SourceTranscript string              `json:"source_transcript"`
	DubTranscript    string              `json:"dub_transcript"`
	DubbedAudio      []byte              `json:"-"`
	AudioFormat      models.AudioFormat  `json:"audio_format"`
	BackTranslation  string              `json:"back_translation"`
	RoundTripScores  textmetrics.Report  `json:"round_trip_scores"`
	ReferenceScores  *textmetrics.Report `json:"reference_scores,omitempty"`
	Usage            models.Usage        `json:"usage"`
	EstimatedCostUSD string              `json:"estimated_cost_usd"`
	Elapsed          time.Duration       `json:"elapsed_ns"`
}

// Run executes the three speech turns and the scoring step. The first failed
// turn aborts the run; downstream steps assume success of prior steps.
func (p *Pipeline) Run(ctx context.Context, payload models.AudioPayload, opts RunOptions) (*Result, error) {
	start := time.Now()
	opts = p.applyDefaults(opts)

	result := &Result{
		ID:             uuid.New(),
		SourceLanguage: opts.SourceLanguage,
		TargetLanguage: opts.TargetLanguage,
		AudioFormat:    models.AudioFormat(p.cfg.AudioFormat),
	}
	p.recordAudioSeconds("in", payload)

	transcription, err := p.turn(ctx, StepTranscribe, models.SpeechTurnRequest{
		Model:       p.cfg.Model,
		Instruction: transcribeInstruction(),
		Audio:       payload,
		Modalities:  models.TextOnly,
	})
	if err != nil {
		return nil, err
	}
	result.SourceTranscript = transcription.Text
	result.Usage = result.Usage.Add(transcription.Usage)

	dub, err := p.turn(ctx, StepDub, models.SpeechTurnRequest{
		Model:        p.cfg.Model,
		Instruction:  dubInstruction(opts.TargetLanguage, opts.Glossary),
		Audio:        payload,
		Modalities:   models.TextAndAudio,
		Voice:        opts.Voice,
		OutputFormat: models.AudioFormat(p.cfg.AudioFormat),
	})
	if err != nil {
		return nil, err
	}
	result.DubTranscript = dub.Audio.Transcript
	result.DubbedAudio = dub.Audio.Data
	result.Usage = result.Usage.Add(dub.Usage)

	dubbedPayload := models.AudioPayload{Data: dub.Audio.Data, Format: dub.Audio.Format}
	p.recordAudioSeconds("out", dubbedPayload)

	back, err := p.turn(ctx, StepBackTranslate, models.SpeechTurnRequest{
		Model:       p.cfg.Model,
		Instruction: backTranslateInstruction(opts.SourceLanguage),
		Audio:       dubbedPayload,
		Modalities:  models.TextOnly,
	})
	if err != nil {
		return nil, err
	}
	result.BackTranslation = back.Text
	result.Usage = result.Usage.Add(back.Usage)

	result.RoundTripScores = textmetrics.Score(result.SourceTranscript, result.BackTranslation)
	if ref := strings.TrimSpace(opts.Reference); ref != "" {
		scores := textmetrics.Score(ref, result.DubTranscript)
		result.ReferenceScores = &scores
	}

	result.EstimatedCostUSD = p.prices.Estimate(p.cfg.Model, result.Usage).StringFixed(6)
	result.Elapsed = time.Since(start)
	return result, nil
}

// Transcribe runs only the first stage, for callers that want a plain
// transcription without dubbing.
func (p *Pipeline) Transcribe(ctx context.Context, payload models.AudioPayload) (string, models.Usage, error) {
	p.recordAudioSeconds("in", payload)
	result, err := p.turn(ctx, StepTranscribe, models.SpeechTurnRequest{
		Model:       p.cfg.Model,
		Instruction: transcribeInstruction(),
		Audio:       payload,
		Modalities:  models.TextOnly,
	})
	if err != nil {
		return "", models.Usage{}, err
	}
	return result.Text, result.Usage, nil
}

func (p *Pipeline) applyDefaults(opts RunOptions) RunOptions {
	if strings.TrimSpace(opts.SourceLanguage) == "" {
		opts.SourceLanguage = p.defaults.SourceLanguage
	}
	if strings.TrimSpace(opts.TargetLanguage) == "" {
		opts.TargetLanguage = p.defaults.TargetLanguage
	}
	if len(opts.Glossary) == 0 {
		opts.Glossary = p.defaults.Glossary
	}
	if strings.TrimSpace(opts.Voice) == "" {
		opts.Voice = p.cfg.Voice
	}
	return opts
}

func (p *Pipeline) turn(ctx context.Context, step string, req models.SpeechTurnRequest) (models.SpeechTurnResult, error) {
	start := time.Now()
	result, err := p.provider.SpeechTurn(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		p.obs.RecordProviderCall(req.Model, step, remoteStatus(err), elapsed)
		return models.SpeechTurnResult{}, fmt.Errorf("%s: %w", step, err)
	}
	p.obs.RecordProviderCall(req.Model, step, 200, elapsed)
	p.obs.RecordTokens(req.Model, step, int64(result.Usage.PromptTokens), int64(result.Usage.CompletionTokens))
	return result, nil
}

func (p *Pipeline) recordAudioSeconds(direction string, payload models.AudioPayload) {
	if p.obs == nil || payload.Format != models.AudioFormatWAV {
		return
	}
	if info, err := audio.Probe(payload.Data); err == nil {
		p.obs.RecordAudioSeconds(direction, info.Duration)
	}
}

func remoteStatus(err error) int {
	var remoteErr *openai.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Status
	}
	return 0
}
