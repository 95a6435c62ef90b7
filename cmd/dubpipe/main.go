package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/openai/openai-go/v3/option"

	adapter "github.com/voxlate/voxlate/internal/adapters/openai"
	"github.com/voxlate/voxlate/internal/audio"
	"github.com/voxlate/voxlate/internal/config"
	"github.com/voxlate/voxlate/internal/pipeline"
	"github.com/voxlate/voxlate/internal/pricing"
)

// dubpipe runs the transcribe/dub/back-translate pipeline once against a
// local WAV file and prints the scored report.
func main() {
	var (
		configFile = flag.String("config", "", "path to voxlate config file")
		file       = flag.String("file", "", "path to the source WAV file")
		source     = flag.String("source", "", "source language (defaults from config)")
		target     = flag.String("target", "", "target language (defaults from config)")
		glossary   = flag.String("glossary", "", "comma-separated terms to keep untranslated")
		reference  = flag.String("reference", "", "optional reference translation to score the dub against")
		out        = flag.String("out", "dubbed.wav", "where to write the dubbed audio")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(config.Options{ConfigFile: *configFile})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	payload, info, err := audio.LoadWAV(*file)
	if err != nil {
		log.Fatalf("load audio: %v", err)
	}
	log.Printf("loaded %s: %d Hz, %d channel(s), %s", *file, info.SampleRate, info.Channels, info.Duration)

	provider, err := adapter.New(adapter.Options{
		APIKey:       cfg.Provider.APIKey,
		BaseURL:      cfg.Provider.BaseURL,
		Organization: cfg.Provider.Organization,
		Extra: []option.RequestOption{
			option.WithHTTPClient(&http.Client{Timeout: cfg.Provider.RequestTimeout}),
		},
	})
	if err != nil {
		log.Fatalf("build adapter: %v", err)
	}

	prices := pricing.NewTable(pricingEntries(cfg.Pricing))
	pipe := pipeline.New(provider, cfg.Provider, cfg.Pipeline, prices, nil)

	opts := pipeline.RunOptions{
		SourceLanguage: *source,
		TargetLanguage: *target,
		Reference:      *reference,
	}
	for _, term := range strings.Split(*glossary, ",") {
		if term = strings.TrimSpace(term); term != "" {
			opts.Glossary = append(opts.Glossary, term)
		}
	}

	result, err := pipe.Run(context.Background(), payload, opts)
	if err != nil {
		log.Fatalf("run pipeline: %v", err)
	}

	if err := os.WriteFile(*out, result.DubbedAudio, 0o644); err != nil {
		log.Fatalf("write dubbed audio: %v", err)
	}
	if dubInfo, err := audio.Probe(result.DubbedAudio); err == nil {
		log.Printf("wrote %s: %d Hz, %d channel(s), %s", *out, dubInfo.SampleRate, dubInfo.Channels, dubInfo.Duration)
	} else {
		log.Printf("wrote %s (%d bytes)", *out, len(result.DubbedAudio))
	}

	fmt.Printf("run %s (%s -> %s)\n", result.ID, result.SourceLanguage, result.TargetLanguage)
	fmt.Printf("source transcript: %s\n", result.SourceTranscript)
	fmt.Printf("dub transcript:    %s\n", result.DubTranscript)
	fmt.Printf("back translation:  %s\n", result.BackTranslation)
	fmt.Printf("round trip BLEU %.2f, ROUGE-1 %.4f, ROUGE-L %.4f\n",
		result.RoundTripScores.BLEU,
		result.RoundTripScores.Rouge1.F1,
		result.RoundTripScores.RougeL.F1,
	)
	if result.ReferenceScores != nil {
		fmt.Printf("reference BLEU %.2f, ROUGE-1 %.4f, ROUGE-L %.4f\n",
			result.ReferenceScores.BLEU,
			result.ReferenceScores.Rouge1.F1,
			result.ReferenceScores.RougeL.F1,
		)
	}
	fmt.Printf("tokens %d (est. $%s), elapsed %s\n", result.Usage.TotalTokens, result.EstimatedCostUSD, result.Elapsed)
}

func pricingEntries(entries []config.PricingEntry) []pricing.Entry {
	out := make([]pricing.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, pricing.Entry{
			Model:         e.Model,
			InputPerMUSD:  e.InputPerMUSD,
			OutputPerMUSD: e.OutputPerMUSD,
			Currency:      e.Currency,
		})
	}
	return out
}
