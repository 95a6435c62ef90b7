package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/openai/openai-go/v3/option"

	adapter "github.com/voxlate/voxlate/internal/adapters/openai"
	"github.com/voxlate/voxlate/internal/config"
	"github.com/voxlate/voxlate/internal/httpserver"
	"github.com/voxlate/voxlate/internal/observability"
	"github.com/voxlate/voxlate/internal/pipeline"
	"github.com/voxlate/voxlate/internal/pricing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Options{})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	obs, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		log.Fatalf("setup observability: %v", err)
	}
	if obs != nil {
		defer obs.Shutdown(ctx)
	}

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
	pipe := pipeline.New(provider, cfg.Provider, cfg.Pipeline, prices, obs)

	server, err := httpserver.New(httpserver.Deps{
		Config:        cfg,
		Pipeline:      pipe,
		Observability: obs,
	})
	if err != nil {
		log.Fatalf("construct server: %v", err)
	}

	if err := server.Listen(ctx); err != nil && err != context.Canceled {
		log.Fatalf("server stopped: %v", err)
	}
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
