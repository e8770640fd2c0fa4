package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"stickcheck/config"
	"stickcheck/internal/analyze"
	"stickcheck/internal/server"
	"stickcheck/internal/sideline"
	"stickcheck/internal/vision"
)

const (
	// Courtesy delays toward the scraped site and the model provider.
	marketplaceDelay = 1 * time.Second
	modelDelay       = 1 * time.Second
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config.LoadEnvFile()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	assessor, credentialed := buildAssessor(ctx)

	client := sideline.NewClient(sideline.ClientOpts{
		ApiBaseURL: os.Getenv("SIDELINE_API_BASE_URL"),
		WebBaseURL: os.Getenv("SIDELINE_WEB_BASE_URL"),
	})

	service := analyze.NewService(
		sideline.NewFetcher(client),
		sideline.NewEnricher(client),
		assessor,
		analyze.NewFixedDelayLimiter(marketplaceDelay),
		analyze.NewFixedDelayLimiter(modelDelay),
	)

	addr := config.Getenv("LISTEN_ADDR", ":8080")
	srv := server.New(addr, service, credentialed)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}

// buildAssessor constructs the vision analyzer for the configured provider.
// A missing credential doesn't prevent startup; the server reports it per
// request so the condition is visible to callers rather than a crash loop.
func buildAssessor(ctx context.Context) (vision.Analyzer, bool) {
	provider := config.Getenv("VISION_PROVIDER", "gemini")

	switch provider {
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			log.Warn().Msg("OPENAI_API_KEY is not set")
			return vision.NewAssessor(nil), false
		}
		log.Info().Msg("openai vision analyzer initialized")
		return vision.NewAssessor(vision.NewOpenAIClient()), true
	case "gemini":
		if os.Getenv("GEMINI_API_KEY") == "" {
			log.Warn().Msg("GEMINI_API_KEY is not set")
			return vision.NewAssessor(nil), false
		}
		gemini, err := vision.NewGeminiClient(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize gemini client")
			return vision.NewAssessor(nil), false
		}
		log.Info().Msg("gemini vision analyzer initialized")
		return vision.NewAssessor(gemini), true
	default:
		log.Error().Str("provider", provider).Msg("unknown vision provider")
		return vision.NewAssessor(nil), false
	}
}
