// Command analyze-seller runs the counterfeit analysis pipeline for the
// sellers given on the command line and writes the result set as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"stickcheck/config"
	"stickcheck/internal/analyze"
	"stickcheck/internal/sideline"
	"stickcheck/internal/vision"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	threshold := flag.Int("threshold", analyze.DefaultThreshold, "minimum confidence for a listing to be included")
	out := flag.String("out", "", "output CSV path (default counterfeit-analysis-<date>.csv)")
	flag.Parse()

	usernames := flag.Args()
	if len(usernames) == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyze-seller [-threshold N] [-out file.csv] <username>...")
		os.Exit(2)
	}

	config.LoadEnvFile()

	ctx := context.Background()

	provider := config.Getenv("VISION_PROVIDER", "gemini")
	var model vision.ModelClient
	switch provider {
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			log.Fatal().Msg("OPENAI_API_KEY is not set")
		}
		model = vision.NewOpenAIClient()
	case "gemini":
		if os.Getenv("GEMINI_API_KEY") == "" {
			log.Fatal().Msg("GEMINI_API_KEY is not set")
		}
		gemini, err := vision.NewGeminiClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize gemini client")
		}
		model = gemini
	default:
		log.Fatal().Str("provider", provider).Msg("unknown vision provider")
	}

	client := sideline.NewClient(sideline.ClientOpts{
		ApiBaseURL: os.Getenv("SIDELINE_API_BASE_URL"),
		WebBaseURL: os.Getenv("SIDELINE_WEB_BASE_URL"),
	})

	service := analyze.NewService(
		sideline.NewFetcher(client),
		sideline.NewEnricher(client),
		vision.NewAssessor(model),
		analyze.NewFixedDelayLimiter(time.Second),
		analyze.NewFixedDelayLimiter(time.Second),
	)

	resp := service.Run(ctx, analyze.Request{
		Usernames: usernames,
		Threshold: *threshold,
	})

	for _, e := range resp.Errors {
		log.Warn().Msg(e)
	}

	path := *out
	if path == "" {
		path = analyze.ExportFilename(time.Now())
	}

	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to create output file")
	}
	defer f.Close()

	if err := analyze.WriteCSV(f, resp.Results); err != nil {
		log.Fatal().Err(err).Msg("failed to write CSV")
	}

	log.Info().Int("results", len(resp.Results)).Str("path", path).Msg("analysis complete")
}
