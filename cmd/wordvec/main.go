package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	internal "github.com/kestler/wordvec/wvec"
	"github.com/kestler/wordvec/wvec/config"
	"github.com/kestler/wordvec/wvec/corpus"
	"github.com/kestler/wordvec/wvec/pipeline"
	"github.com/kestler/wordvec/wvec/similarity"
)

func main() {
	// Load .env file if it exists (for config overrides)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to a config file")
	queries := flag.String("query", "", "comma-separated list of words to look up after training")
	top := flag.Int("top", 0, "number of neighbors to return (overrides config)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	logger := internal.GetLogger()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *top > 0 {
		cfg.Query.TopN = *top
	}

	fetcher := corpus.NewHTTPFetcher(time.Duration(cfg.Corpus.TimeoutSeconds) * time.Second)
	p := pipeline.New(cfg, fetcher)

	result, err := p.Run(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("pipeline run failed")
	}

	logger.Info().
		Str("run_id", result.Stats.RunID).
		Int("vocab_size", result.Stats.VocabSize).
		Int("pairs", result.Stats.Pairs).
		Dur("train_duration", result.Stats.TrainDuration).
		Msg("training complete")

	words := flag.Args()
	if *queries != "" {
		words = append(words, strings.Split(*queries, ",")...)
	}
	if len(words) == 0 {
		// Mirror the reference run's example lookups.
		words = []string{"elizabeth", "pride", "letter"}
	}

	searcher := result.Searcher()
	for _, word := range words {
		word = strings.TrimSpace(strings.ToLower(word))
		if word == "" {
			continue
		}

		neighbors, err := searcher.Search(context.Background(), word, cfg.Query.TopN)
		if err != nil {
			if errors.Is(err, similarity.ErrWordNotFound) {
				fmt.Printf("%s: not in vocabulary\n", word)
				continue
			}
			logger.Fatal().Err(err).Str("word", word).Msg("similarity query failed")
		}

		fmt.Printf("%s:\n", word)
		for i, n := range neighbors {
			fmt.Printf("  %d. %-20s %.4f\n", i+1, n.Word, n.Score)
		}
	}
}
