package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/assert-lib"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/kestler/wordvec/wvec/config"
	"github.com/kestler/wordvec/wvec/corpus"
	"github.com/kestler/wordvec/wvec/model"
	"github.com/kestler/wordvec/wvec/pairs"
	"github.com/kestler/wordvec/wvec/similarity"
	"github.com/kestler/wordvec/wvec/vocab"
)

// Stats collects per-stage counts from one run.
type Stats struct {
	RunID          string
	CorpusBytes    int
	Sentences      int
	VocabSize      int
	Pairs          int
	TargetCoverage float64
	TrainDuration  time.Duration
}

// Result holds the frozen outputs of a completed run. The embedding matrix
// has exactly one writer (the training loop) and is read-only from here on.
type Result struct {
	Vocabulary *vocab.Vocabulary
	Embeddings *mat.Dense
	Coverage   *pairs.Coverage
	Stats      Stats
}

// Searcher builds a similarity index over the trained embeddings.
func (r *Result) Searcher() *similarity.Searcher {
	return similarity.NewSearcher(r.Embeddings, r.Vocabulary)
}

// PrefixIndex builds a prefix lookup over the run's vocabulary.
func (r *Result) PrefixIndex() *vocab.PrefixIndex {
	return vocab.NewPrefixIndex(r.Vocabulary)
}

// Pipeline wires the batch stages together: fetch, normalize, vocabulary,
// pair generation, encoding, training. Each stage fully consumes its input
// before the next starts; no state is shared between runs.
type Pipeline struct {
	cfg           *config.Config
	fetcher       corpus.Fetcher
	assertHandler *assert.AssertHandler
}

// New creates a pipeline over the given config and corpus fetcher.
func New(cfg *config.Config, fetcher corpus.Fetcher) *Pipeline {
	return &Pipeline{
		cfg:           cfg,
		fetcher:       fetcher,
		assertHandler: assert.NewAssertHandler(),
	}
}

// Run executes one full pass and returns the frozen result. A corpus that
// yields no tokens or no pairs aborts with ErrInsufficientData before any
// training happens.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	logger := slog.Default().With("run_id", runID)

	raw, err := p.fetcher.Fetch(ctx, p.cfg.Corpus.URL)
	if err != nil {
		return nil, err
	}
	logger.Info("Corpus acquired",
		"url", p.cfg.Corpus.URL,
		"bytes", len(raw))

	sentences := corpus.Sentences(raw)
	vocabulary := vocab.Build(sentences)
	if vocabulary.Size() < 2 {
		return nil, fmt.Errorf("%w: corpus produced an empty vocabulary", model.ErrInsufficientData)
	}
	logger.Info("Vocabulary built",
		"sentences", len(sentences),
		"vocab_size", vocabulary.Size())

	sequences := make([][]int, len(sentences))
	for i, s := range sentences {
		sequences[i] = vocabulary.Encode(s)
	}

	radius := p.cfg.Training.WindowRadius
	generated := pairs.GenerateAll(sequences, radius)
	if len(generated) == 0 {
		return nil, fmt.Errorf("%w: no training pairs generated", model.ErrInsufficientData)
	}

	batch, err := pairs.Encode(generated, 2*radius)
	if err != nil {
		return nil, fmt.Errorf("encoding pairs: %w", err)
	}
	coverage := pairs.NewCoverage(generated)
	logger.Info("Pairs encoded",
		"pairs", batch.Len(),
		"context_len", batch.ContextLen,
		"target_coverage", coverage.TargetCoverage(vocabulary.Size()))

	cbow, err := model.NewCBOW(vocabulary.Size(), model.Config{
		EmbeddingDim: p.cfg.Training.EmbeddingDim,
		Epochs:       p.cfg.Training.Epochs,
		BatchSize:    p.cfg.Training.BatchSize,
		LearningRate: p.cfg.Training.LearningRate,
		Seed:         p.cfg.Training.Seed,
	})
	if err != nil {
		return nil, err
	}

	trainStart := time.Now()
	if err := cbow.Train(ctx, batch); err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}
	trainDuration := time.Since(trainStart)

	embeddings, err := cbow.Embeddings()
	if err != nil {
		return nil, err
	}
	logger.Info("Training completed",
		"epochs", p.cfg.Training.Epochs,
		"duration_ms", trainDuration.Milliseconds())

	return &Result{
		Vocabulary: vocabulary,
		Embeddings: embeddings,
		Coverage:   coverage,
		Stats: Stats{
			RunID:          runID,
			CorpusBytes:    len(raw),
			Sentences:      len(sentences),
			VocabSize:      vocabulary.Size(),
			Pairs:          batch.Len(),
			TargetCoverage: coverage.TargetCoverage(vocabulary.Size()),
			TrainDuration:  trainDuration,
		},
	}, nil
}
