package similarity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/kestler/wordvec/wvec/vocab"
)

// ErrWordNotFound indicates the query word is not in the vocabulary.
// A recoverable condition, signaled to the caller rather than printed.
var ErrWordNotFound = errors.New("word not found in vocabulary")

// Result is one ranked neighbor.
type Result struct {
	Word  string
	ID    int
	Score float64
}

// Searcher answers nearest-neighbor queries over a frozen embedding matrix
// by exhaustive cosine similarity. It never mutates the matrix and is safe
// for concurrent callers.
type Searcher struct {
	emb        *mat.Dense
	vocabulary *vocab.Vocabulary
	norms      []float64
	maxWorkers int
}

// NewSearcher precomputes row norms for the scoring passes.
func NewSearcher(emb *mat.Dense, v *vocab.Vocabulary) *Searcher {
	rows, _ := emb.Dims()
	norms := make([]float64, rows)
	for i := 0; i < rows; i++ {
		norms[i] = floats.Norm(emb.RawRowView(i), 2)
	}
	return &Searcher{
		emb:        emb,
		vocabulary: v,
		norms:      norms,
		maxWorkers: min(max(runtime.NumCPU(), 2), 16),
	}
}

// Search ranks every non-padding vocabulary row by cosine similarity to the
// query word's row and returns the topN neighbors, query word excluded.
// Ranking is score descending with ties broken by ascending id, so results
// are deterministic for a fixed matrix. Unknown words return ErrWordNotFound.
func (s *Searcher) Search(ctx context.Context, word string, topN int) ([]Result, error) {
	queryID, ok := s.vocabulary.TokenID(word)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWordNotFound, word)
	}
	if topN < 1 {
		return nil, fmt.Errorf("topN must be >= 1, got %d", topN)
	}

	rows, _ := s.emb.Dims()
	scores := make([]float64, rows)
	queryRow := s.emb.RawRowView(queryID)
	queryNorm := s.norms[queryID]

	// Score rows in fixed-size chunks; each worker owns disjoint slots of
	// the score slice, so the pass stays deterministic.
	p := pool.New().WithMaxGoroutines(s.maxWorkers).WithContext(ctx)
	chunk := (rows + s.maxWorkers - 1) / s.maxWorkers
	for lo := 0; lo < rows; lo += chunk {
		hi := lo + chunk
		if hi > rows {
			hi = rows
		}
		p.Go(func(ctx context.Context) error {
			for i := lo; i < hi; i++ {
				scores[i] = cosine(queryRow, s.emb.RawRowView(i), queryNorm, s.norms[i])
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	// Rank all candidate ids: padding row 0 maps to no word and the query
	// id is excluded from its own neighbor list.
	ids := make([]int, 0, rows-2)
	for id := 1; id < rows; id++ {
		if id == queryID {
			continue
		}
		ids = append(ids, id)
	}
	sort.SliceStable(ids, func(a, b int) bool {
		if scores[ids[a]] != scores[ids[b]] {
			return scores[ids[a]] > scores[ids[b]]
		}
		return ids[a] < ids[b]
	})

	if topN > len(ids) {
		topN = len(ids)
	}
	results := make([]Result, 0, topN)
	for _, id := range ids[:topN] {
		w, ok := s.vocabulary.Token(id)
		if !ok {
			continue
		}
		results = append(results, Result{Word: w, ID: id, Score: scores[id]})
	}

	slog.Debug("Similarity search completed",
		"query", word,
		"top_n", topN,
		"candidates", len(ids))

	return results, nil
}

// cosine computes the cosine of the angle between two vectors given their
// precomputed norms. Zero-norm rows score 0.
func cosine(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	c := floats.Dot(a, b) / (normA * normB)
	if math.IsNaN(c) {
		return 0
	}
	return c
}
