package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/kestler/wordvec/wvec/pairs"
	"github.com/kestler/wordvec/wvec/vocab"
)

var (
	// ErrInsufficientData indicates there are no trainable pairs.
	ErrInsufficientData = errors.New("insufficient training data")
	// ErrAlreadyTrained indicates Train was called twice.
	ErrAlreadyTrained = errors.New("model already trained")
	// ErrNotTrained indicates the embedding table was requested before training.
	ErrNotTrained = errors.New("model not trained")
)

// Config holds the training hyperparameters.
type Config struct {
	EmbeddingDim int
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         int64
}

// CBOW predicts a target word from the mean embedding of its context words.
// Structure: embedding table (vocab_size × dim), masked context mean,
// linear projection to vocabulary logits, softmax. States: uninitialized →
// trained → queryable; Train moves the model forward exactly once.
type CBOW struct {
	vocabSize int
	cfg       Config

	emb  *mat.Dense // vocab_size × dim embedding table
	proj *mat.Dense // vocab_size × dim, row k is the output vector for word k
	bias *mat.Dense // 1 × vocab_size

	rng     *rand.Rand
	opt     *Adam
	trained bool
}

// NewCBOW initializes the parameter matrices from the seeded source.
// Determinism across runs holds for a fixed seed, corpus, and config.
func NewCBOW(vocabSize int, cfg Config) (*CBOW, error) {
	if vocabSize < 2 {
		return nil, fmt.Errorf("%w: vocabulary holds no real tokens", ErrInsufficientData)
	}
	if cfg.EmbeddingDim < 1 {
		return nil, fmt.Errorf("embedding dim must be >= 1, got %d", cfg.EmbeddingDim)
	}

	m := &CBOW{
		vocabSize: vocabSize,
		cfg:       cfg,
		emb:       mat.NewDense(vocabSize, cfg.EmbeddingDim, nil),
		proj:      mat.NewDense(vocabSize, cfg.EmbeddingDim, nil),
		bias:      mat.NewDense(1, vocabSize, nil),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		opt:       NewAdam(cfg.LearningRate),
	}

	scale := 1.0 / float64(cfg.EmbeddingDim)
	for _, w := range []*mat.Dense{m.emb, m.proj} {
		data := w.RawMatrix().Data
		for i := range data {
			data[i] = (m.rng.Float64() - 0.5) * scale
		}
	}

	return m, nil
}

// Train runs the configured number of epochs over the encoded batch in
// shuffled mini-batches, minimizing categorical cross-entropy with Adam.
// The embedding table and projection are updated in place each step.
// There is no early stopping and no validation split.
func (m *CBOW) Train(ctx context.Context, batch *pairs.Batch) error {
	if m.trained {
		return ErrAlreadyTrained
	}
	if batch == nil || batch.Len() == 0 {
		return ErrInsufficientData
	}

	n := batch.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	bs := m.cfg.BatchSize
	if bs > n {
		bs = n
	}

	// Gradient accumulators, reused across batches.
	gradEmb := mat.NewDense(m.vocabSize, m.cfg.EmbeddingDim, nil)
	gradProj := mat.NewDense(m.vocabSize, m.cfg.EmbeddingDim, nil)
	gradBias := mat.NewDense(1, m.vocabSize, nil)

	hidden := make([]float64, m.cfg.EmbeddingDim)
	dHidden := make([]float64, m.cfg.EmbeddingDim)
	logits := make([]float64, m.vocabSize)

	for epoch := 1; epoch <= m.cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()
		m.rng.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		epochLoss := 0.0
		for lo := 0; lo < n; lo += bs {
			hi := lo + bs
			if hi > n {
				hi = n
			}

			gradEmb.Zero()
			gradProj.Zero()
			gradBias.Zero()

			invBatch := 1.0 / float64(hi-lo)
			for _, idx := range order[lo:hi] {
				epochLoss += m.accumulate(batch.Contexts[idx], batch.Targets[idx], invBatch,
					hidden, dHidden, logits, gradEmb, gradProj, gradBias)
			}

			m.opt.Tick()
			m.opt.Update(m.emb, gradEmb)
			m.opt.Update(m.proj, gradProj)
			m.opt.Update(m.bias, gradBias)
		}

		slog.Debug("Epoch completed",
			"epoch", epoch,
			"epochs", m.cfg.Epochs,
			"avg_loss", epochLoss/float64(n),
			"duration_ms", time.Since(start).Milliseconds())
	}

	m.trained = true
	return nil
}

// accumulate runs one forward/backward pass and adds the example's scaled
// gradients into the accumulators. Returns the example's cross-entropy loss.
func (m *CBOW) accumulate(contextIDs []int, target int, scale float64,
	hidden, dHidden, logits []float64, gradEmb, gradProj, gradBias *mat.Dense,
) float64 {
	// Masked context mean: padding rows are excluded, an all-padding
	// context yields the zero vector.
	for j := range hidden {
		hidden[j] = 0
	}
	live := 0
	for _, id := range contextIDs {
		if id == vocab.PadID {
			continue
		}
		floats.Add(hidden, m.emb.RawRowView(id))
		live++
	}
	if live > 0 {
		floats.Scale(1/float64(live), hidden)
	}

	// Logits and stable softmax.
	biasRow := m.bias.RawRowView(0)
	maxLogit := math.Inf(-1)
	for k := 0; k < m.vocabSize; k++ {
		logits[k] = floats.Dot(m.proj.RawRowView(k), hidden) + biasRow[k]
		if logits[k] > maxLogit {
			maxLogit = logits[k]
		}
	}
	sum := 0.0
	for k := range logits {
		logits[k] = math.Exp(logits[k] - maxLogit)
		sum += logits[k]
	}
	loss := -math.Log(logits[target] / sum)

	// Backward: dlogits = softmax - onehot, scaled by the batch size.
	gradBiasRow := gradBias.RawRowView(0)
	for j := range dHidden {
		dHidden[j] = 0
	}
	for k := 0; k < m.vocabSize; k++ {
		d := logits[k] / sum
		if k == target {
			d -= 1
		}
		d *= scale
		gradBiasRow[k] += d
		floats.AddScaled(gradProj.RawRowView(k), d, hidden)
		floats.AddScaled(dHidden, d, m.proj.RawRowView(k))
	}

	// Context rows share the mean's gradient equally.
	if live > 0 {
		inv := 1 / float64(live)
		for _, id := range contextIDs {
			if id == vocab.PadID {
				continue
			}
			floats.AddScaled(gradEmb.RawRowView(id), inv, dHidden)
		}
	}

	return loss
}

// Embeddings returns a standalone copy of the trained embedding table.
// The projection layer is not part of the result; it exists only to train.
func (m *CBOW) Embeddings() (*mat.Dense, error) {
	if !m.trained {
		return nil, ErrNotTrained
	}
	return mat.DenseCopyOf(m.emb), nil
}

// Dim returns the embedding dimensionality.
func (m *CBOW) Dim() int {
	return m.cfg.EmbeddingDim
}
