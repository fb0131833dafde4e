package pairs

import (
	"fmt"

	"github.com/kestler/wordvec/wvec/vocab"
)

// Batch holds the encoded training set: fixed-width context rows and
// class-index targets. Targets stay as indices rather than one-hot rows so
// the batch is O(pairs × context_len) in memory regardless of vocabulary
// size; the cross-entropy loss reads the index directly.
type Batch struct {
	Contexts   [][]int // num_pairs × context_len, left-padded with vocab.PadID
	Targets    []int   // num_pairs class indices
	ContextLen int
}

// Encode left-pads every context to contextLen with the padding id. Contexts
// never exceed contextLen by construction; a longer one is a bug upstream.
func Encode(ps []Pair, contextLen int) (*Batch, error) {
	b := &Batch{
		Contexts:   make([][]int, len(ps)),
		Targets:    make([]int, len(ps)),
		ContextLen: contextLen,
	}
	for i, p := range ps {
		if len(p.Context) > contextLen {
			return nil, fmt.Errorf("context of length %d exceeds context_len %d at pair %d", len(p.Context), contextLen, i)
		}
		row := make([]int, contextLen)
		copy(row[contextLen-len(p.Context):], p.Context)
		b.Contexts[i] = row
		b.Targets[i] = p.Target
	}
	return b, nil
}

// Len returns the number of encoded pairs.
func (b *Batch) Len() int {
	return len(b.Targets)
}

// OneHot encodes a target id as a vocabulary-sized indicator vector. The
// trainer never materializes these; they exist for callers that want the
// dense representation.
func OneHot(target, vocabSize int) ([]float64, error) {
	if target < 0 || target >= vocabSize {
		return nil, fmt.Errorf("target id %d out of range [0, %d)", target, vocabSize)
	}
	row := make([]float64, vocabSize)
	row[target] = 1
	return row, nil
}

// DecodeOneHot recovers the class index from a one-hot row.
func DecodeOneHot(row []float64) (int, error) {
	idx := -1
	for i, v := range row {
		switch v {
		case 0:
		case 1:
			if idx >= 0 {
				return 0, fmt.Errorf("multiple hot entries at %d and %d", idx, i)
			}
			idx = i
		default:
			return 0, fmt.Errorf("non-indicator value %f at index %d", v, i)
		}
	}
	if idx < 0 {
		return 0, fmt.Errorf("no hot entry in row of length %d", len(row))
	}
	return idx, nil
}

// PadID re-exports the vocabulary padding id for callers inspecting rows.
const PadID = vocab.PadID
