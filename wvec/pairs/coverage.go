package pairs

import (
	roaring "github.com/RoaringBitmap/roaring"
)

// Coverage holds roaring bitmaps of vocabulary ids observed while encoding:
// one bitmap of ids seen as targets, one of ids seen inside contexts.
// Padding never counts.
type Coverage struct {
	Targets  *roaring.Bitmap
	Contexts *roaring.Bitmap
}

// NewCoverage scans a pair list and records which ids occur in each role.
func NewCoverage(ps []Pair) *Coverage {
	c := &Coverage{
		Targets:  roaring.New(),
		Contexts: roaring.New(),
	}
	for _, p := range ps {
		if p.Target != PadID {
			c.Targets.Add(uint32(p.Target))
		}
		for _, id := range p.Context {
			if id != PadID {
				c.Contexts.Add(uint32(id))
			}
		}
	}
	return c
}

// TargetCount returns how many distinct ids appeared as a target.
func (c *Coverage) TargetCount() uint64 {
	return c.Targets.GetCardinality()
}

// ContextOnly returns ids that only ever appeared inside a context window,
// never as a target. For whole-sequence windowing this is empty; it becomes
// interesting when pairs are filtered upstream.
func (c *Coverage) ContextOnly() *roaring.Bitmap {
	out := c.Contexts.Clone()
	out.AndNot(c.Targets)
	return out
}

// TargetCoverage reports the fraction of the vocabulary (pad slot excluded)
// that appeared as a target.
func (c *Coverage) TargetCoverage(vocabSize int) float64 {
	if vocabSize <= 1 {
		return 0
	}
	return float64(c.TargetCount()) / float64(vocabSize-1)
}
