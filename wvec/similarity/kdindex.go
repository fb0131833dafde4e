package similarity

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/kestler/wordvec/wvec/vocab"
)

// EmbeddingPoint is one L2-normalized embedding row with its vocabulary id.
type EmbeddingPoint struct {
	ID     int
	Vector []float64
}

// Compare performs axis comparisons for the KD-Tree.
func (p EmbeddingPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	other := c.(EmbeddingPoint)
	return p.Vector[d] - other.Vector[d]
}

// Dims returns the embedding dimensionality.
func (p EmbeddingPoint) Dims() int {
	return len(p.Vector)
}

// Distance returns the squared euclidean distance between two points.
func (p EmbeddingPoint) Distance(c kdtree.Comparable) float64 {
	other, ok := c.(EmbeddingPoint)
	if !ok {
		return math.Inf(1)
	}
	dist := 0.0
	for i := range p.Vector {
		delta := p.Vector[i] - other.Vector[i]
		dist += delta * delta
	}
	return dist
}

// embeddingPoints implements kdtree.Interface over a point slice.
type embeddingPoints []EmbeddingPoint

func (p embeddingPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p embeddingPoints) Len() int                      { return len(p) }
func (p embeddingPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p embeddingPoints) Pivot(d kdtree.Dim) int {
	return embeddingPlane{Dim: d, embeddingPoints: p}.Pivot()
}

// embeddingPlane sorts embeddingPoints along a single dimension.
type embeddingPlane struct {
	kdtree.Dim
	embeddingPoints
}

func (p embeddingPlane) Less(i, j int) bool {
	return p.embeddingPoints[i].Vector[p.Dim] < p.embeddingPoints[j].Vector[p.Dim]
}
func (p embeddingPlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
func (p embeddingPlane) Slice(start, end int) kdtree.SortSlicer {
	p.embeddingPoints = p.embeddingPoints[start:end]
	return p
}
func (p embeddingPlane) Swap(i, j int) {
	p.embeddingPoints[i], p.embeddingPoints[j] = p.embeddingPoints[j], p.embeddingPoints[i]
}

// KDIndex answers nearest-neighbor queries through a KD-Tree over the
// L2-normalized embedding rows. On unit vectors euclidean distance is
// monotone in cosine similarity, so the neighbor ordering matches the
// exhaustive cosine search wherever norms are nonzero.
type KDIndex struct {
	tree       *kdtree.Tree
	vocabulary *vocab.Vocabulary
	byID       map[int]EmbeddingPoint
}

// NewKDIndex normalizes every non-padding row and builds the tree.
func NewKDIndex(emb *mat.Dense, v *vocab.Vocabulary) *KDIndex {
	rows, dim := emb.Dims()
	points := make(embeddingPoints, 0, rows-1)
	byID := make(map[int]EmbeddingPoint, rows-1)
	for id := 1; id < rows; id++ {
		vec := make([]float64, dim)
		copy(vec, emb.RawRowView(id))
		if norm := floats.Norm(vec, 2); norm > 0 {
			floats.Scale(1/norm, vec)
		}
		point := EmbeddingPoint{ID: id, Vector: vec}
		points = append(points, point)
		byID[id] = point
	}

	tree := kdtree.New(points, false)

	slog.Debug("KD index built",
		"points", len(points),
		"dims", dim)

	return &KDIndex{
		tree:       tree,
		vocabulary: v,
		byID:       byID,
	}
}

// Nearest returns the k nearest neighbors of a vocabulary word, the word
// itself excluded, nearest first. Unknown words return ErrWordNotFound.
func (idx *KDIndex) Nearest(word string, k int) ([]Result, error) {
	queryID, ok := idx.vocabulary.TokenID(word)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWordNotFound, word)
	}
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}

	query := idx.byID[queryID]

	// One extra slot because the query point is its own nearest neighbor.
	keeper := kdtree.NewNKeeper(k + 1)
	idx.tree.NearestSet(keeper, query)

	type hit struct {
		point EmbeddingPoint
		dist  float64
	}
	hits := make([]hit, 0, keeper.Heap.Len())
	for _, item := range keeper.Heap {
		if item.Comparable == nil {
			continue
		}
		point := item.Comparable.(EmbeddingPoint)
		if point.ID == queryID {
			continue
		}
		hits = append(hits, hit{point: point, dist: item.Dist})
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].dist != hits[b].dist {
			return hits[a].dist < hits[b].dist
		}
		return hits[a].point.ID < hits[b].point.ID
	})

	if k > len(hits) {
		k = len(hits)
	}
	results := make([]Result, 0, k)
	for _, h := range hits[:k] {
		w, ok := idx.vocabulary.Token(h.point.ID)
		if !ok {
			continue
		}
		// Cosine similarity of unit vectors from squared euclidean distance.
		results = append(results, Result{Word: w, ID: h.point.ID, Score: 1 - h.dist/2})
	}
	return results, nil
}
