package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/kestler/wordvec/wvec/vocab"
)

// fixtureMatrix builds a 5-token vocabulary with hand-placed 2-d embeddings:
// "north" and "up" point the same way, "east" is orthogonal, "south" is
// opposite, "slight" is close to north but not identical.
func fixtureMatrix(t *testing.T) (*mat.Dense, *vocab.Vocabulary) {
	t.Helper()
	v := vocab.Build([]string{"north up east south slight"})
	require.Equal(t, 6, v.Size())

	emb := mat.NewDense(6, 2, []float64{
		0, 0, // pad row
		0, 1, // north
		0, 2, // up: same direction, different magnitude
		1, 0, // east
		0, -1, // south
		0.1, 1, // slight
	})
	return emb, v
}

func TestSearcher(t *testing.T) {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{"RankingByCosine", testRankingByCosine},
		{"ExcludesQueryWord", testExcludesQueryWord},
		{"WordNotFound", testWordNotFound},
		{"Deterministic", testDeterministicSearch},
		{"TopNClamped", testTopNClamped},
		{"PaddingRowNeverReturned", testPaddingRowNeverReturned},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}

func testRankingByCosine(t *testing.T) {
	emb, v := fixtureMatrix(t)
	s := NewSearcher(emb, v)

	got, err := s.Search(context.Background(), "north", 4)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// "up" is cosine-identical to "north" regardless of magnitude.
	assert.Equal(t, "up", got[0].Word)
	assert.InDelta(t, 1.0, got[0].Score, 1e-12)
	assert.Equal(t, "slight", got[1].Word)
	assert.Equal(t, "east", got[2].Word)
	assert.Equal(t, "south", got[3].Word)
	assert.InDelta(t, -1.0, got[3].Score, 1e-12)
}

func testExcludesQueryWord(t *testing.T) {
	emb, v := fixtureMatrix(t)
	s := NewSearcher(emb, v)

	got, err := s.Search(context.Background(), "north", 10)
	require.NoError(t, err)
	for _, r := range got {
		assert.NotEqual(t, "north", r.Word, "query word must not be its own neighbor")
	}
}

func testWordNotFound(t *testing.T) {
	emb, v := fixtureMatrix(t)
	s := NewSearcher(emb, v)

	got, err := s.Search(context.Background(), "missing", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWordNotFound)
	assert.Nil(t, got, "a not-found query never returns neighbors")
}

func testDeterministicSearch(t *testing.T) {
	emb, v := fixtureMatrix(t)
	s := NewSearcher(emb, v)

	first, err := s.Search(context.Background(), "east", 4)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := s.Search(context.Background(), "east", 4)
		require.NoError(t, err)
		assert.Equal(t, first, again, "unchanged matrix must yield identical ordered results")
	}
}

func testTopNClamped(t *testing.T) {
	emb, v := fixtureMatrix(t)
	s := NewSearcher(emb, v)

	got, err := s.Search(context.Background(), "north", 100)
	require.NoError(t, err)
	assert.Len(t, got, 4, "only vocab_size-2 candidates exist")

	_, err = s.Search(context.Background(), "north", 0)
	assert.Error(t, err)
}

func testPaddingRowNeverReturned(t *testing.T) {
	emb, v := fixtureMatrix(t)
	s := NewSearcher(emb, v)

	got, err := s.Search(context.Background(), "south", 10)
	require.NoError(t, err)
	for _, r := range got {
		assert.NotEqual(t, 0, r.ID)
		assert.NotEmpty(t, r.Word)
	}
}

func TestKDIndex(t *testing.T) {
	emb, v := fixtureMatrix(t)
	idx := NewKDIndex(emb, v)

	t.Run("MatchesExhaustiveOrdering", func(t *testing.T) {
		s := NewSearcher(emb, v)
		want, err := s.Search(context.Background(), "north", 3)
		require.NoError(t, err)

		got, err := idx.Nearest("north", 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i := range want {
			assert.Equal(t, want[i].Word, got[i].Word, "position %d", i)
			assert.InDelta(t, want[i].Score, got[i].Score, 1e-9)
		}
	})

	t.Run("ExcludesSelf", func(t *testing.T) {
		got, err := idx.Nearest("east", 4)
		require.NoError(t, err)
		for _, r := range got {
			assert.NotEqual(t, "east", r.Word)
		}
	})

	t.Run("WordNotFound", func(t *testing.T) {
		_, err := idx.Nearest("missing", 3)
		assert.ErrorIs(t, err, ErrWordNotFound)
	})
}
