package pairs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Run("LeftPadding", func(t *testing.T) {
		ps := []Pair{
			{Context: []int{2, 3}, Target: 1},
			{Context: []int{1, 2, 4, 5}, Target: 3},
			{Context: nil, Target: 9},
		}
		b, err := Encode(ps, 4)
		require.NoError(t, err)
		require.Equal(t, 3, b.Len())

		assert.Equal(t, []int{0, 0, 2, 3}, b.Contexts[0], "short context is left-padded with the pad id")
		assert.Equal(t, []int{1, 2, 4, 5}, b.Contexts[1], "full context is unchanged")
		assert.Equal(t, []int{0, 0, 0, 0}, b.Contexts[2], "empty context is all padding")
		assert.Equal(t, []int{1, 3, 9}, b.Targets)
	})

	t.Run("EveryRowHasContextLen", func(t *testing.T) {
		ps := Generate([]int{1, 2, 3, 4, 5, 6}, 2)
		b, err := Encode(ps, 4)
		require.NoError(t, err)
		for i, row := range b.Contexts {
			assert.Len(t, row, 4, "row %d", i)
			// Padding is a prefix; the original context follows in order.
			pad := 0
			for pad < len(row) && row[pad] == PadID {
				pad++
			}
			assert.Equal(t, ps[i].Context, row[pad:])
		}
	})

	t.Run("OversizedContextRejected", func(t *testing.T) {
		_, err := Encode([]Pair{{Context: []int{1, 2, 3}, Target: 4}}, 2)
		assert.Error(t, err)
	})

	t.Run("EmptyPairList", func(t *testing.T) {
		b, err := Encode(nil, 4)
		require.NoError(t, err)
		assert.Equal(t, 0, b.Len())
	})
}

func TestOneHotRoundTrip(t *testing.T) {
	row, err := OneHot(3, 6)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 1, 0, 0}, row)

	got, err := DecodeOneHot(row)
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	_, err = OneHot(6, 6)
	assert.Error(t, err)

	_, err = DecodeOneHot([]float64{0, 0})
	assert.Error(t, err)

	_, err = DecodeOneHot([]float64{1, 1})
	assert.Error(t, err)
}

func TestCoverage(t *testing.T) {
	ps := Generate([]int{1, 2, 3, 4}, 1)
	c := NewCoverage(ps)

	assert.Equal(t, uint64(4), c.TargetCount())
	assert.Equal(t, 1.0, c.TargetCoverage(5))
	assert.True(t, c.ContextOnly().IsEmpty(), "whole-sequence windowing leaves no context-only ids")

	// A filtered pair list where id 9 only appears as context.
	filtered := []Pair{{Context: []int{9, 2}, Target: 1}}
	c = NewCoverage(filtered)
	assert.Equal(t, uint64(1), c.TargetCount())
	assert.True(t, c.ContextOnly().Contains(9))

	// Padding inside contexts is never counted.
	c = NewCoverage([]Pair{{Context: []int{0, 0, 2}, Target: 1}})
	assert.False(t, c.Contexts.Contains(0))
}
