package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty", "", ""},
		{"LettersOnly", "hello world", "hello world"},
		{"Lowercases", "Hello World", "hello world"},
		{"StripsPunctuation", "Kucing duduk di atas tikar.", "kucing duduk di atas tikar "},
		{"StripsDigits", "chapter 42 begins", "chapter begins"},
		{"CollapsesWhitespace", "a\t b\n\nc", "a b c"},
		{"MixedNoise", "It's 1984, isn't it?", "it s isn t it "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestSentences(t *testing.T) {
	t.Run("CleanedTextHasNoPeriods", func(t *testing.T) {
		// Cleaning runs before the split, so the period from the original
		// text never survives into the segments.
		got := Sentences("Kucing duduk di atas tikar.")
		assert.Equal(t, []string{"kucing duduk di atas tikar "}, got)
	})

	t.Run("WholeCorpusIsOneSegment", func(t *testing.T) {
		got := Sentences("First sentence. Second sentence. Third.")
		assert.Len(t, got, 1)
		assert.Equal(t, "first sentence second sentence third ", got[0])
	})

	t.Run("Empty", func(t *testing.T) {
		got := Sentences("")
		assert.Equal(t, []string{""}, got)
	})
}
