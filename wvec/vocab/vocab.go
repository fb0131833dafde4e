package vocab

import (
	"strings"
)

// PadID is the reserved padding id. No token is ever assigned it.
const PadID = 0

// Vocabulary maps tokens to dense integer ids assigned in order of first
// encounter, starting at 1. Id 0 is reserved for padding. The mapping is
// frozen after Build; both lookup directions are read-only.
type Vocabulary struct {
	tokenToID map[string]int
	idToToken []string // index 0 holds the empty pad slot
}

// Build tokenizes each sentence by whitespace and assigns every first-seen
// token the next free id, counting across the full sentence sequence.
func Build(sentences []string) *Vocabulary {
	v := &Vocabulary{
		tokenToID: make(map[string]int),
		idToToken: []string{""},
	}
	for _, sentence := range sentences {
		for _, tok := range strings.Fields(sentence) {
			if _, seen := v.tokenToID[tok]; seen {
				continue
			}
			v.tokenToID[tok] = len(v.idToToken)
			v.idToToken = append(v.idToToken, tok)
		}
	}
	return v
}

// TokenID returns the id for tok and whether it is in the vocabulary.
func (v *Vocabulary) TokenID(tok string) (int, bool) {
	id, ok := v.tokenToID[tok]
	return id, ok
}

// Token returns the token for id. The pad id and out-of-range ids report false.
func (v *Vocabulary) Token(id int) (string, bool) {
	if id <= PadID || id >= len(v.idToToken) {
		return "", false
	}
	return v.idToToken[id], true
}

// Size returns the number of distinct tokens plus one for the pad slot.
func (v *Vocabulary) Size() int {
	return len(v.idToToken)
}

// Encode maps a sentence to its token-id sequence. Tokens missing from the
// vocabulary are skipped; a frozen vocabulary built from the same corpus
// never misses.
func (v *Vocabulary) Encode(sentence string) []int {
	fields := strings.Fields(sentence)
	ids := make([]int, 0, len(fields))
	for _, tok := range fields {
		if id, ok := v.tokenToID[tok]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Tokens returns all vocabulary tokens in id order (id 1 first).
func (v *Vocabulary) Tokens() []string {
	out := make([]string, len(v.idToToken)-1)
	copy(out, v.idToToken[1:])
	return out
}
