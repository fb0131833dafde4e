package vocab

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/armon/go-radix"
)

// PrefixIndexStats tracks performance metrics for the prefix index
type PrefixIndexStats struct {
	TotalTokens   int64
	TokenLookups  int64
	PrefixLookups int64
	Insertions    int64
	mu            sync.RWMutex
}

// PrefixIndex provides O(k) token lookups and prefix queries over the
// vocabulary using a compressed trie (patricia tree), where k is the length
// of the token being searched, not the number of vocabulary entries.
type PrefixIndex struct {
	tree  *radix.Tree    // Core patricia tree for token storage
	mu    sync.RWMutex   // Read-write mutex for concurrent access
	stats *PrefixIndexStats
}

// NewPrefixIndex creates a patricia tree-based index over a frozen vocabulary.
func NewPrefixIndex(v *Vocabulary) *PrefixIndex {
	idx := &PrefixIndex{
		tree:  radix.New(),
		stats: &PrefixIndexStats{},
	}
	for _, tok := range v.Tokens() {
		id, _ := v.TokenID(tok)
		idx.insert(tok, id)
	}
	return idx
}

func (idx *PrefixIndex) insert(token string, id int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	_, updated := idx.tree.Insert(token, id)

	idx.stats.mu.Lock()
	if !updated {
		idx.stats.TotalTokens++
	}
	idx.stats.Insertions++
	idx.stats.mu.Unlock()
}

// Lookup returns the vocabulary id stored for an exact token.
func (idx *PrefixIndex) Lookup(token string) (int, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	idx.stats.mu.Lock()
	idx.stats.TokenLookups++
	idx.stats.mu.Unlock()

	value, ok := idx.tree.Get(token)
	if !ok {
		return 0, false
	}
	return value.(int), true
}

// WithPrefix returns all vocabulary tokens sharing the given prefix,
// sorted lexicographically.
func (idx *PrefixIndex) WithPrefix(prefix string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	idx.stats.mu.Lock()
	idx.stats.PrefixLookups++
	idx.stats.mu.Unlock()

	var tokens []string
	idx.tree.WalkPrefix(prefix, func(s string, v interface{}) bool {
		tokens = append(tokens, s)
		return false
	})
	sort.Strings(tokens)

	slog.Debug("Prefix lookup completed",
		"prefix", prefix,
		"matches", len(tokens))

	return tokens
}

// Stats returns a snapshot of index metrics.
func (idx *PrefixIndex) Stats() string {
	idx.stats.mu.RLock()
	defer idx.stats.mu.RUnlock()
	return fmt.Sprintf("tokens=%d lookups=%d prefix_lookups=%d insertions=%d",
		idx.stats.TotalTokens, idx.stats.TokenLookups, idx.stats.PrefixLookups, idx.stats.Insertions)
}
