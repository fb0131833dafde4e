package pairs

// Pair is a single CBOW training example: the ids surrounding a target
// position, in original left-to-right order, and the target id itself.
type Pair struct {
	Context []int
	Target  int
}

// Generate emits one pair per position of the id sequence. The context window
// spans radius ids on each side, excludes the target position, and is
// truncated at sequence boundaries. Length-1 sequences produce a pair with an
// empty context; nothing is filtered.
func Generate(seq []int, radius int) []Pair {
	if radius < 1 {
		radius = 1
	}
	out := make([]Pair, 0, len(seq))
	for i, target := range seq {
		start := i - radius
		if start < 0 {
			start = 0
		}
		end := i + radius + 1
		if end > len(seq) {
			end = len(seq)
		}
		ctx := make([]int, 0, end-start-1)
		for j := start; j < end; j++ {
			if j == i {
				continue
			}
			ctx = append(ctx, seq[j])
		}
		out = append(out, Pair{Context: ctx, Target: target})
	}
	return out
}

// GenerateAll concatenates the pairs of every sentence's id sequence,
// preserving sentence order. Empty sequences contribute nothing.
func GenerateAll(sequences [][]int, radius int) []Pair {
	var out []Pair
	for _, seq := range sequences {
		out = append(out, Generate(seq, radius)...)
	}
	return out
}
