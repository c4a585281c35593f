package recommend

// Pair is the Jaccard similarity of two distinct past orders, identified
// by their indices into the order history with A < B. Pairs are transient:
// computed per request, never persisted.
type Pair struct {
	A, B  int
	Score float64
}

// Similarities computes pairwise Jaccard similarity across the order
// history, each order reduced to its set of purchased ISBNs. Pairs with
// score 0 carry no signal and are dropped.
//
// Cost is O(n²) pairs with O(k) set work per pair. Fine for the order
// histories a single store accumulates; large histories would need
// precomputation before this could serve real-time traffic.
func Similarities(histories [][]string) []Pair {
	sets := make([]map[string]struct{}, len(histories))
	for i, h := range histories {
		sets[i] = toSet(h)
	}

	var pairs []Pair
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if score := jaccard(sets[i], sets[j]); score > 0 {
				pairs = append(pairs, Pair{A: i, B: j, Score: score})
			}
		}
	}
	return pairs
}

// jaccard is |a ∩ b| / |a ∪ b|; 0 when either set is empty.
func jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func toSet(isbns []string) map[string]struct{} {
	set := make(map[string]struct{}, len(isbns))
	for _, isbn := range isbns {
		set[isbn] = struct{}{}
	}
	return set
}

// intersect walks a in its original order and keeps the members also in b,
// deduplicated. Slice order keeps the result deterministic.
func intersect(a []string, b map[string]struct{}) []string {
	var out []string
	seen := make(map[string]struct{}, len(a))
	for _, isbn := range a {
		if _, dup := seen[isbn]; dup {
			continue
		}
		seen[isbn] = struct{}{}
		if _, ok := b[isbn]; ok {
			out = append(out, isbn)
		}
	}
	return out
}
