package recommend

import (
	"math/rand"
	"sync"
	"time"

	"github.com/amazin/bookstore/internal/domain"
)

// DefaultLimit is the recommendation list size when the caller doesn't ask
// for a specific count.
const DefaultLimit = 8

// Selector assembles a recommendation list with tiered fallback so the
// feature degrades gracefully on sparse history. The random source is
// injected so tests can pin the shuffles; it is guarded by a mutex because
// *rand.Rand is not safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSelector(rnd *rand.Rand) *Selector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rnd: rnd}
}

// Select returns min(limit, reachable distinct books) with no duplicates,
// reading catalog and history only. Tiers, in order:
//
//	0: no history at all, uniform random sample of the catalog;
//	1: every book shared by a pair of similar orders, pairs consumed in
//	   ascending (A,B) order;
//	2: random fill from previously purchased books not yet selected;
//	3: random fill from never-purchased books not yet selected.
func (s *Selector) Select(catalog []domain.Book, orders []domain.Order, limit int) []domain.Book {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(orders) == 0 {
		sample := append([]domain.Book(nil), catalog...)
		s.rnd.Shuffle(len(sample), func(i, j int) { sample[i], sample[j] = sample[j], sample[i] })
		if len(sample) > limit {
			sample = sample[:limit]
		}
		return sample
	}

	byISBN := make(map[string]domain.Book, len(catalog))
	for _, b := range catalog {
		byISBN[b.ISBN] = b
	}

	histories := make([][]string, len(orders))
	purchased := make(map[string]struct{})
	for i := range orders {
		isbns := orders[i].BookISBNs()
		histories[i] = isbns
		for _, isbn := range isbns {
			purchased[isbn] = struct{}{}
		}
	}

	picked := make(map[string]struct{}, limit)
	out := make([]domain.Book, 0, limit)
	add := func(isbn string) {
		if _, dup := picked[isbn]; dup {
			return
		}
		book, ok := byISBN[isbn]
		if !ok {
			// A purchased book may have left the catalog since.
			return
		}
		picked[isbn] = struct{}{}
		out = append(out, book)
	}

	// Tier 1: co-purchase intersections across all similar pairs.
	sets := make([]map[string]struct{}, len(histories))
	for i, h := range histories {
		sets[i] = toSet(h)
	}
	for _, p := range Similarities(histories) {
		for _, isbn := range intersect(histories[p.A], sets[p.B]) {
			add(isbn)
			if len(out) == limit {
				return out
			}
		}
	}

	// Tier 2: previously purchased, not yet selected.
	if len(out) < limit {
		out = s.fill(out, picked, catalog, limit, func(b domain.Book) bool {
			_, was := purchased[b.ISBN]
			return was
		})
	}

	// Tier 3: never purchased.
	if len(out) < limit {
		out = s.fill(out, picked, catalog, limit, func(b domain.Book) bool {
			_, was := purchased[b.ISBN]
			return !was
		})
	}

	return out
}

// fill appends a uniform-random sample of the catalog books that match
// keep and aren't selected yet, up to the limit.
func (s *Selector) fill(out []domain.Book, picked map[string]struct{}, catalog []domain.Book, limit int, keep func(domain.Book) bool) []domain.Book {
	var candidates []domain.Book
	for _, b := range catalog {
		if _, dup := picked[b.ISBN]; dup {
			continue
		}
		if keep(b) {
			candidates = append(candidates, b)
		}
	}
	s.rnd.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	for _, b := range candidates {
		if len(out) == limit {
			break
		}
		picked[b.ISBN] = struct{}{}
		out = append(out, b)
	}
	return out
}
