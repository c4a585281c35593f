package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/amazin/bookstore/internal/domain"
)

// Store is an in-memory mirror of the postgres store, used by tests and by
// STORAGE=memory runs. A single mutex serializes checkouts, which gives the
// same guarantee the row locks give postgres: validation and decrement of
// the same book never interleave between two carts.
type Store struct {
	mu     sync.RWMutex
	books  map[string]domain.Book
	orders []domain.Order
}

func New() *Store {
	return &Store{books: make(map[string]domain.Book)}
}

func (s *Store) ListBooks(ctx context.Context) ([]domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.booksSorted(nil), nil
}

func (s *Store) GetBooks(ctx context.Context, isbns []string) ([]domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.booksSorted(isbns), nil
}

func (s *Store) GetBook(ctx context.Context, isbn string) (*domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.books[isbn]; ok {
		return &b, nil
	}
	return nil, domain.ErrNotFound
}

func (s *Store) SaveBooks(ctx context.Context, books []domain.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range books {
		s.books[b.ISBN] = b
	}
	return nil
}

func (s *Store) SaveOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, cloneOrder(order))
	return nil
}

func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, len(s.orders))
	for i := range s.orders {
		out[i] = cloneOrder(&s.orders[i])
	}
	return out, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Order
	for i := range s.orders {
		if s.orders[i].UserID == userID {
			out = append(out, cloneOrder(&s.orders[i]))
		}
	}
	return out, nil
}

// Checkout mirrors the postgres semantics: fn sees a consistent snapshot
// of the requested books, and its results become visible all at once or
// not at all.
func (s *Store) Checkout(ctx context.Context, isbns []string, fn domain.CheckoutFunc) (*domain.Order, []domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books := s.booksSorted(isbns)

	order, updated, err := fn(books)
	if err != nil {
		return nil, nil, err
	}

	for _, b := range updated {
		s.books[b.ISBN] = b
	}
	s.orders = append(s.orders, cloneOrder(order))
	return order, updated, nil
}

// booksSorted returns copies in ISBN order, matching the postgres
// ORDER BY. A nil filter means the whole catalog; unknown ISBNs are
// silently absent, duplicates collapse.
func (s *Store) booksSorted(isbns []string) []domain.Book {
	var out []domain.Book
	if isbns == nil {
		for _, b := range s.books {
			out = append(out, b)
		}
	} else {
		seen := make(map[string]struct{}, len(isbns))
		for _, isbn := range isbns {
			if _, dup := seen[isbn]; dup {
				continue
			}
			seen[isbn] = struct{}{}
			if b, ok := s.books[isbn]; ok {
				out = append(out, b)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ISBN < out[j].ISBN })
	return out
}

func cloneOrder(o *domain.Order) domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	return c
}
