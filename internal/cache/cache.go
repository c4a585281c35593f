package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/amazin/bookstore/internal/domain"
)

//go:generate mockgen -source internal/cache/cache.go -destination=internal/cache/cache_mock_test.go -package=cache

type repo interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
}

type Cache struct {
	size int
	lru  *lru.Cache[string, domain.Book]
}

func New(size int) (*Cache, error) {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New[string, domain.Book](size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		size: size,
		lru:  c,
	}, nil
}

// Warm preloads the catalog; the LRU keeps at most size entries, so an
// oversized catalog just evicts the earliest ones. Errors are ignored; a
// cold cache only costs DB reads.
func (c *Cache) Warm(ctx context.Context, repo repo) {
	if books, err := repo.ListBooks(ctx); err == nil {
		for i := range books {
			c.Set(&books[i])
		}
	}
}

func (c *Cache) Get(isbn string) (*domain.Book, bool) {
	book, ok := c.lru.Get(isbn)
	return &book, ok
}

func (c *Cache) Set(book *domain.Book) {
	c.lru.Add(book.ISBN, *book)
}
