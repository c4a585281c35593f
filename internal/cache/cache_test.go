package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/amazin/bookstore/internal/domain"
)

func TestWarm(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockrepo(ctrl)
	books := []domain.Book{
		{ISBN: "1", Title: "One"},
		{ISBN: "2", Title: "Two"},
		{ISBN: "3", Title: "Three"},
	}
	repo.EXPECT().ListBooks(gomock.Any()).Return(books, nil)

	c, err := New(3)
	if err != nil {
		t.Fatalf("unexpected error constructing cache: %v", err)
	}
	c.Warm(context.Background(), repo)

	for _, b := range books {
		if _, ok := c.Get(b.ISBN); !ok {
			t.Errorf("expected isbn %s to be cached after Warm", b.ISBN)
		}
	}
}

func TestWarmIgnoresRepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockrepo(ctrl)
	repo.EXPECT().ListBooks(gomock.Any()).Return(nil, errors.New("repo error"))

	c, err := New(5)
	if err != nil {
		t.Fatalf("unexpected error constructing cache: %v", err)
	}

	c.Warm(context.Background(), repo) // must not panic, cache just stays cold

	if _, ok := c.Get("anything"); ok {
		t.Errorf("cache must be empty after failed Warm")
	}
}

func TestWarmEvictsBeyondCapacity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockrepo(ctrl)
	books := []domain.Book{
		{ISBN: "1"}, {ISBN: "2"}, {ISBN: "3"}, {ISBN: "4"},
	}
	repo.EXPECT().ListBooks(gomock.Any()).Return(books, nil)

	c, err := New(2)
	if err != nil {
		t.Fatalf("unexpected error constructing cache: %v", err)
	}
	c.Warm(context.Background(), repo)

	hits := 0
	for _, b := range books {
		if _, ok := c.Get(b.ISBN); ok {
			hits++
		}
	}
	if hits != 2 {
		t.Errorf("expected 2 cached books after warming over capacity, got %d", hits)
	}
}

func TestSetGet(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("unexpected error constructing cache: %v", err)
	}

	book := domain.Book{ISBN: "x", Title: "X", Inventory: 3}
	c.Set(&book)

	got, ok := c.Get("x")
	if !ok {
		t.Fatalf("expected x to be cached")
	}
	if got.Inventory != 3 {
		t.Errorf("expected inventory 3, got %d", got.Inventory)
	}

	// Overwrite reflects the latest stock.
	book.Inventory = 1
	c.Set(&book)
	got, _ = c.Get("x")
	if got.Inventory != 1 {
		t.Errorf("expected inventory 1 after refresh, got %d", got.Inventory)
	}
}
