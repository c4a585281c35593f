package domain

import (
	"context"
)

type BookRepository interface {
	ListBooks(ctx context.Context) ([]Book, error)
	GetBooks(ctx context.Context, isbns []string) ([]Book, error)
	GetBook(ctx context.Context, isbn string) (*Book, error)
}

type OrderRepository interface {
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]Order, error)
}

// CheckoutFunc receives the current books for the requested ISBNs (catalog
// iteration order, possibly fewer than requested when some are unknown) and
// returns the order to persist together with the post-decrement books.
// Returning an error aborts the whole unit with no visible effect.
type CheckoutFunc func(books []Book) (*Order, []Book, error)

// CheckoutStore applies fn as one atomic unit. The books for the given
// ISBNs stay locked against concurrent checkouts from the read through the
// commit, so stock can never be oversold between validation and decrement.
type CheckoutStore interface {
	Checkout(ctx context.Context, isbns []string, fn CheckoutFunc) (*Order, []Book, error)
}
