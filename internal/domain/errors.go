package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart = errors.New("cart cannot be empty")
	ErrNotFound  = errors.New("not found")
)

// InvalidLineError reports a cart line with a missing or blank ISBN.
type InvalidLineError struct {
	Index int
}

func (e *InvalidLineError) Error() string {
	return "each cart item must include an ISBN"
}

// InvalidQuantityError reports a cart line with a non-positive quantity.
type InvalidQuantityError struct {
	ISBN     string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return "quantity must be at least 1"
}

// BooksNotFoundError lists every requested ISBN absent from the catalog,
// sorted lexicographically. The whole missing set is reported at once.
type BooksNotFoundError struct {
	Missing []string
}

func (e *BooksNotFoundError) Error() string {
	return "book not found: " + strings.Join(e.Missing, ", ")
}

func (e *BooksNotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError reports the first item whose requested quantity
// exceeds the available stock.
type InsufficientStockError struct {
	ISBN      string
	Title     string
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d copies of %q remain", e.Remaining, e.Title)
}
