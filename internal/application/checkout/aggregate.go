package checkout

import (
	"strings"

	"github.com/amazin/bookstore/internal/domain"
)

// AggregateCart collapses a submitted cart into one summed quantity per
// ISBN. Lines are untrusted input: the whole cart is rejected on the first
// blank identifier or non-positive quantity. Pure, no side effects.
func AggregateCart(lines []domain.CartLine) (*domain.AggregatedCart, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	cart := domain.NewAggregatedCart()
	for i, line := range lines {
		if strings.TrimSpace(line.ISBN) == "" {
			return nil, &domain.InvalidLineError{Index: i}
		}
		if line.Quantity <= 0 {
			return nil, &domain.InvalidQuantityError{ISBN: line.ISBN, Quantity: line.Quantity}
		}
		cart.Add(line.ISBN, line.Quantity)
	}
	return cart, nil
}
