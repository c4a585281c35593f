package checkout

import (
	"sort"

	"github.com/amazin/bookstore/internal/domain"
)

// ValidateStock checks aggregated demand against the catalog's answer for
// the cart's ISBNs. Unknown identifiers are reported all at once, sorted;
// a stock shortfall is reported for the first short book in catalog
// iteration order. Pure, no mutation.
func ValidateStock(cart *domain.AggregatedCart, books []domain.Book) error {
	if len(books) != cart.Len() {
		found := make(map[string]struct{}, len(books))
		for _, b := range books {
			found[b.ISBN] = struct{}{}
		}
		var missing []string
		for _, isbn := range cart.ISBNs {
			if _, ok := found[isbn]; !ok {
				missing = append(missing, isbn)
			}
		}
		sort.Strings(missing)
		return &domain.BooksNotFoundError{Missing: missing}
	}

	for _, b := range books {
		if q := cart.Quantity(b.ISBN); q > b.Inventory {
			return &domain.InsufficientStockError{ISBN: b.ISBN, Title: b.Title, Remaining: b.Inventory}
		}
	}
	return nil
}
