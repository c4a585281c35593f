package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/amazin/bookstore/internal/domain"
)

// Checkout runs fn against the books for the given ISBNs with their rows
// locked (SELECT ... FOR UPDATE). Rows are locked in ISBN order so two
// carts touching the same books cannot deadlock. Stock updates and the
// order insert commit together; any error from fn or from the writes rolls
// everything back with no visible effect.
func (s *Store) Checkout(ctx context.Context, isbns []string, fn domain.CheckoutFunc) (*domain.Order, []domain.Book, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE isbn = ANY($1)
		ORDER BY isbn
		FOR UPDATE
	`, isbns)
	if err != nil {
		return nil, nil, err
	}
	books, err := scanBooks(rows)
	rows.Close()
	if err != nil {
		return nil, nil, err
	}

	order, updated, err := fn(books)
	if err != nil {
		return nil, nil, err
	}

	batch := &pgx.Batch{}
	for _, b := range updated {
		batch.Queue(`UPDATE books SET inventory = $2 WHERE isbn = $1`, b.ISBN, b.Inventory)
	}
	if br := tx.SendBatch(ctx, batch); br != nil {
		if err := br.Close(); err != nil {
			return nil, nil, err
		}
	}

	if err := insertOrder(ctx, tx, order); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return order, updated, nil
}
