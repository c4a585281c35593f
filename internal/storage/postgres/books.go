package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/amazin/bookstore/internal/domain"
)

const bookColumns = `isbn, title, author, publisher, genre, description, image_url, price, inventory`

func (s *Store) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bookColumns+`
		FROM books
		ORDER BY isbn
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

// GetBooks returns the books for the given ISBNs ordered by ISBN; unknown
// identifiers are simply absent from the result.
func (s *Store) GetBooks(ctx context.Context, isbns []string) ([]domain.Book, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE isbn = ANY($1)
		ORDER BY isbn
	`, isbns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (s *Store) GetBook(ctx context.Context, isbn string) (*domain.Book, error) {
	var b domain.Book
	err := s.pool.QueryRow(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE isbn = $1
	`, isbn).Scan(
		&b.ISBN, &b.Title, &b.Author, &b.Publisher, &b.Genre, &b.Description,
		&b.ImageURL, &b.Price, &b.Inventory,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) SaveBooks(ctx context.Context, books []domain.Book) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, b := range books {
		batch.Queue(`
			INSERT INTO books (`+bookColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (isbn) DO UPDATE SET
			  title=EXCLUDED.title,
			  author=EXCLUDED.author,
			  publisher=EXCLUDED.publisher,
			  genre=EXCLUDED.genre,
			  description=EXCLUDED.description,
			  image_url=EXCLUDED.image_url,
			  price=EXCLUDED.price,
			  inventory=EXCLUDED.inventory
		`, b.ISBN, b.Title, b.Author, b.Publisher, b.Genre, b.Description,
			b.ImageURL, b.Price, b.Inventory)
	}
	if br := tx.SendBatch(ctx, batch); br != nil {
		if err := br.Close(); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func scanBooks(rows pgx.Rows) ([]domain.Book, error) {
	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.ISBN, &b.Title, &b.Author, &b.Publisher, &b.Genre, &b.Description,
			&b.ImageURL, &b.Price, &b.Inventory,
		); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
