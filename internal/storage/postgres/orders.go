package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/amazin/bookstore/internal/domain"
)

func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.listOrders(ctx, `
		SELECT id, user_id, created_at FROM orders
		ORDER BY created_at DESC
	`)
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.listOrders(ctx, `
		SELECT id, user_id, created_at FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (s *Store) SaveOrder(ctx context.Context, order *domain.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := insertOrder(ctx, tx, order); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// insertOrder writes the order row and all item snapshots inside the
// caller's transaction. Orders are insert-only: no upsert, no per-line
// incremental writes.
func insertOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, created_at)
		VALUES ($1,$2,$3)
	`, order.ID, order.UserID, order.CreatedAt)
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, it := range order.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, line_no, isbn, title, price, quantity, image_url)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, order.ID, i, it.ISBN, it.Title, it.Price, it.Quantity, it.ImageURL)
	}
	if br := tx.SendBatch(ctx, batch); br != nil {
		if err := br.Close(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	index := make(map[string]int)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	itemRows, err := s.pool.Query(ctx, `
		SELECT order_id, isbn, title, price, quantity, image_url
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, line_no
	`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID string
		var it domain.OrderItem
		if err := itemRows.Scan(&orderID, &it.ISBN, &it.Title, &it.Price, &it.Quantity, &it.ImageURL); err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, itemRows.Err()
}
