package kafka

import (
	"time"

	"github.com/amazin/bookstore/internal/domain"
)

// OrderCreatedEvent is the payload published to the order events topic
// after a checkout commits.
type OrderCreatedEvent struct {
	OrderID   string           `json:"order_id"`
	UserID    string           `json:"user_id"`
	CreatedAt time.Time        `json:"created_at"`
	Items     []OrderItemEvent `json:"items"`
	Total     float64          `json:"total"`
}

type OrderItemEvent struct {
	ISBN     string  `json:"isbn"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func NewOrderCreated(order *domain.Order) OrderCreatedEvent {
	ev := OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		CreatedAt: order.CreatedAt,
		Items:     make([]OrderItemEvent, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		ev.Items = append(ev.Items, OrderItemEvent{
			ISBN:     it.ISBN,
			Title:    it.Title,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
		ev.Total += it.Price * float64(it.Quantity)
	}
	return ev
}
