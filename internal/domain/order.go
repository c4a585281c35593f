package domain

import "time"

// Order is created exactly once per successful checkout and is immutable
// afterwards. Items are snapshots: later catalog edits must not change
// what a past order records.
type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	CreatedAt time.Time   `json:"createdAt"`
	Items     []OrderItem `json:"items"`
}

// OrderItem freezes the catalog values of one line at purchase time.
type OrderItem struct {
	ISBN     string  `json:"isbn"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// BookISBNs returns the identifier of every line in the order.
func (o *Order) BookISBNs() []string {
	isbns := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		isbns = append(isbns, it.ISBN)
	}
	return isbns
}
