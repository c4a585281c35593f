package domain

// CartLine is one submitted cart entry. Callers are untrusted: the ISBN may
// be blank and the quantity non-positive until the line passes aggregation.
type CartLine struct {
	ISBN     string `json:"isbn"`
	Quantity int    `json:"quantity"`
}

// AggregatedCart holds one summed quantity per ISBN. ISBNs keeps the order
// of first occurrence in the submitted cart so error messages stay stable.
type AggregatedCart struct {
	ISBNs      []string
	Quantities map[string]int
}

func NewAggregatedCart() *AggregatedCart {
	return &AggregatedCart{Quantities: make(map[string]int)}
}

func (c *AggregatedCart) Add(isbn string, quantity int) {
	if _, ok := c.Quantities[isbn]; !ok {
		c.ISBNs = append(c.ISBNs, isbn)
	}
	c.Quantities[isbn] += quantity
}

func (c *AggregatedCart) Len() int { return len(c.ISBNs) }

func (c *AggregatedCart) Quantity(isbn string) int { return c.Quantities[isbn] }
