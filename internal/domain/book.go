package domain

// Book is a catalog record. Inventory is the number of copies currently
// available for sale and never goes below zero.
type Book struct {
	ISBN        string  `json:"isbn"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Publisher   string  `json:"publisher,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Price       float64 `json:"price"`
	Inventory   int     `json:"inventory"`
}
