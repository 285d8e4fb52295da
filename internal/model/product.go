package model

// Product is a single catalog item. Name and Description are matched as
// free text by the catalog filter; Brand and Price are matched structurally.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ProductURL  string  `json:"product_url,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// SearchableText returns the free text a filter scans for color and
// category tokens.
func (p Product) SearchableText() string {
	return p.Name + " " + p.Description
}
