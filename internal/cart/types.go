package cart

import (
	"github.com/shopspring/decimal"
)

// Product is the catalog data a mutator captures into a line item at
// add time. The price is frozen into the snapshot and never re-read.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	ImageURL string
	Category string
	InStock  bool
}

// LineItem is one product entry in the cart. The JSON field names match
// the durable record shared with every surface reading the cart.
type LineItem struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image,omitempty"`
	Category  string          `json:"category,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Cart is the keyed collection of line items, unique by product id.
// Iteration order is insertion order and carries no semantic weight.
type Cart struct {
	Items []LineItem
}

// IsEmpty reports whether the cart holds no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Lookup returns the index of the line item for the given product id,
// or -1 when absent.
func (c Cart) Lookup(productID int64) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// TotalQuantity sums the quantities across all line items.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func snapshot(p Product, qty int) LineItem {
	return LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
		Category:  p.Category,
		Quantity:  qty,
	}
}
