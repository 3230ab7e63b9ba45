package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/shopsmarter/cart-engine/internal/cart"
)

// Product is the catalog row shoppers browse. Prices here are the
// live catalog prices; carts copy them into frozen snapshots at add
// time and never read back.
type Product struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Category    string          `gorm:"index" json:"category,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	InStock     bool            `gorm:"not null;default:true" json:"in_stock"`
}

func (Product) TableName() string {
	return "products"
}

// CartProduct converts the catalog row into the shape cart mutators
// snapshot from.
func (p Product) CartProduct() cart.Product {
	return cart.Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
		Category: p.Category,
		InStock:  p.InStock,
	}
}
