package models

import "time"

// Product represents a catalog entry. The catalog itself is maintained
// externally; this model exists for sale recording and popularity ranking.
type Product struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"not null" json:"name"`
	SKU      string  `gorm:"index" json:"sku"`
	Price    float64 `gorm:"not null;check:price >= 0" json:"price"`
	Category string  `gorm:"index" json:"category"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ProductSale records one sold line of an order. Rows are written inside
// the order placement transaction and feed the popularity ranking.
type ProductSale struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	SaleDate  time.Time `gorm:"autoCreateTime;index" json:"sale_date"`
}

// TableName specifies the table name for the ProductSale model
func (ProductSale) TableName() string {
	return "product_sales"
}
