package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Order represents one placed order. The Items slice is the in-memory
// aggregate; the durable representation is the serialized OrderText column.
type Order struct {
	ID              uint           `gorm:"primaryKey" json:"order_id"`
	Reference       string         `gorm:"uniqueIndex;size:36" json:"reference"` // public order reference (uuid)
	UserID          *uint          `gorm:"index" json:"user_id"`
	Organisation    string         `json:"organisation"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryCharge  float64        `gorm:"not null;default:0" json:"delivery_charge"`
	OrderDateTime   time.Time      `gorm:"column:order_datetime;not null" json:"order_datetime"`
	OrderText       string         `gorm:"type:text" json:"order_text"`
	TotalAmount     float64        `gorm:"not null" json:"total_amount"`
	DeliveryDate    *string        `gorm:"size:10" json:"delivery_date"`  // YYYY-MM-DD
	DeliveryTime    *string        `gorm:"size:10" json:"delivery_time"`  // HH:MM
	DeliveryNotes   *string        `json:"delivery_notes"`
	Items           []OrderItem    `gorm:"-" json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "order_history"
}

// OrderItem is one line of an order. Items are deduplicated by name:
// adding an existing name increments its quantity instead of appending.
type OrderItem struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	SKU       string  `json:"sku,omitempty"`
	Category  string  `json:"category,omitempty"`
	ProductID uint    `json:"id,omitempty"`
}

// orderItemWire accepts both the current field names and the legacy flat
// format, which used "count" instead of "quantity".
type orderItemWire struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Count     int     `json:"count"`
	SKU       string  `json:"sku"`
	Category  string  `json:"category"`
	ProductID uint    `json:"id"`
}

// UnmarshalJSON normalizes legacy item payloads into the canonical shape.
func (i *OrderItem) UnmarshalJSON(data []byte) error {
	var w orderItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	quantity := w.Quantity
	if quantity == 0 && w.Count > 0 {
		quantity = w.Count
	}

	*i = OrderItem{
		Name:      w.Name,
		Price:     w.Price,
		Quantity:  quantity,
		SKU:       w.SKU,
		Category:  w.Category,
		ProductID: w.ProductID,
	}
	return nil
}

// OrderDetails is the versioned durable record stored in OrderText.
type OrderDetails struct {
	Version      int                `json:"version"`
	Items        []OrderItem        `json:"items"`
	Subtotals    map[string]float64 `json:"subtotals"`
	Summary      OrderSummary       `json:"summary"`
	DeliveryInfo DeliveryInfo       `json:"delivery_info"`
	ContactInfo  *ContactInfo       `json:"contact_info"`
	// LegacyText holds the raw order text when it predates the structured
	// record and cannot be parsed. Display-only.
	LegacyText string `json:"-"`
}

// OrderSummary is the money block of the durable record
type OrderSummary struct {
	Subtotal       float64 `json:"subtotal"`
	DeliveryCharge float64 `json:"delivery_charge"`
	Total          float64 `json:"total"`
}

// DeliveryInfo is the delivery block of the durable record
type DeliveryInfo struct {
	DeliveryCharge  float64 `json:"delivery_charge"`
	DeliveryAddress string  `json:"delivery_address"`
	Organisation    string  `json:"organisation"`
}

// ContactInfo is an optional contact block of the durable record
type ContactInfo struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// NewOrder creates an empty order stamped with the current time
func NewOrder() *Order {
	return &Order{OrderDateTime: time.Now()}
}

// AddItem merges an item into the order. If an item with the same name is
// already present its quantity grows by the incoming quantity (defaulted
// to 1); otherwise a normalized copy is appended. Totals are recomputed.
func (o *Order) AddItem(item OrderItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	for idx := range o.Items {
		if o.Items[idx].Name == item.Name {
			o.Items[idx].Quantity += item.Quantity
			o.UpdateTotals()
			return
		}
	}

	o.Items = append(o.Items, item)
	o.UpdateTotals()
}

// RemoveItem decrements the quantity at index, dropping the line entirely
// when it reaches zero. Out-of-range indices are a no-op.
func (o *Order) RemoveItem(index int) {
	if index < 0 || index >= len(o.Items) {
		return
	}

	if o.Items[index].Quantity > 1 {
		o.Items[index].Quantity--
	} else {
		o.Items = append(o.Items[:index], o.Items[index+1:]...)
	}

	o.UpdateTotals()
}

// SetItems replaces the item list and recomputes totals
func (o *Order) SetItems(items []OrderItem) {
	o.Items = items
	o.UpdateTotals()
}

// SetDeliveryCharge sets the delivery charge and recomputes totals
func (o *Order) SetDeliveryCharge(charge float64) {
	o.DeliveryCharge = charge
	o.UpdateTotals()
}

// Subtotal returns the sum of price x quantity over all items
func (o *Order) Subtotal() float64 {
	var subtotal float64
	for _, item := range o.Items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		subtotal += item.Price * float64(quantity)
	}
	return subtotal
}

// Total returns the subtotal plus the delivery charge
func (o *Order) Total() float64 {
	return o.Subtotal() + o.DeliveryCharge
}

// UpdateTotals recomputes TotalAmount from the items and delivery charge.
// The stored total is never trusted from client input.
func (o *Order) UpdateTotals() {
	o.TotalAmount = o.Total()
}

// CategorySubtotals groups line totals by item category. Items without a
// category are skipped.
func (o *Order) CategorySubtotals() map[string]float64 {
	subtotals := make(map[string]float64)
	for _, item := range o.Items {
		if item.Category == "" {
			continue
		}
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		subtotals[item.Category] += item.Price * float64(quantity)
	}
	return subtotals
}

// GenerateOrderText serializes the order into its durable representation
// and stores it in OrderText.
func (o *Order) GenerateOrderText() (string, error) {
	details := OrderDetails{
		Version:   1,
		Items:     o.Items,
		Subtotals: o.CategorySubtotals(),
		Summary: OrderSummary{
			Subtotal:       o.Subtotal(),
			DeliveryCharge: o.DeliveryCharge,
			Total:          o.TotalAmount,
		},
		DeliveryInfo: DeliveryInfo{
			DeliveryCharge:  o.DeliveryCharge,
			DeliveryAddress: o.DeliveryAddress,
			Organisation:    o.Organisation,
		},
		ContactInfo: nil,
	}

	encoded, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return "", err
	}

	o.OrderText = string(encoded)
	return o.OrderText, nil
}

// ParseOrderText decodes the durable order record back into the in-memory
// aggregate. Structured parse is attempted first; anything that is not a
// structured record is treated as an opaque legacy blob with no parsed
// items. It never fails on malformed legacy content.
func (o *Order) ParseOrderText() OrderDetails {
	var details OrderDetails
	if o.OrderText == "" {
		return details
	}

	if err := json.Unmarshal([]byte(o.OrderText), &details); err != nil || details.Items == nil {
		return OrderDetails{LegacyText: o.OrderText}
	}

	o.Items = details.Items
	return details
}
