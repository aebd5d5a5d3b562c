package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hartwell-supplies/wholesale-orders-api/models"
	"gorm.io/gorm"
)

// OrderService coordinates order placement: it builds the order aggregate,
// persists the order and its sale records in one transaction, and links a
// previously reserved delivery slot as a best-effort follow-up.
type OrderService struct {
	db        *gorm.DB
	slotStore *SlotStore
}

// NewOrderService creates an OrderService around injected dependencies
func NewOrderService(db *gorm.DB, slotStore *SlotStore) *OrderService {
	return &OrderService{db: db, slotStore: slotStore}
}

// PlaceOrderResult is returned on successful placement
type PlaceOrderResult struct {
	OrderID           uint    `json:"orderId"`
	Reference         string  `json:"reference"`
	HasDelivery       bool    `json:"hasDelivery"`
	DeliveryCharge    float64 `json:"deliveryCharge"`
	TotalWithDelivery float64 `json:"totalWithDelivery"`
	// SlotLinked is true only when a slot ID was supplied and the link was
	// recorded after commit. A failed link leaves the committed order
	// standing with SlotLinked false.
	SlotLinked bool `json:"slotLinked"`
}

// PlaceOrder persists a new order. The delivery charge always comes from
// the principal's stored record, never from the request. The order row and
// its product_sales rows commit or roll back together; slot linkage
// happens after commit and its failure is logged, not fatal.
func (s *OrderService) PlaceOrder(
	items []models.OrderItem,
	principal *models.User,
	deliveryDate, deliveryTime, deliveryNotes *string,
	slotID *uint,
) (*PlaceOrderResult, error) {
	if len(items) == 0 {
		return nil, NewValidationError("items", "Order must contain at least one item")
	}
	if deliveryDate != nil {
		if err := ValidateDeliveryDate(*deliveryDate, time.Now()); err != nil {
			return nil, err
		}
	}
	if deliveryTime != nil {
		if err := ValidateTimeSlot(*deliveryTime); err != nil {
			return nil, err
		}
	}

	order := models.NewOrder()
	order.Reference = uuid.NewString()
	for _, item := range items {
		order.AddItem(item)
	}

	if principal != nil {
		order.UserID = &principal.ID
		order.Organisation = principal.Organisation
		order.DeliveryAddress = principal.DeliveryAddress
		order.SetDeliveryCharge(principal.DeliveryCharge)
	}

	order.DeliveryDate = deliveryDate
	order.DeliveryTime = deliveryTime
	order.DeliveryNotes = deliveryNotes

	order.UpdateTotals()
	if _, err := order.GenerateOrderText(); err != nil {
		return nil, &PersistenceError{Op: "order serialization", Err: err}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return &PersistenceError{Op: "order insert", Err: err}
		}

		for _, item := range order.Items {
			if item.ProductID == 0 || item.Quantity <= 0 {
				continue
			}
			sale := models.ProductSale{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			}
			if err := tx.Create(&sale).Error; err != nil {
				return &PersistenceError{Op: "sale recording", Err: err}
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("Order placement failed, transaction rolled back: %v", err)
		return nil, err
	}

	result := &PlaceOrderResult{
		OrderID:           order.ID,
		Reference:         order.Reference,
		HasDelivery:       principal != nil,
		DeliveryCharge:    order.DeliveryCharge,
		TotalWithDelivery: order.TotalAmount,
		SlotLinked:        slotID != nil,
	}

	// The slot reference is auxiliary metadata. A concurrent cancellation
	// between commit and link is tolerated: the committed order stands and
	// the miss is only logged.
	if slotID != nil {
		if !s.slotStore.LinkOrder(*slotID, order.ID) {
			log.Printf("Warning: order %d committed but slot %d could not be linked", order.ID, *slotID)
			result.SlotLinked = false
		}
	}

	return result, nil
}

// GetOrder returns one order with its items parsed from the durable record
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.First(&order, orderID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "order", ID: orderID}
		}
		return nil, err
	}

	order.ParseOrderText()
	return &order, nil
}

// RecentOrders returns up to limit orders, newest first. A non-nil userID
// restricts the listing to that user's orders.
func (s *OrderService) RecentOrders(limit int, userID *uint) ([]models.Order, error) {
	if limit <= 0 {
		limit = 10
	}

	query := s.db.Order("order_datetime DESC").Limit(limit)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].ParseOrderText()
	}
	return orders, nil
}
