package services

import (
	"testing"
	"time"

	"github.com/hartwell-supplies/wholesale-orders-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testPrincipal(t *testing.T, db *gorm.DB, charge float64) *models.User {
	t.Helper()

	user := models.User{
		Auth0ID:         "auth0|wholesale123",
		Name:            "Jordan Blake",
		Email:           "jordan@greenfield-grocers.example",
		Role:            "customer",
		Organisation:    "Greenfield Grocers",
		DeliveryAddress: "4 Market Lane",
		DeliveryCharge:  charge,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestPlaceOrder(t *testing.T) {
	db := setupServiceTestDB(t)
	service := NewOrderService(db, NewSlotStore(db))
	user := testPrincipal(t, db, 3.00)

	items := []models.OrderItem{
		{Name: "Widget", Price: 5.00, Quantity: 2, Category: "hardware", ProductID: 1},
	}

	result, err := service.PlaceOrder(items, user, nil, nil, nil, nil)
	require.NoError(t, err)

	assert.NotZero(t, result.OrderID)
	assert.NotEmpty(t, result.Reference)
	assert.True(t, result.HasDelivery)
	assert.Equal(t, 3.00, result.DeliveryCharge)
	assert.Equal(t, 13.00, result.TotalWithDelivery, "2 x 5.00 + 3.00 delivery")
	assert.False(t, result.SlotLinked, "No slot was supplied")

	// The persisted order carries the recomputed total and the principal's
	// delivery details
	var order models.Order
	require.NoError(t, db.First(&order, result.OrderID).Error)
	assert.Equal(t, 13.00, order.TotalAmount)
	assert.Equal(t, "Greenfield Grocers", order.Organisation)
	assert.Equal(t, "4 Market Lane", order.DeliveryAddress)
	require.NotNil(t, order.UserID)
	assert.Equal(t, user.ID, *order.UserID)

	// Sale records were written inside the same transaction
	var sales []models.ProductSale
	require.NoError(t, db.Find(&sales).Error)
	require.Len(t, sales, 1)
	assert.Equal(t, uint(1), sales[0].ProductID)
	assert.Equal(t, 2, sales[0].Quantity)

	// The durable record round-trips to the same items and totals
	details := order.ParseOrderText()
	require.Len(t, details.Items, 1)
	assert.Equal(t, "Widget", details.Items[0].Name)
	assert.Equal(t, 2, details.Items[0].Quantity)
	assert.Equal(t, 10.00, details.Summary.Subtotal)
	assert.Equal(t, 13.00, details.Summary.Total)
}

func TestPlaceOrderRequiresItems(t *testing.T) {
	db := setupServiceTestDB(t)
	service := NewOrderService(db, NewSlotStore(db))

	result, err := service.PlaceOrder(nil, nil, nil, nil, nil, nil)
	assert.Nil(t, result)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestPlaceOrderChargeComesFromPrincipal(t *testing.T) {
	db := setupServiceTestDB(t)
	service := NewOrderService(db, NewSlotStore(db))

	// No principal: no delivery charge regardless of what the client sent
	items := []models.OrderItem{{Name: "Widget", Price: 5.00, Quantity: 1}}
	result, err := service.PlaceOrder(items, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, result.HasDelivery)
	assert.Zero(t, result.DeliveryCharge)
	assert.Equal(t, 5.00, result.TotalWithDelivery)
}

func TestPlaceOrderRollsBackOnSaleFailure(t *testing.T) {
	db := setupServiceTestDB(t)
	service := NewOrderService(db, NewSlotStore(db))
	user := testPrincipal(t, db, 3.00)

	// Break sale recording so the transaction fails after the order insert
	require.NoError(t, db.Migrator().DropTable(&models.ProductSale{}))

	items := []models.OrderItem{
		{Name: "Widget", Price: 5.00, Quantity: 2, Category: "hardware", ProductID: 1},
	}

	result, err := service.PlaceOrder(items, user, nil, nil, nil, nil)
	assert.Nil(t, result)

	var persistenceErr *PersistenceError
	assert.ErrorAs(t, err, &persistenceErr)

	// All-or-nothing: the order row must not survive the failed sale insert
	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount, "Order must be rolled back with its sale records")
}

func TestPlaceOrderLinksReservedSlot(t *testing.T) {
	db := setupServiceTestDB(t)
	store := NewSlotStore(db)
	service := NewOrderService(db, store)
	user := testPrincipal(t, db, 0)

	date := bookableDate(7)
	slotID, err := store.Reserve(date, "10:00", nil)
	require.NoError(t, err)

	timeSlot := "10:00"
	items := []models.OrderItem{{Name: "Widget", Price: 5.00, Quantity: 1}}

	result, err := service.PlaceOrder(items, user, &date, &timeSlot, nil, &slotID)
	require.NoError(t, err)
	assert.True(t, result.SlotLinked)

	var slot models.DeliverySlot
	require.NoError(t, db.First(&slot, slotID).Error)
	require.NotNil(t, slot.OrderID)
	assert.Equal(t, result.OrderID, *slot.OrderID)
}

func TestPlaceOrderSlotLinkFailureIsNonFatal(t *testing.T) {
	db := setupServiceTestDB(t)
	service := NewOrderService(db, NewSlotStore(db))
	user := testPrincipal(t, db, 0)

	// Slot 9999 does not exist; the order must still commit
	missingSlot := uint(9999)
	items := []models.OrderItem{{Name: "Widget", Price: 5.00, Quantity: 1}}

	result, err := service.PlaceOrder(items, user, nil, nil, nil, &missingSlot)
	require.NoError(t, err)
	assert.False(t, result.SlotLinked)

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(1), orderCount)
}

func TestGetOrder(t *testing.T) {
	db := setupServiceTestDB(t)
	service := NewOrderService(db, NewSlotStore(db))
	user := testPrincipal(t, db, 2.50)

	items := []models.OrderItem{
		{Name: "Widget", Price: 5.00, Quantity: 2, Category: "hardware"},
		{Name: "Gasket", Price: 1.25, Quantity: 4, Category: "hardware"},
	}
	placed, err := service.PlaceOrder(items, user, nil, nil, nil, nil)
	require.NoError(t, err)

	order, err := service.GetOrder(placed.OrderID)
	require.NoError(t, err)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 17.50, order.TotalAmount)

	_, err = service.GetOrder(9999)
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestRecentOrders(t *testing.T) {
	db := setupServiceTestDB(t)
	service := NewOrderService(db, NewSlotStore(db))
	user := testPrincipal(t, db, 0)

	items := []models.OrderItem{{Name: "Widget", Price: 5.00, Quantity: 1}}
	for i := 0; i < 3; i++ {
		_, err := service.PlaceOrder(items, user, nil, nil, nil, nil)
		require.NoError(t, err)
	}

	// Another customer's order
	other := models.User{
		Auth0ID: "auth0|other", Name: "Sam", Email: "sam@example.com", Role: "customer",
	}
	require.NoError(t, db.Create(&other).Error)
	_, err := service.PlaceOrder(items, &other, nil, nil, nil, nil)
	require.NoError(t, err)

	// Unfiltered listing sees everything
	all, err := service.RecentOrders(10, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	// Filtered listing sees only the user's own orders
	mine, err := service.RecentOrders(10, &user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, order := range mine {
		assert.Len(t, order.Items, 1, "Items should be parsed from the durable record")
	}

	// Limit is respected
	limited, err := service.RecentOrders(2, nil)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	db := setupServiceTestDB(t)
	service := NewOrderService(db, NewSlotStore(db))

	// Distinct timestamps so the sort over the stored column is observable
	for i := 0; i < 3; i++ {
		order := models.Order{
			Reference:     "ref-" + string(rune('a'+i)),
			OrderDateTime: time.Now().Add(-time.Duration(i) * time.Hour),
			TotalAmount:   float64(10 + i),
		}
		require.NoError(t, db.Create(&order).Error)
	}

	orders, err := service.RecentOrders(10, nil)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "ref-a", orders[0].Reference)
	assert.Equal(t, "ref-c", orders[2].Reference)
}
