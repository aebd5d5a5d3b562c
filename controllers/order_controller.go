package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hartwell-supplies/wholesale-orders-api/config"
	"github.com/hartwell-supplies/wholesale-orders-api/models"
	"github.com/hartwell-supplies/wholesale-orders-api/services"
)

// PlaceOrderRequest represents the request body for placing an order.
// The client-provided total is accepted for cross-checking only; the
// stored total is always recomputed server-side.
type PlaceOrderRequest struct {
	Items         []models.OrderItem `json:"items" binding:"required"`
	Total         float64            `json:"total" binding:"required"`
	DeliveryDate  *string            `json:"delivery_date"`
	DeliveryTime  *string            `json:"delivery_time"`
	DeliveryNotes *string            `json:"delivery_notes"`
	SlotID        *uint              `json:"slot_id"`
}

// PlaceOrder handles POST /api/v1/orders - places a new order
func PlaceOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Missing required fields",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	orderService := services.NewOrderService(db, services.NewSlotStore(db))

	result, err := orderService.PlaceOrder(
		req.Items,
		user,
		req.DeliveryDate,
		req.DeliveryTime,
		req.DeliveryNotes,
		req.SlotID,
	)
	if err != nil {
		writeServiceError(c, err, "Failed to place order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Order placed successfully",
		"orderId":   result.OrderID,
		"reference": result.Reference,
		"orderInfo": gin.H{
			"hasDelivery":       result.HasDelivery,
			"deliveryCharge":    result.DeliveryCharge,
			"totalWithDelivery": result.TotalWithDelivery,
			"slotLinked":        result.SlotLinked,
		},
	})
}

// GetOrders handles GET /api/v1/orders - lists recent orders. Customers
// see their own orders; admins see everyone's.
func GetOrders(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var userID *uint
	if !user.IsAdmin() {
		userID = &user.ID
	}

	db := config.GetDB()
	orderService := services.NewOrderService(db, services.NewSlotStore(db))

	orders, err := orderService.RecentOrders(limit, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - returns one order with its
// items parsed from the durable record
func GetOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order ID",
			},
		})
		return
	}

	db := config.GetDB()
	orderService := services.NewOrderService(db, services.NewSlotStore(db))

	order, err := orderService.GetOrder(uint(orderID))
	if err != nil {
		writeServiceError(c, err, "Failed to load order")
		return
	}

	// Customers may only see their own orders
	if !user.IsAdmin() && (order.UserID == nil || *order.UserID != user.ID) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
