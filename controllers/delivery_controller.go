package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hartwell-supplies/wholesale-orders-api/config"
	"github.com/hartwell-supplies/wholesale-orders-api/services"
)

// ReserveSlotRequest represents the request body for reserving a delivery slot
type ReserveSlotRequest struct {
	Date     string  `json:"date" binding:"required"`
	TimeSlot string  `json:"time_slot" binding:"required"`
	Notes    *string `json:"notes"`
}

// SlotAvailability describes one time slot in the per-date listing
type SlotAvailability struct {
	Time        string `json:"time"`
	IsAvailable bool   `json:"isAvailable"`
	Status      string `json:"status"` // available or reserved
}

// GetAvailableDates handles GET /api/v1/delivery/dates - returns the
// delivery calendar for a month
func GetAvailableDates(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	if v := c.Query("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid month",
				},
			})
			return
		}
		month = parsed
	}
	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid year",
				},
			})
			return
		}
		year = parsed
	}

	calendar, err := services.GenerateCalendar(month, year, now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"calendar": calendar,
	})
}

// GetAvailableSlots handles GET /api/v1/delivery/slots?date= - lists the
// day's time slots with their availability
func GetAvailableSlots(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	date := c.Query("date")
	if err := services.ValidateDeliveryDate(date, time.Now()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	slotStore := services.NewSlotStore(config.GetDB())
	reserved, err := slotStore.ReservedSlots(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load reserved slots",
			},
		})
		return
	}

	reservedSet := make(map[string]bool, len(reserved))
	for _, slot := range reserved {
		reservedSet[slot] = true
	}

	slots := make([]SlotAvailability, 0, 12)
	for _, slot := range services.AllTimeSlots() {
		status := "available"
		if reservedSet[slot] {
			status = "reserved"
		}
		slots = append(slots, SlotAvailability{
			Time:        slot,
			IsAvailable: !reservedSet[slot],
			Status:      status,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    date,
		"slots":   slots,
	})
}

// ReserveSlot handles POST /api/v1/delivery/slots - claims a delivery slot
// ahead of order submission
func ReserveSlot(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var req ReserveSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Date and time_slot are required",
				"details": err.Error(),
			},
		})
		return
	}

	slotStore := services.NewSlotStore(config.GetDB())
	slotID, err := slotStore.Reserve(req.Date, req.TimeSlot, nil)
	if err != nil {
		writeServiceError(c, err, "Failed to reserve slot")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Slot reserved successfully",
		"reservation": gin.H{
			"slot_id":   slotID,
			"date":      req.Date,
			"time_slot": req.TimeSlot,
			"notes":     req.Notes,
		},
	})
}

// CancelSlot handles DELETE /api/v1/delivery/slots/:id - cancels a
// reservation, freeing the slot for other customers
func CancelSlot(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	slotID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid slot ID",
			},
		})
		return
	}

	slotStore := services.NewSlotStore(config.GetDB())
	if !slotStore.Cancel(uint(slotID)) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SLOT_NOT_FOUND",
				"message": "Delivery slot not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Slot cancelled",
	})
}
