package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/hartwell-supplies/wholesale-orders-api/models"
	"gorm.io/gorm"
)

// SlotStore persists delivery slot reservations. The database's unique
// constraint on active (date, time_slot) pairs is the single source of
// truth for slot ownership: Reserve never pre-checks availability, it
// inserts and lets the constraint arbitrate concurrent callers.
type SlotStore struct {
	db *gorm.DB
}

// NewSlotStore creates a SlotStore around an injected database handle
func NewSlotStore(db *gorm.DB) *SlotStore {
	return &SlotStore{db: db}
}

// Reserve claims a (date, timeSlot) pair. The booking rules (format,
// Sunday exclusion, minimum lead time) are re-validated here regardless of
// what the calendar endpoint told the client. Returns the new slot ID, or
// ErrSlotTaken when another reservation already holds the pair.
func (s *SlotStore) Reserve(date, timeSlot string, orderID *uint) (uint, error) {
	if err := ValidateDeliveryDate(date, time.Now()); err != nil {
		return 0, err
	}
	if err := ValidateTimeSlot(timeSlot); err != nil {
		return 0, err
	}

	slot := models.DeliverySlot{
		Date:     date,
		TimeSlot: timeSlot,
		OrderID:  orderID,
		Status:   models.SlotStatusReserved,
	}

	// Single atomic constrained write: a lost race surfaces as a
	// duplicate-key error, never as a stale read.
	if err := s.db.Create(&slot).Error; err != nil {
		if isDuplicateKey(err) {
			return 0, ErrSlotTaken
		}
		return 0, &PersistenceError{Op: "slot reservation", Err: err}
	}

	log.Printf("Reserved delivery slot %d for %s %s", slot.SlotID, date, timeSlot)
	return slot.SlotID, nil
}

// IsReserved reports whether an active reservation holds the pair. It is
// a read-only convenience for listings; Reserve does not rely on it.
func (s *SlotStore) IsReserved(date, timeSlot string) (bool, error) {
	var count int64
	err := s.db.Model(&models.DeliverySlot{}).
		Where("date = ? AND time_slot = ? AND status = ?", date, timeSlot, models.SlotStatusReserved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReservedSlots returns the time slots with an active reservation on a
// date, ordered by time.
func (s *SlotStore) ReservedSlots(date string) ([]string, error) {
	var slots []string
	err := s.db.Model(&models.DeliverySlot{}).
		Where("date = ? AND status = ?", date, models.SlotStatusReserved).
		Order("time_slot ASC").
		Pluck("time_slot", &slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// LinkOrder records an order's ID on a previously made reservation. The
// update is idempotent and leaves the slot status untouched. Returns
// false when the slot does not exist.
func (s *SlotStore) LinkOrder(slotID, orderID uint) bool {
	result := s.db.Model(&models.DeliverySlot{}).
		Where("slot_id = ?", slotID).
		Update("order_id", orderID)
	if result.Error != nil {
		log.Printf("Error linking order %d to slot %d: %v", orderID, slotID, result.Error)
		return false
	}
	return result.RowsAffected > 0
}

// FindByOrderID returns the slot referencing an order, or nil
func (s *SlotStore) FindByOrderID(orderID uint) (*models.DeliverySlot, error) {
	var slot models.DeliverySlot
	err := s.db.Where("order_id = ?", orderID).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// FindByDateRange returns all slots between two dates inclusive, ordered
// by date then time.
func (s *SlotStore) FindByDateRange(startDate, endDate string) ([]models.DeliverySlot, error) {
	var slots []models.DeliverySlot
	err := s.db.
		Where("date >= ? AND date <= ?", startDate, endDate).
		Order("date ASC, time_slot ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// Cancel marks a slot cancelled, freeing its (date, time_slot) pair for a
// new reservation. Returns false when the slot does not exist.
func (s *SlotStore) Cancel(slotID uint) bool {
	return s.setStatus(slotID, models.SlotStatusCancelled)
}

// Complete marks a slot's delivery as done. Returns false when the slot
// does not exist.
func (s *SlotStore) Complete(slotID uint) bool {
	return s.setStatus(slotID, models.SlotStatusCompleted)
}

// Delete removes a slot row entirely. Returns false when the slot does
// not exist.
func (s *SlotStore) Delete(slotID uint) bool {
	result := s.db.Delete(&models.DeliverySlot{}, slotID)
	if result.Error != nil {
		log.Printf("Error deleting delivery slot %d: %v", slotID, result.Error)
		return false
	}
	return result.RowsAffected > 0
}

func (s *SlotStore) setStatus(slotID uint, status string) bool {
	result := s.db.Model(&models.DeliverySlot{}).
		Where("slot_id = ?", slotID).
		Update("status", status)
	if result.Error != nil {
		log.Printf("Error updating delivery slot %d to %s: %v", slotID, status, result.Error)
		return false
	}
	return result.RowsAffected > 0
}

// isDuplicateKey recognizes a unique-constraint violation from either
// driver (PostgreSQL in production, SQLite in tests).
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
