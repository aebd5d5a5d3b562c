package models

import "time"

// Delivery slot lifecycle states
const (
	SlotStatusReserved  = "reserved"
	SlotStatusCompleted = "completed"
	SlotStatusCancelled = "cancelled"
)

// DeliverySlot represents a persisted claim on a (date, time slot) delivery
// opportunity. The partial unique index is the sole authority for the
// one-active-reservation-per-slot invariant: scoping it to the reserved
// status lets a cancelled slot be booked again.
type DeliverySlot struct {
	SlotID    uint      `gorm:"primaryKey" json:"slot_id"`
	Date      string    `gorm:"not null;size:10;uniqueIndex:uniq_active_slot,where:status = 'reserved'" json:"date"` // YYYY-MM-DD
	TimeSlot  string    `gorm:"not null;size:10;uniqueIndex:uniq_active_slot,where:status = 'reserved'" json:"time_slot"` // HH:MM
	OrderID   *uint     `gorm:"index" json:"order_id"` // attached after the order is committed
	Status    string    `gorm:"not null;default:'reserved'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the DeliverySlot model
func (DeliverySlot) TableName() string {
	return "delivery_slots"
}
