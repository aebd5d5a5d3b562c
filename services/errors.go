package services

import "errors"

// ErrSlotTaken is returned when a reservation loses the race for a
// (date, time slot) pair. It is the translated form of the store's
// unique-constraint violation and maps to HTTP 409.
var ErrSlotTaken = errors.New("delivery slot is already reserved")

// ValidationError reports malformed or out-of-range input. It is always
// raised before any state is mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a referenced order or slot that does not exist
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// PersistenceError wraps a storage failure inside the placement
// transaction. The transaction has already been rolled back by the time
// the caller sees it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failure during " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
