// Package services holds the business logic between the HTTP controllers
// and the repositories.
package services

import (
	"errors"
	"fmt"
)

// Sentinel errors the controllers translate into HTTP statuses.
// Concrete error types below unwrap to one of these so callers can use
// errors.Is without losing the detail in the message.
var (
	// ErrNotFound: a referenced entity does not exist (404).
	ErrNotFound = errors.New("not found")
	// ErrConflict: creating a row that already exists (409).
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument: the request is well-formed but semantically
	// invalid, including order lines the current stock cannot cover (400).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDeliveryFailure: an outbound email or webhook could not be sent.
	// Never surfaced to order callers; logged and counted only.
	ErrDeliveryFailure = errors.New("delivery failure")
	// ErrAlertPersistence: a low-stock notification row could not be
	// written. Logged as an error; never rolls back the sale.
	ErrAlertPersistence = errors.New("alert persistence failure")
)

// NotFoundError names the missing entity so responses can say which
// product or outlet the caller referenced.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError reports a line that cannot be fulfilled.
type InsufficientStockError struct {
	ProductID uint
	OutletID  uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d at outlet %d: requested %d, available %d",
		e.ProductID, e.OutletID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInvalidArgument }

// DuplicateStockError reports an attempt to create a second stock row
// for a (product, outlet) pair.
type DuplicateStockError struct {
	ProductID uint
	OutletID  uint
}

func (e *DuplicateStockError) Error() string {
	return fmt.Sprintf("stock row already exists for product %d at outlet %d", e.ProductID, e.OutletID)
}

func (e *DuplicateStockError) Unwrap() error { return ErrConflict }
