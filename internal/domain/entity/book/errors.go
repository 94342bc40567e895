package book

import "fmt"

// DuplicateRefError is returned when Add is called with an order reference
// that is already resting on the book.
type DuplicateRefError struct {
	Ref OrderReference
}

func (e *DuplicateRefError) Error() string {
	return fmt.Sprintf("order book: duplicate order reference %d", e.Ref)
}

// UnknownRefError is returned when an operation names an order reference
// that is not currently resting on the book.
type UnknownRefError struct {
	Ref OrderReference
}

func (e *UnknownRefError) Error() string {
	return fmt.Sprintf("order book: unknown order reference %d", e.Ref)
}

// OverExecutedError is returned when an execution or execution-with-price
// requests more volume than the order has resting.
type OverExecutedError struct {
	Ref       OrderReference
	Requested Volume
	Resting   Volume
}

func (e *OverExecutedError) Error() string {
	return fmt.Sprintf("order book: order %d over-executed: requested %d, resting %d", e.Ref, e.Requested, e.Resting)
}

// OverCancelledError is returned when a cancel requests more volume than the
// order has resting.
type OverCancelledError struct {
	Ref       OrderReference
	Requested Volume
	Resting   Volume
}

func (e *OverCancelledError) Error() string {
	return fmt.Sprintf("order book: order %d over-cancelled: requested %d, resting %d", e.Ref, e.Requested, e.Resting)
}
