package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrQuantityFloor is returned when a caller tries to push an order item
	// quantity below 1.
	ErrQuantityFloor = errors.New("quantity cannot go below 1")
	// ErrPrimaryImage indicates the product image set does not have exactly
	// one primary image.
	ErrPrimaryImage = errors.New("exactly one image must be primary")
	// ErrNoSelection is returned when an edit view asks for the current
	// product but none was selected.
	ErrNoSelection = errors.New("no product selected")
)
