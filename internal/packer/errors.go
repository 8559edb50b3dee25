package packer

import "errors"

var (
	// ErrInvalidBox is returned when the box has non-positive extents or a negative weight.
	ErrInvalidBox = errors.New("box width and height must be positive and weight non-negative")
	// ErrInvalidItem is returned when an item has non-positive extents or a negative weight.
	ErrInvalidItem = errors.New("item width and height must be positive and weight non-negative")
	// ErrUnknownStrategy is returned when a position finder name is not registered.
	ErrUnknownStrategy = errors.New("unknown placement strategy")
)
