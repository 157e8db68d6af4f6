package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors wrap one of these so callers can branch with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrConflict         = errors.New("conflict")
)

var (
	ErrFlightNotFound  = fmt.Errorf("flight %w", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)

	ErrInvalidSeats     = fmt.Errorf("%w: seats must be >= 1", ErrValidation)
	ErrInvalidFlightID  = fmt.Errorf("%w: flight id must be positive", ErrValidation)
	ErrInvalidBookingID = fmt.Errorf("%w: booking id or reference is required", ErrValidation)
	ErrPassengerTooLong = fmt.Errorf("%w: passenger fields must be at most 200 characters", ErrValidation)

	ErrNotEnoughSeats = fmt.Errorf("%w: not enough seats available (consider existing holds)", ErrCapacityExceeded)

	ErrReferenceTaken = fmt.Errorf("%w: reference already claimed", ErrConflict)
)
