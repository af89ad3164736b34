package domain

import "errors"

var (
	// ErrUnavailable is returned by allocation when no seats remain.
	ErrUnavailable = errors.New("flight is fully booked")
	// ErrIdentifierSpaceExhausted is returned when every customer ID is held by an active booking.
	ErrIdentifierSpaceExhausted = errors.New("customer identifier space exhausted")
	ErrNotFound                 = errors.New("ticket not found")
	// ErrInvalidFormat is returned for ticket numbers not shaped like 123-12345.
	ErrInvalidFormat = errors.New("invalid ticket number format, expected 123-12345")
)
