package services

import "errors"

// Sentinel errors controllers translate into HTTP statuses. Anything
// else bubbling out of a store call is treated as the store being
// unavailable and surfaces as a 500.
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
)
