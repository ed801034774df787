package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrInvalidID      = errors.New("invalid ID format")
	ErrUnknownField   = errors.New("unknown stat field")
	ErrInvalidOdds    = errors.New("invalid odds")
	ErrAlreadySettled = errors.New("prediction already settled")
)
