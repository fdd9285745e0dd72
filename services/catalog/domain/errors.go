package domain

import "errors"

// Sentinel errors for the catalog domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates the requested inventory item does not exist.
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrInvalidKind indicates an unknown inventory kind tag.
	ErrInvalidKind = errors.New("invalid inventory kind")
)
