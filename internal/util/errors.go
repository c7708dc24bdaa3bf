package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidPreset indicates a preset document failed validation
	ErrInvalidPreset = errors.New("invalid preset")
)
