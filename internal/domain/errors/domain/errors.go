// Package domain provides domain-specific error definitions and utilities.
package domain

import "errors"

// Prompt check errors.
var (
	ErrTextTooLong         = errors.New("prompt text exceeds maximum length")
	ErrFieldRequired       = errors.New("field identifier is required")
	ErrInvalidEscapePolicy = errors.New("escape policy is invalid")
)

// Settings search errors.
var (
	ErrSectionIDRequired = errors.New("settings section id is required")
	ErrDuplicateSection  = errors.New("settings section id is duplicated")
)

// General domain errors.
var (
	ErrInvalidInput = errors.New("invalid input")
)
