package entities

import "errors"

// Domain errors
var (
	// Action item errors
	ErrEmptyTask       = errors.New("task description is required")
	ErrInvalidStatus   = errors.New("status must be one of todo, in_progress, done")
	ErrInvalidPriority = errors.New("priority must be one of Low, Medium, High")
	ErrInvalidSource   = errors.New("source must be one of ai_extracted, manual, imported")
	ErrInvalidDeadline = errors.New("deadline must be a date such as 2006-01-02")
	ErrImmutableField  = errors.New("field cannot be changed")

	// OAuth errors
	ErrOAuthStateMismatch = errors.New("oauth state mismatch")
	ErrNotConnected       = errors.New("google account not connected")
)
