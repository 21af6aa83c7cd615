package domain

import "errors"

// Sentinel errors shared across services, repositories and handlers.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Event submission errors.
var (
	ErrPosterRequired   = errors.New("event poster is required")
	ErrRequiredFields   = errors.New("title, date and venue are required")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrImageTooLarge    = errors.New("file size exceeds 5MB")
	ErrNotAnImage       = errors.New("only image files are allowed")
	ErrSubmitInProgress = errors.New("submission already in progress")
)
