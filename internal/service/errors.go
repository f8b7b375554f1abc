package service

import "errors"

var (
	// ErrInvalidInput is wrapped by every validation failure with a
	// message naming the offending field.
	ErrInvalidInput = errors.New("invalid input")

	ErrEmptyDescription       = errors.New("description must not be empty")
	ErrChecklistNotEmpty      = errors.New("checklist already has milestones")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
	ErrInvalidRole            = errors.New("invalid role")
	ErrStorageUnavailable     = errors.New("document storage is not configured")
	ErrNoFile                 = errors.New("document has no file")
)
