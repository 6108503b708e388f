package models

import "errors"

// Sentinel errors shared by repositories, services and handlers.
// Callers wrap them with context and match with errors.Is.
var (
	// ErrNotFound is returned when a class, mooc, deck, card or notification id does not resolve
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied is returned when a non-owner tries to manage a mooc
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotAMember is returned when a user outside the mooc's class tries to enroll
	ErrNotAMember = errors.New("user is not a member of the class")
	// ErrNotEnrolled is returned when progress is reported by a user without an enrollment
	ErrNotEnrolled = errors.New("user is not enrolled in the mooc")
	// ErrValidation is returned for malformed or incomplete input
	ErrValidation = errors.New("validation failed")
	// ErrAlreadyExists is returned when an insert collides with a row written concurrently
	ErrAlreadyExists = errors.New("already exists")
)
