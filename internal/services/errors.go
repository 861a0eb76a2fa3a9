package services

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("forbidden")
	ErrCourseNotFound     = errors.New("course not found")
	// ErrInvalidTransition is returned when a cancelled booking would be reopened.
	ErrInvalidTransition = errors.New("cancelled bookings cannot change status")
)
