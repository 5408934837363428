package domain

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRequestInFlight   = errors.New("request already in flight")
	ErrIncompleteProfile = errors.New("profile is not complete")
	ErrNoDreamAnalysis   = errors.New("dream has not been interpreted")
)
