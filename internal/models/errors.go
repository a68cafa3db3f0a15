package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey indicates an insert hit a unique constraint
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrVersionConflict indicates a concurrent writer updated the account
	// between read and write
	ErrVersionConflict = errors.New("version conflict")
)
