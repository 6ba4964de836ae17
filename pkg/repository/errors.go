package repository

import "errors"

// sentinel errors surfaced to the HTTP layer for status mapping
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
