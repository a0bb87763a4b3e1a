package domain

import "errors"

var (
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")

	// request error
	ErrInvalidAddress = errors.New("Invalid address")
	ErrInvalidToken   = errors.New("Invalid token")
)
