// Package internalerr holds sentinel errors for loom's ambient packages
// (currently used by config) — the inference core itself returns only
// substitute.ErrUnboundVariable and errors returned by effects.
package internalerr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidRule   = errors.New("invalid rule")
)
