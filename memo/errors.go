package memo

import "errors"

// Setup errors. These are the only failures the engine itself produces;
// failures of a target function are returned to the caller untouched.
var (
	// ErrNilFunction indicates a cache was requested without a target function.
	ErrNilFunction = errors.New("memo: target function is nil")

	// ErrNilRegistry indicates Register was called on a nil *Registry.
	ErrNilRegistry = errors.New("memo: registry is nil")

	// ErrReceiverType indicates the bound receiver does not match a Method's receiver type.
	ErrReceiverType = errors.New("memo: receiver has unexpected type")
)
