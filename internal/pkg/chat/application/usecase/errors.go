package usecase

import "errors"

// Error taxonomy surfaced by use cases. Controllers map these to HTTP status
// codes / socket error codes; anything wrapping ErrPersistence is an
// infrastructure failure, never a caller mistake.
var (
	ErrPersistence = errors.New("chat use case: persistence error")
	ErrNotFound    = errors.New("chat use case: user not found")
)
