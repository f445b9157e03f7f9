package store

import (
	"errors"
	"fmt"
)

// Error categories returned by the gateway and the repositories built on it.
// Callers match them with errors.Is; the driver error stays in the chain.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrWriteFailed        = errors.New("write failed")
	ErrReadFailed         = errors.New("read failed")
)

// UnknownDriverError is returned when a store driver is not registered.
type UnknownDriverError struct {
	Driver    string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown store driver %q\nAvailable drivers: %v\nHint: Check store.driver in dossier.yaml", e.Driver, e.Available)
}
