package vault

import (
	"errors"
	"fmt"
)

// Domain error sentinels. Callers discriminate with errors.Is; every error
// returned by the vault core wraps exactly one of these.
var (
	// ErrInvalidInput marks a failed precondition: password too short,
	// confirmation mismatch, duplicate questions, empty required field.
	ErrInvalidInput = errors.New("vault: invalid input")
	// ErrAuthFailed marks a digest mismatch or a failed/cancelled
	// biometric challenge. Retry is always allowed.
	ErrAuthFailed = errors.New("vault: authentication failed")
	// ErrLocked marks an operation that requires an unlocked vault.
	ErrLocked = errors.New("vault: locked")
	// ErrNotVerified marks a password reset attempted before the recovery
	// answers were verified.
	ErrNotVerified = errors.New("vault: recovery not verified")
	// ErrNotFound marks a reference to a record that does not exist.
	ErrNotFound = errors.New("vault: not found")
	// ErrPersistence marks a failed store read, write, or delete. The
	// operation is fatal; partial success is never assumed.
	ErrPersistence = errors.New("vault: storage failure")
	// ErrCorrupt marks a persisted blob that failed to deserialize.
	ErrCorrupt = errors.New("vault: corrupt data")
)

// wrapf tags an error with one of the sentinels above plus caller-facing
// detail.
func wrapf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// invalidf builds an ErrInvalidInput with caller-facing detail.
func invalidf(format string, args ...any) error {
	return wrapf(ErrInvalidInput, format, args...)
}

// persistf wraps a store failure for the given action.
func persistf(action string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, action, err)
}
