package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced record id is no longer present.
	ErrNotFound = errors.New("ledger: record not found")

	// ErrConflict means an edit carried a stale revision and lost against
	// a newer write.
	ErrConflict = errors.New("ledger: stale revision")
)

// StoreError wraps a failure from the backing persistence. Callers get it
// unchanged; there are no automatic retries.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("ledger: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
