package reconcile

import "errors"

var (
	// ErrReadFailure aborts a cycle: one side could not be read. The poller backs off.
	ErrReadFailure = errors.New("read failure")
	// ErrWriteFailure marks a unit that could not be written. Only that unit is affected.
	ErrWriteFailure = errors.New("write failure")
)
