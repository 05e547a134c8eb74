package alert

import "errors"

var (
	// ErrNotFound is returned when the referenced alert does not exist.
	ErrNotFound = errors.New("alert not found")

	// ErrInvalidTransition is returned for an illegal lifecycle
	// operation. The alert is left unchanged.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrStaleState is returned when a lifecycle write loses an
	// optimistic-concurrency race. The caller must reload and retry.
	ErrStaleState = errors.New("alert modified concurrently, retry with fresh state")
)
