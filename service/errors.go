package service

import "errors"

var (
	// ErrNoRequests indicates CreateTransaction was called with no payment
	// requests.
	ErrNoRequests = errors.New("service: no payment requests")

	// ErrTooManyConflicts indicates selection kept losing reservation
	// races to concurrent requests and gave up.
	ErrTooManyConflicts = errors.New("service: too many reservation conflicts, try again")

	// ErrUnknownBoxOwner indicates the explorer returned a box guarded by
	// an address the wallet has no key for.
	ErrUnknownBoxOwner = errors.New("service: box owner unknown")
)
