package txbuild

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("txbuild: required parameter is nil")

	// ErrNoInputs indicates Build was called with an empty input set.
	ErrNoInputs = errors.New("txbuild: no inputs")

	// ErrNegativeChange indicates the inputs do not cover the outputs plus
	// fee in some dimension. Selection guarantees this cannot happen, so it
	// signals an internal contract violation, not a user error.
	ErrNegativeChange = errors.New("txbuild: negative change")

	// ErrSigningFailed indicates transaction signing failed.
	ErrSigningFailed = errors.New("txbuild: signing failed")
)
