package explorer

import "errors"

var (
	// ErrConnectionFailed indicates the HTTP request did not complete.
	ErrConnectionFailed = errors.New("explorer: connection failed")

	// ErrBadResponse indicates the explorer answered with an error status
	// or an undecodable body.
	ErrBadResponse = errors.New("explorer: bad response")

	// ErrSubmitRejected indicates the network refused the submitted
	// transaction.
	ErrSubmitRejected = errors.New("explorer: transaction rejected")
)
