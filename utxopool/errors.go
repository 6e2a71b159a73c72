package utxopool

import "errors"

var (
	// ErrAlreadyReserved indicates a box or transaction ID is already held
	// by a live reservation.
	ErrAlreadyReserved = errors.New("utxopool: already reserved")

	// ErrEmptyReservation indicates Reserve was called with no box IDs.
	ErrEmptyReservation = errors.New("utxopool: reservation holds no boxes")
)
