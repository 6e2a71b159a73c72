package store

import "errors"

var (
	// ErrKeyExists indicates a conditional insert found the key already
	// present.
	ErrKeyExists = errors.New("store: key already exists")

	// ErrWalletExists indicates a wallet record was already created for
	// the user.
	ErrWalletExists = errors.New("store: wallet already exists")

	// ErrWalletNotFound indicates no wallet record exists for the user.
	ErrWalletNotFound = errors.New("store: wallet not found")

	// ErrInvalidRecord indicates the wallet record fails validation.
	ErrInvalidRecord = errors.New("store: invalid wallet record")

	// ErrStorage indicates the underlying key-value store failed.
	ErrStorage = errors.New("store: storage failure")
)
