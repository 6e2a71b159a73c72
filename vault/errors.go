package vault

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("vault: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("vault: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty or invalid.
	ErrInvalidSeed = errors.New("vault: invalid seed")

	// ErrDecryptionFailed indicates wrong passphrase or corrupted wallet
	// data. The two causes are intentionally indistinguishable.
	ErrDecryptionFailed = errors.New("vault: seed decryption failed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("vault: key derivation failed")
)
