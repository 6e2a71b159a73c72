// Package vault protects the wallet seed at rest and derives signing keys
// on demand.
//
// Seeds are encrypted with a key stretched from the user passphrase via
// Argon2id and sealed with AES-256-GCM. Decryption failures are reported
// through a single sentinel regardless of cause, so a caller cannot tell a
// wrong passphrase apart from corrupted ciphertext.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/argon2"
)

const (
	// Mnemonic entropy sizes.
	Mnemonic12Words = 128 // 12-word mnemonic
	Mnemonic24Words = 256 // 24-word mnemonic

	// Argon2id parameters for seed encryption.
	Argon2Time        = 3
	Argon2Memory      = 64 * 1024 // 64 MB
	Argon2Parallelism = 4
	Argon2KeyLen      = 32

	// Encryption format sizes.
	SaltLen  = 16
	NonceLen = 12
)

// EncryptedSeed is a sealed wallet seed. Salt feeds the Argon2id key
// derivation, Nonce the AES-GCM seal. The plaintext seed never leaves
// EncryptSeed/DecryptSeed.
type EncryptedSeed struct {
	Ciphertext []byte
	Salt       []byte
	Nonce      []byte
}

// GenerateMnemonic creates a new BIP39 mnemonic with the specified entropy
// bits. Use Mnemonic12Words (128) for 12 words or Mnemonic24Words (256) for
// 24 words. Entropy comes from crypto/rand.
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != Mnemonic12Words && entropyBits != Mnemonic24Words {
		return "", ErrInvalidEntropy
	}

	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("vault: failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("vault: failed to generate mnemonic: %w", err)
	}

	return mnemonic, nil
}

// ValidateMnemonic checks if a mnemonic string is valid BIP39.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic derives a 64-byte BIP39 seed from mnemonic + optional
// passphrase. An empty passphrase still participates in derivation.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("vault: failed to derive seed: %w", err)
	}

	return seed, nil
}

// EncryptSeed seals the seed under the passphrase. A fresh random salt and
// nonce are generated on every call; encrypting the same seed twice yields
// different ciphertexts.
func EncryptSeed(seed []byte, passphrase string) (*EncryptedSeed, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}

	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("vault: failed to generate salt: %w", err)
	}

	derivedKey := argon2.IDKey(
		[]byte(passphrase),
		salt,
		Argon2Time,
		Argon2Memory,
		Argon2Parallelism,
		Argon2KeyLen,
	)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("vault: AES cipher creation failed: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault: GCM creation failed: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("vault: failed to generate nonce: %w", err)
	}

	return &EncryptedSeed{
		Ciphertext: gcm.Seal(nil, nonce, seed, nil),
		Salt:       salt,
		Nonce:      nonce,
	}, nil
}

// DecryptSeed opens a sealed seed. Every failure mode returns
// ErrDecryptionFailed: the GCM authentication tag covers both wrong
// passphrases and corrupted data, and the two are deliberately not
// distinguished.
func DecryptSeed(enc *EncryptedSeed, passphrase string) ([]byte, error) {
	if enc == nil || len(enc.Salt) != SaltLen || len(enc.Nonce) != NonceLen {
		return nil, ErrDecryptionFailed
	}

	derivedKey := argon2.IDKey(
		[]byte(passphrase),
		enc.Salt,
		Argon2Time,
		Argon2Memory,
		Argon2Parallelism,
		Argon2KeyLen,
	)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	seed, err := gcm.Open(nil, enc.Nonce, enc.Ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return seed, nil
}

// Zero overwrites sensitive byte material in place. Callers should defer it
// on every decrypted seed.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
