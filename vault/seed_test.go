package vault

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// --- Mnemonic tests ---

func TestGenerateMnemonic_WordCounts(t *testing.T) {
	tests := []struct {
		name    string
		entropy int
		words   int
	}{
		{"12 words", Mnemonic12Words, 12},
		{"24 words", Mnemonic24Words, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mnemonic, err := GenerateMnemonic(tt.entropy)
			require.NoError(t, err)
			assert.Len(t, strings.Fields(mnemonic), tt.words)
			assert.True(t, ValidateMnemonic(mnemonic), "generated mnemonic should be valid")
		})
	}
}

func TestGenerateMnemonic_InvalidEntropy(t *testing.T) {
	_, err := GenerateMnemonic(64)
	assert.ErrorIs(t, err, ErrInvalidEntropy)

	_, err = GenerateMnemonic(192)
	assert.ErrorIs(t, err, ErrInvalidEntropy)
}

func TestGenerateMnemonic_Unique(t *testing.T) {
	m1, err := GenerateMnemonic(Mnemonic12Words)
	require.NoError(t, err)
	m2, err := GenerateMnemonic(Mnemonic12Words)
	require.NoError(t, err)

	assert.NotEqual(t, m1, m2, "two generated mnemonics should be different")
}

func TestSeedFromMnemonic_Deterministic(t *testing.T) {
	seed1, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	seed2, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)

	assert.Equal(t, seed1, seed2, "same mnemonic+passphrase should produce same seed")
	assert.Len(t, seed1, 64, "BIP39 seed should be 64 bytes")
}

func TestSeedFromMnemonic_PassphraseChangesSeed(t *testing.T) {
	seed1, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	seed2, err := SeedFromMnemonic(testMnemonic, "my secret passphrase")
	require.NoError(t, err)

	assert.NotEqual(t, seed1, seed2)
}

func TestSeedFromMnemonic_Invalid(t *testing.T) {
	_, err := SeedFromMnemonic("invalid mnemonic words here", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

// --- Seed encryption tests ---

func TestEncryptDecryptSeed_RoundTrip(t *testing.T) {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i)
	}

	enc, err := EncryptSeed(seed, "test-passphrase-123")
	require.NoError(t, err)
	assert.Len(t, enc.Salt, SaltLen)
	assert.Len(t, enc.Nonce, NonceLen)
	assert.Greater(t, len(enc.Ciphertext), len(seed), "GCM tag should extend the ciphertext")

	decrypted, err := DecryptSeed(enc, "test-passphrase-123")
	require.NoError(t, err)
	assert.Equal(t, seed, decrypted)
}

func TestEncryptSeed_FreshSaltAndNonce(t *testing.T) {
	seed := []byte("some sixty-four byte seed material for the encryption test....!!")

	enc1, err := EncryptSeed(seed, "pw")
	require.NoError(t, err)
	enc2, err := EncryptSeed(seed, "pw")
	require.NoError(t, err)

	assert.NotEqual(t, enc1.Salt, enc2.Salt)
	assert.NotEqual(t, enc1.Nonce, enc2.Nonce)
	assert.NotEqual(t, enc1.Ciphertext, enc2.Ciphertext)
}

func TestDecryptSeed_WrongPassphrase(t *testing.T) {
	enc, err := EncryptSeed([]byte("seed bytes"), "right")
	require.NoError(t, err)

	_, err = DecryptSeed(enc, "wrong")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptSeed_CorruptedCiphertext(t *testing.T) {
	enc, err := EncryptSeed([]byte("seed bytes"), "pw")
	require.NoError(t, err)

	enc.Ciphertext[0] ^= 0xff
	_, err = DecryptSeed(enc, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed,
		"corrupt data must be indistinguishable from a wrong passphrase")
}

func TestDecryptSeed_Malformed(t *testing.T) {
	_, err := DecryptSeed(nil, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)

	_, err = DecryptSeed(&EncryptedSeed{Salt: []byte{1}, Nonce: []byte{2}}, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestEncryptSeed_EmptySeed(t *testing.T) {
	_, err := EncryptSeed(nil, "pw")
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}
