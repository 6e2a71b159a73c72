package vault

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/ergoplatform/ergo-tg/ergo"
)

const (
	// EIP-3 path constants: m/44'/429'/account'/0/index.
	PurposeBIP44  = 44
	CoinTypeErgo  = 429
	ExternalChain = 0

	// Hardened is the BIP32 hardened derivation offset.
	Hardened = hdkeychain.HardenedKeyStart
)

// SigningKey is a derived key pair bound to its derivation path. Derived
// keys are never persisted; rederive from the seed when needed.
type SigningKey struct {
	PrivateKey *btcec.PrivateKey
	PublicKey  *btcec.PublicKey
	Path       []uint32
}

// Address returns the P2PK address for the key's compressed public key.
func (k *SigningKey) Address() (ergo.Address, error) {
	return ergo.P2PKAddress(k.PublicKey.SerializeCompressed())
}

// PathString renders the derivation path in the usual m/44'/429'/... form.
func (k *SigningKey) PathString() string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range k.Path {
		if idx >= Hardened {
			fmt.Fprintf(&b, "/%d'", idx-Hardened)
		} else {
			fmt.Fprintf(&b, "/%d", idx)
		}
	}
	return b.String()
}

// EIP3Path builds the derivation path for an account's external address:
// m/44'/429'/account'/0/index.
func EIP3Path(account, index uint32) []uint32 {
	return []uint32{
		PurposeBIP44 + Hardened,
		CoinTypeErgo + Hardened,
		account + Hardened,
		ExternalChain,
		index,
	}
}

// KeyChain derives signing keys from a master seed. The same (seed, path)
// pair always yields the same key.
type KeyChain struct {
	master *hdkeychain.ExtendedKey
}

// NewKeyChain builds a key chain from a BIP39 seed.
func NewKeyChain(seed []byte) (*KeyChain, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}

	// chaincfg only supplies extended-key version bytes, which never leave
	// this process; mainnet params are used unconditionally.
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}

	return &KeyChain{master: master}, nil
}

// DeriveKey walks the derivation path from the master key. Path elements
// carry the Hardened offset where hardened derivation is wanted.
func (kc *KeyChain) DeriveKey(path []uint32) (*SigningKey, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrDerivationFailed)
	}

	current := kc.master
	for depth, idx := range path {
		child, err := current.Derive(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: depth %d: %w", ErrDerivationFailed, depth, err)
		}
		current = child
	}

	privKey, err := current.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to extract EC private key: %w", ErrDerivationFailed, err)
	}

	pathCopy := make([]uint32, len(path))
	copy(pathCopy, path)

	return &SigningKey{
		PrivateKey: privKey,
		PublicKey:  privKey.PubKey(),
		Path:       pathCopy,
	}, nil
}

// DeriveAccountKey derives the external key for an EIP-3 account at index 0.
func (kc *KeyChain) DeriveAccountKey(account uint32) (*SigningKey, error) {
	return kc.DeriveKey(EIP3Path(account, 0))
}
