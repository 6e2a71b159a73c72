// Package ergo holds the chain-level primitives shared by the wallet core:
// P2PK addresses, unspent boxes, payment requests and aggregated balances.
//
// Amounts are always nanoERG (1 ERG = 1e9 nanoERG). Token amounts are opaque
// integer quantities keyed by token ID; the core carries them through
// selection and change computation without interpreting them.
package ergo

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	// MainnetPrefix is the network prefix byte for mainnet addresses.
	MainnetPrefix = 0x00

	// P2PKType is the address type byte for pay-to-public-key addresses.
	P2PKType = 0x01

	// pubKeyLen is the length of a compressed secp256k1 public key.
	pubKeyLen = 33

	// checksumLen is the length of the blake2b-256 checksum suffix.
	checksumLen = 4
)

// Address is a base58-encoded Ergo P2PK address. The zero value is invalid;
// addresses are produced by P2PKAddress or validated by ParseAddress.
type Address string

// P2PKAddress encodes a compressed secp256k1 public key as a mainnet P2PK
// address: base58(head ‖ pubkey ‖ blake2b256(head ‖ pubkey)[:4]) where
// head = network prefix + address type.
func P2PKAddress(pubKey []byte) (Address, error) {
	if len(pubKey) != pubKeyLen {
		return "", fmt.Errorf("%w: public key must be %d bytes, got %d",
			ErrInvalidAddress, pubKeyLen, len(pubKey))
	}

	body := make([]byte, 0, 1+pubKeyLen+checksumLen)
	body = append(body, MainnetPrefix+P2PKType)
	body = append(body, pubKey...)

	sum := blake2b.Sum256(body)
	body = append(body, sum[:checksumLen]...)

	return Address(base58.Encode(body)), nil
}

// ParseAddress decodes and validates a base58 address string. It verifies
// the address type byte and the blake2b checksum.
func ParseAddress(s string) (Address, error) {
	raw := base58.Decode(s)
	if len(raw) < 1+pubKeyLen+checksumLen {
		return "", fmt.Errorf("%w: too short", ErrInvalidAddress)
	}

	if raw[0]&0x0f != P2PKType {
		return "", fmt.Errorf("%w: unsupported address type 0x%02x", ErrInvalidAddress, raw[0])
	}

	content := raw[:len(raw)-checksumLen]
	sum := blake2b.Sum256(content)
	if !bytes.Equal(raw[len(raw)-checksumLen:], sum[:checksumLen]) {
		return "", fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}

	return Address(s), nil
}

// PublicKey returns the compressed public key embedded in a P2PK address.
func (a Address) PublicKey() ([]byte, error) {
	raw := base58.Decode(string(a))
	if len(raw) != 1+pubKeyLen+checksumLen {
		return nil, fmt.Errorf("%w: not a P2PK address", ErrInvalidAddress)
	}
	return raw[1 : 1+pubKeyLen], nil
}

// String returns the base58 form.
func (a Address) String() string { return string(a) }
