package txbuild

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/blake2b"

	"github.com/ergoplatform/ergo-tg/ergo"
)

// SignedTx is a fully signed transaction ready for submission. Proofs are
// matched to Inputs by position.
type SignedTx struct {
	*UnsignedTx
	ID     string
	Proofs [][]byte
}

// Sign signs every input with its attached key and computes the transaction
// ID. The ID is the hex blake2b-256 digest of the deterministic
// serialization, so identical unsigned transactions always produce the same
// ID.
func Sign(utx *UnsignedTx) (*SignedTx, error) {
	if utx == nil {
		return nil, fmt.Errorf("%w: unsigned tx", ErrNilParam)
	}

	digest := utx.sigHash()

	proofs := make([][]byte, len(utx.Inputs))
	for i, in := range utx.Inputs {
		if in.Key == nil || in.Key.PrivateKey == nil {
			return nil, fmt.Errorf("%w: input %d has no signing key", ErrSigningFailed, i)
		}
		sig := ecdsa.Sign(in.Key.PrivateKey, digest[:])
		proofs[i] = sig.Serialize()
	}

	return &SignedTx{
		UnsignedTx: utx,
		ID:         hex.EncodeToString(digest[:]),
		Proofs:     proofs,
	}, nil
}

// sigHash serializes the unsigned transaction into a deterministic binary
// form and hashes it. Layout, all integers big-endian:
//
//	u16 input count  ‖ per input:  u16 len ‖ box ID bytes
//	u16 output count ‖ per output: u16 len ‖ address ‖ u64 value ‖
//	                               u16 token count ‖ per token (ID-sorted):
//	                               u16 len ‖ token ID ‖ u64 amount
//	u64 fee ‖ u64 creation height
func (utx *UnsignedTx) sigHash() [32]byte {
	var buf bytes.Buffer

	writeU16 := func(v int) { _ = binary.Write(&buf, binary.BigEndian, uint16(v)) }
	writeU64 := func(v uint64) { _ = binary.Write(&buf, binary.BigEndian, v) }

	writeU16(len(utx.Inputs))
	for _, in := range utx.Inputs {
		writeU16(len(in.Box.ID))
		buf.WriteString(string(in.Box.ID))
	}

	all := utx.AllOutputs()
	writeU16(len(all))
	for _, out := range all {
		writeU16(len(out.Address))
		buf.WriteString(string(out.Address))
		writeU64(out.Value)

		ids := make([]string, 0, len(out.Assets))
		for id := range out.Assets {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)

		writeU16(len(ids))
		for _, id := range ids {
			writeU16(len(id))
			buf.WriteString(id)
			writeU64(out.Assets[ergo.TokenID(id)])
		}
	}

	writeU64(utx.Fee)
	writeU64(utx.CreationHeight)

	return blake2b.Sum256(buf.Bytes())
}
