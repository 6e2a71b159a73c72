// Package txbuild assembles and signs transactions from selected inputs
// and requested outputs.
//
// The builder enforces the selection contract: Σ input value must cover
// Σ requested value plus fee, in nanoERG and per token. Leftovers in any
// dimension go into a single change output appended after the requested
// outputs, so the output order is deterministic for a given input.
package txbuild

import (
	"fmt"

	"github.com/ergoplatform/ergo-tg/ergo"
	"github.com/ergoplatform/ergo-tg/vault"
)

// Input pairs a box being spent with the signing key of its owning account.
type Input struct {
	Box ergo.Box
	Key *vault.SigningKey
}

// Output is a single transaction output.
type Output struct {
	Address ergo.Address
	Value   uint64
	Assets  map[ergo.TokenID]uint64
}

// UnsignedTx is an assembled but unsigned transaction. Outputs holds the
// requested outputs in caller order; Change, when non-nil, is emitted last.
type UnsignedTx struct {
	Inputs         []Input
	Outputs        []Output
	Change         *Output
	Fee            uint64
	CreationHeight uint64
}

// Build assembles an unsigned transaction. Leftover value and tokens after
// requests and fee are returned to changeAddr in exactly one change output;
// the change output is omitted only when the leftover is zero in every
// dimension. A negative leftover in any dimension means the coin selection
// contract was violated upstream and yields ErrNegativeChange.
func Build(inputs []Input, requests []ergo.Payment, fee, currentHeight uint64,
	changeAddr ergo.Address) (*UnsignedTx, error) {

	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	var inValue uint64
	inAssets := make(map[ergo.TokenID]uint64)
	for _, in := range inputs {
		inValue += in.Box.Value
		for id, amount := range in.Box.Assets {
			inAssets[id] += amount
		}
	}

	var outValue uint64
	outAssets := make(map[ergo.TokenID]uint64)
	outputs := make([]Output, 0, len(requests))
	for _, req := range requests {
		outValue += req.Value
		for id, amount := range req.Assets {
			outAssets[id] += amount
		}
		outputs = append(outputs, Output{
			Address: req.Address,
			Value:   req.Value,
			Assets:  copyAssets(req.Assets),
		})
	}

	if inValue < outValue+fee {
		return nil, fmt.Errorf("%w: inputs %d < outputs %d + fee %d",
			ErrNegativeChange, inValue, outValue, fee)
	}
	for id, want := range outAssets {
		if inAssets[id] < want {
			return nil, fmt.Errorf("%w: token %s: inputs %d < outputs %d",
				ErrNegativeChange, id, inAssets[id], want)
		}
	}

	leftoverValue := inValue - outValue - fee
	leftoverAssets := make(map[ergo.TokenID]uint64)
	for id, have := range inAssets {
		if rest := have - outAssets[id]; rest > 0 {
			leftoverAssets[id] = rest
		}
	}

	utx := &UnsignedTx{
		Inputs:         inputs,
		Outputs:        outputs,
		Fee:            fee,
		CreationHeight: currentHeight,
	}

	if leftoverValue > 0 || len(leftoverAssets) > 0 {
		utx.Change = &Output{
			Address: changeAddr,
			Value:   leftoverValue,
			Assets:  leftoverAssets,
		}
	}

	return utx, nil
}

// AllOutputs returns the outputs in wire order: requests first, change last.
func (utx *UnsignedTx) AllOutputs() []Output {
	if utx.Change == nil {
		return utx.Outputs
	}
	all := make([]Output, 0, len(utx.Outputs)+1)
	all = append(all, utx.Outputs...)
	all = append(all, *utx.Change)
	return all
}

func copyAssets(assets map[ergo.TokenID]uint64) map[ergo.TokenID]uint64 {
	if len(assets) == 0 {
		return nil
	}
	out := make(map[ergo.TokenID]uint64, len(assets))
	for id, amount := range assets {
		out[id] = amount
	}
	return out
}
