// Package coinselect chooses which unspent boxes to consume to satisfy a
// set of payment requests plus the network fee.
//
// Selection is deterministic: candidates are ordered by descending value
// with ascending box ID as tie-break, then accumulated greedily until the
// running totals cover the target in every dimension (nanoERG including
// fee, and each requested token). The first box that satisfies the target
// ends the scan. Minimizing input count is not a goal.
package coinselect

import (
	"sort"

	"github.com/ergoplatform/ergo-tg/ergo"
)

// Select returns a duplicate-free subset of available sufficient to cover
// the requests plus fee. It returns *InsufficientFundsError when the
// candidates cannot cover the nanoERG target or any requested token amount.
func Select(available []ergo.Box, requests []ergo.Payment, fee uint64) ([]ergo.Box, error) {
	targetValue := fee
	targetAssets := make(map[ergo.TokenID]uint64)
	for _, req := range requests {
		targetValue += req.Value
		for id, amount := range req.Assets {
			targetAssets[id] += amount
		}
	}

	// Sort a copy; callers keep their ordering.
	candidates := make([]ergo.Box, len(available))
	copy(candidates, available)
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Value != candidates[j].Value {
			return candidates[i].Value > candidates[j].Value
		}
		return candidates[i].ID < candidates[j].ID
	})

	var (
		selected     []ergo.Box
		coveredValue uint64
	)
	coveredAssets := make(map[ergo.TokenID]uint64)
	seen := make(map[ergo.BoxID]bool)

	for _, box := range candidates {
		if seen[box.ID] {
			continue
		}
		seen[box.ID] = true

		selected = append(selected, box)
		coveredValue += box.Value
		for id, amount := range box.Assets {
			coveredAssets[id] += amount
		}

		if covered(coveredValue, targetValue, coveredAssets, targetAssets) {
			return selected, nil
		}
	}

	return nil, shortfall(coveredValue, targetValue, coveredAssets, targetAssets)
}

// covered reports whether the accumulated totals meet the target in every
// dimension.
func covered(value, targetValue uint64, assets, targetAssets map[ergo.TokenID]uint64) bool {
	if value < targetValue {
		return false
	}
	for id, want := range targetAssets {
		if assets[id] < want {
			return false
		}
	}
	return true
}

// shortfall builds the error naming every unmet dimension.
func shortfall(value, targetValue uint64, assets, targetAssets map[ergo.TokenID]uint64) *InsufficientFundsError {
	e := &InsufficientFundsError{}
	if value < targetValue {
		e.NanoErgs = targetValue - value
	}
	for id, want := range targetAssets {
		if have := assets[id]; have < want {
			if e.Assets == nil {
				e.Assets = make(map[ergo.TokenID]uint64)
			}
			e.Assets[id] = want - have
		}
	}
	return e
}
