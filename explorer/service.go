// Package explorer talks to a chain explorer/indexer: it supplies unspent
// boxes and the chain height, submits signed transactions, and reports
// confirmed balances. The wallet core treats it as an external
// collaborator; retry and backoff policy belong to the caller.
package explorer

import (
	"context"

	"github.com/ergoplatform/ergo-tg/ergo"
	"github.com/ergoplatform/ergo-tg/txbuild"
)

// Service is the explorer collaborator interface consumed by the wallet
// core.
type Service interface {
	// UnspentBoxes returns all unspent boxes guarded by the address.
	UnspentBoxes(ctx context.Context, addr ergo.Address) ([]ergo.Box, error)

	// ChainHeight returns the height of the current chain tip.
	ChainHeight(ctx context.Context) (uint64, error)

	// SubmitTransaction broadcasts a signed transaction and returns the
	// transaction ID accepted by the network.
	SubmitTransaction(ctx context.Context, tx *txbuild.SignedTx) (string, error)

	// Balance returns the confirmed value and token amounts held by the
	// address.
	Balance(ctx context.Context, addr ergo.Address) (*ergo.Balance, error)
}

// Mock is a test double for Service. Function fields must be set before
// the corresponding method is called.
type Mock struct {
	UnspentBoxesFn      func(ctx context.Context, addr ergo.Address) ([]ergo.Box, error)
	ChainHeightFn       func(ctx context.Context) (uint64, error)
	SubmitTransactionFn func(ctx context.Context, tx *txbuild.SignedTx) (string, error)
	BalanceFn           func(ctx context.Context, addr ergo.Address) (*ergo.Balance, error)
}

// Compile-time interface check.
var _ Service = (*Mock)(nil)

func (m *Mock) UnspentBoxes(ctx context.Context, addr ergo.Address) ([]ergo.Box, error) {
	return m.UnspentBoxesFn(ctx, addr)
}

func (m *Mock) ChainHeight(ctx context.Context) (uint64, error) {
	return m.ChainHeightFn(ctx)
}

func (m *Mock) SubmitTransaction(ctx context.Context, tx *txbuild.SignedTx) (string, error) {
	return m.SubmitTransactionFn(ctx, tx)
}

func (m *Mock) Balance(ctx context.Context, addr ergo.Address) (*ergo.Balance, error) {
	return m.BalanceFn(ctx, addr)
}
