// Package service orchestrates the wallet core: per-user wallet lifecycle,
// balance aggregation, and payment construction from coin selection
// through submission and pending-spend reservation.
//
// The secret-handling and transaction-handling capabilities are injected
// as independent collaborators rather than baked into the wallet record;
// the service owns only the wiring between them.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ergoplatform/ergo-tg/ergo"
	"github.com/ergoplatform/ergo-tg/explorer"
	"github.com/ergoplatform/ergo-tg/store"
	"github.com/ergoplatform/ergo-tg/utxopool"
	"github.com/ergoplatform/ergo-tg/vault"
)

// Wallet is the service handed back to the command layer.
type Wallet struct {
	store    *store.WalletStore
	explorer explorer.Service
	pool     *utxopool.Pool

	// changeOverride redirects change to a fixed address instead of the
	// user's own first account. Nil means per-user change.
	changeOverride *ergo.Address

	log zerolog.Logger
}

// Config wires the collaborators into a Wallet service.
type Config struct {
	Store          *store.WalletStore
	Explorer       explorer.Service
	Pool           *utxopool.Pool
	ChangeOverride *ergo.Address
	Logger         zerolog.Logger
}

// New creates the wallet service.
func New(cfg Config) *Wallet {
	return &Wallet{
		store:          cfg.Store,
		explorer:       cfg.Explorer,
		pool:           cfg.Pool,
		changeOverride: cfg.ChangeOverride,
		log:            cfg.Logger.With().Str("component", "wallet").Logger(),
	}
}

// CreatedWallet is the result of creating a fresh wallet. The mnemonic is
// shown to the user once and never stored.
type CreatedWallet struct {
	Address  ergo.Address
	Mnemonic string
}

// RestoredWallet is the result of restoring a wallet from a mnemonic.
type RestoredWallet struct {
	Address ergo.Address
}

// Exists reports whether a wallet record exists for userID.
func (w *Wallet) Exists(ctx context.Context, userID string) (bool, error) {
	return w.store.Exists(userID)
}

// CreateWallet generates a fresh mnemonic, derives the first account, and
// persists the wallet record in a single conditional insert. Exactly one
// of two concurrent calls for the same user succeeds; the other gets
// store.ErrWalletExists. On any failure nothing is persisted.
func (w *Wallet) CreateWallet(ctx context.Context, userID, passphrase, mnemonicPass string) (*CreatedWallet, error) {
	mnemonic, err := vault.GenerateMnemonic(vault.Mnemonic24Words)
	if err != nil {
		return nil, err
	}

	addr, err := w.createRecord(userID, mnemonic, passphrase, mnemonicPass)
	if err != nil {
		return nil, err
	}

	w.log.Info().Str("user", userID).Stringer("address", addr).Msg("wallet created")
	return &CreatedWallet{Address: addr, Mnemonic: mnemonic}, nil
}

// RestoreWallet rebuilds a wallet record from an existing mnemonic. The
// derived address is identical to the one the mnemonic produced
// originally.
func (w *Wallet) RestoreWallet(ctx context.Context, userID, mnemonic, passphrase, mnemonicPass string) (*RestoredWallet, error) {
	addr, err := w.createRecord(userID, mnemonic, passphrase, mnemonicPass)
	if err != nil {
		return nil, err
	}

	w.log.Info().Str("user", userID).Stringer("address", addr).Msg("wallet restored")
	return &RestoredWallet{Address: addr}, nil
}

// createRecord derives the first account from the mnemonic, encrypts the
// seed under the passphrase, and inserts the record atomically.
func (w *Wallet) createRecord(userID, mnemonic, passphrase, mnemonicPass string) (ergo.Address, error) {
	seed, err := vault.SeedFromMnemonic(mnemonic, mnemonicPass)
	if err != nil {
		return "", err
	}
	defer vault.Zero(seed)

	keyChain, err := vault.NewKeyChain(seed)
	if err != nil {
		return "", err
	}

	accountKey, err := keyChain.DeriveAccountKey(0)
	if err != nil {
		return "", err
	}

	addr, err := accountKey.Address()
	if err != nil {
		return "", err
	}

	encSeed, err := vault.EncryptSeed(seed, passphrase)
	if err != nil {
		return "", err
	}

	record := &store.WalletRecord{
		UserID:        userID,
		Seed:          *encSeed,
		Accounts:      []store.Account{{Path: accountKey.Path, Address: addr}},
		ChangeAddress: addr,
	}

	if err := w.store.Create(userID, record); err != nil {
		return "", err
	}
	return addr, nil
}

// GetBalance aggregates the confirmed balance across every account of the
// wallet. A failed fetch for any single account fails the whole call
// rather than reporting a partial sum.
func (w *Wallet) GetBalance(ctx context.Context, userID string) (*ergo.Balance, error) {
	record, err := w.store.Read(userID)
	if err != nil {
		return nil, err
	}

	total := &ergo.Balance{}
	for _, acct := range record.Accounts {
		balance, err := w.explorer.Balance(ctx, acct.Address)
		if err != nil {
			return nil, fmt.Errorf("balance for %s: %w", acct.Address, err)
		}
		total.Merge(balance)
	}
	return total, nil
}

// ConfirmTransaction releases the pending-spend reservation held by txID.
// The confirmation watcher calls it once the network has buried the
// transaction.
func (w *Wallet) ConfirmTransaction(txID string) {
	w.pool.Release(txID)
	w.log.Debug().Str("tx", txID).Msg("reservation released on confirmation")
}

// changeAddress picks the change destination for a record.
func (w *Wallet) changeAddress(record *store.WalletRecord) ergo.Address {
	if w.changeOverride != nil {
		return *w.changeOverride
	}
	return record.ChangeAddress
}

// IsNotFound reports whether err means the wallet does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrWalletNotFound)
}
