package store

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/ergoplatform/ergo-tg/ergo"
	"github.com/ergoplatform/ergo-tg/vault"
)

// Account is one derived key chain within a wallet. The address is a pure
// function of (seed, Path) and is stored only alongside its path.
type Account struct {
	Path    []uint32
	Address ergo.Address
}

// WalletRecord is the persisted per-user wallet state. A record is created
// exactly once and never rewritten by the core flows; only account growth
// would touch it.
type WalletRecord struct {
	UserID        string
	Seed          vault.EncryptedSeed
	Accounts      []Account
	ChangeAddress ergo.Address
}

// Validate checks the structural invariants of a record: at least one
// account and no two accounts sharing a derivation path.
func (r *WalletRecord) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: empty user ID", ErrInvalidRecord)
	}
	if len(r.Accounts) == 0 {
		return fmt.Errorf("%w: no accounts", ErrInvalidRecord)
	}

	seen := make(map[string]bool, len(r.Accounts))
	for _, acct := range r.Accounts {
		key := fmt.Sprint(acct.Path)
		if seen[key] {
			return fmt.Errorf("%w: duplicate derivation path %v", ErrInvalidRecord, acct.Path)
		}
		seen[key] = true
	}
	return nil
}

// WalletStore maps user IDs to wallet records on top of the KV
// collaborator.
type WalletStore struct {
	kv KV
}

// NewWalletStore wraps a KV store.
func NewWalletStore(kv KV) *WalletStore {
	return &WalletStore{kv: kv}
}

// walletKey builds the storage key for a user's record.
func walletKey(userID string) []byte {
	return []byte("wallet/" + userID)
}

// Exists reports whether a record exists for userID.
func (ws *WalletStore) Exists(userID string) (bool, error) {
	value, err := ws.kv.Get(walletKey(userID))
	if err != nil {
		return false, err
	}
	return value != nil, nil
}

// Create inserts the record for userID. The insert is conditional on the
// key being absent, atomically, so two concurrent creators for the same
// user resolve to exactly one success; the loser gets ErrWalletExists.
// Nothing is written when validation or encoding fails.
func (ws *WalletStore) Create(userID string, record *WalletRecord) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}
	if err := record.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("%w: encode record: %w", ErrStorage, err)
	}

	err := ws.kv.PutIfAbsent(walletKey(userID), buf.Bytes())
	if errors.Is(err, ErrKeyExists) {
		return fmt.Errorf("%w: user %s", ErrWalletExists, userID)
	}
	return err
}

// Read returns the record for userID, or ErrWalletNotFound.
func (ws *WalletStore) Read(userID string) (*WalletRecord, error) {
	value, err := ws.kv.Get(walletKey(userID))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("%w: user %s", ErrWalletNotFound, userID)
	}

	var record WalletRecord
	if err := gob.NewDecoder(bytes.NewReader(value)).Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: decode record: %w", ErrStorage, err)
	}
	return &record, nil
}
