package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ergoplatform/ergo-tg/coinselect"
	"github.com/ergoplatform/ergo-tg/ergo"
	"github.com/ergoplatform/ergo-tg/txbuild"
	"github.com/ergoplatform/ergo-tg/utxopool"
	"github.com/ergoplatform/ergo-tg/vault"
)

// maxSelectRetries bounds how often a payment retries selection after
// losing a reservation race to a concurrent request for the same user.
const maxSelectRetries = 3

// CreateTransaction builds, signs and submits a payment for userID and
// returns the network-accepted transaction ID.
//
// Concurrent requests for the same user are serialized through the
// pending-spend pool, not through locks: candidate boxes are filtered
// against the pool's snapshot, and the reservation is taken atomically
// BEFORE submission. A concurrent request that selected overlapping boxes
// between our filter and our reservation fails its own Reserve and retries
// selection with a fresh snapshot, so the filter/submit window cannot
// produce a double-spend. Once the reservation is placed the
// submit-or-release unit runs on a context detached from the caller;
// aborting the request can no longer leave a submitted transaction
// unreserved.
func (w *Wallet) CreateTransaction(ctx context.Context, userID, passphrase string,
	requests []ergo.Payment, fee uint64) (string, error) {

	if len(requests) == 0 {
		return "", ErrNoRequests
	}

	log := w.log.With().
		Str("user", userID).
		Str("request_id", uuid.NewString()).
		Logger()

	record, err := w.store.Read(userID)
	if err != nil {
		return "", err
	}

	seed, err := vault.DecryptSeed(&record.Seed, passphrase)
	if err != nil {
		return "", err
	}
	defer vault.Zero(seed)

	keyChain, err := vault.NewKeyChain(seed)
	if err != nil {
		return "", err
	}

	// Derive the signing key for every account and gather its unspent
	// boxes. Keys are matched to boxes by guarding address.
	keysByAddr := make(map[ergo.Address]*vault.SigningKey, len(record.Accounts))
	var candidates []ergo.Box
	for _, acct := range record.Accounts {
		key, err := keyChain.DeriveKey(acct.Path)
		if err != nil {
			return "", err
		}
		keysByAddr[acct.Address] = key

		boxes, err := w.explorer.UnspentBoxes(ctx, acct.Address)
		if err != nil {
			return "", fmt.Errorf("unspent boxes for %s: %w", acct.Address, err)
		}
		candidates = append(candidates, boxes...)
	}

	height, err := w.explorer.ChainHeight(ctx)
	if err != nil {
		return "", err
	}

	changeAddr := w.changeAddress(record)

	for attempt := 0; attempt < maxSelectRetries; attempt++ {
		txID, err := w.buildAndSubmit(ctx, log, userID, candidates, requests,
			fee, height, changeAddr, keysByAddr)
		if errors.Is(err, utxopool.ErrAlreadyReserved) {
			log.Debug().Int("attempt", attempt+1).Msg("reservation conflict, reselecting")
			continue
		}
		return txID, err
	}

	return "", ErrTooManyConflicts
}

// buildAndSubmit runs one selection attempt: filter, select, build, sign,
// reserve, submit. Reserve-before-submit means a submit failure only needs
// a release, while a reserve conflict aborts before anything reached the
// network.
func (w *Wallet) buildAndSubmit(ctx context.Context, log zerolog.Logger, userID string,
	candidates []ergo.Box, requests []ergo.Payment, fee, height uint64,
	changeAddr ergo.Address, keysByAddr map[ergo.Address]*vault.SigningKey) (string, error) {

	available := w.pool.FilterAvailable(candidates)

	selected, err := coinselect.Select(available, requests, fee)
	if err != nil {
		return "", err
	}

	inputs := make([]txbuild.Input, len(selected))
	for i, box := range selected {
		key, ok := keysByAddr[box.Address]
		if !ok {
			return "", fmt.Errorf("%w: box %s guarded by unknown address %s",
				ErrUnknownBoxOwner, box.ID, box.Address)
		}
		inputs[i] = txbuild.Input{Box: box, Key: key}
	}

	unsigned, err := txbuild.Build(inputs, requests, fee, height, changeAddr)
	if err != nil {
		// Selection covered the targets, so a build failure is an
		// internal contract violation. Log loudly, do not retry.
		log.Error().Err(err).Msg("builder rejected selected inputs")
		return "", err
	}

	signed, err := txbuild.Sign(unsigned)
	if err != nil {
		return "", err
	}

	boxIDs := make([]ergo.BoxID, len(selected))
	for i, box := range selected {
		boxIDs[i] = box.ID
	}

	if err := w.pool.Reserve(signed.ID, userID, boxIDs); err != nil {
		return "", err
	}

	// Submission and reservation form one committed unit: detach from the
	// caller's cancellation so an abort cannot split them.
	txID, err := w.explorer.SubmitTransaction(context.WithoutCancel(ctx), signed)
	if err != nil {
		w.pool.Release(signed.ID)
		return "", err
	}

	log.Info().
		Str("tx", txID).
		Int("inputs", len(inputs)).
		Int("outputs", len(requests)).
		Uint64("fee", fee).
		Msg("transaction submitted")

	return txID, nil
}
