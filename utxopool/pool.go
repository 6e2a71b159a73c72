// Package utxopool tracks boxes committed to in-flight transactions so
// concurrent payment requests cannot double-spend them.
//
// The pool state is an immutable snapshot behind an atomic pointer. Every
// mutation copies the snapshot and installs it with compare-and-swap,
// retrying on conflict, so reservations are linearizable with lookups and
// no lock is ever held across I/O. A reservation is removed either by an
// explicit release (confirmation) or by the TTL sweeper, since the network
// may drop an unconfirmed transaction and its boxes must become selectable
// again.
package utxopool

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/ticker"

	"github.com/ergoplatform/ergo-tg/ergo"
)

// PendingSpend records the boxes reserved by one submitted transaction.
// A pending spend is Reserved from creation until Release or expiry,
// which is terminal.
type PendingSpend struct {
	TxID      string
	UserID    string
	BoxIDs    []ergo.BoxID
	CreatedAt time.Time
}

// snapshot is an immutable view of the pool. Both maps share the same
// *PendingSpend values; neither is ever mutated after publication.
type snapshot struct {
	byBox map[ergo.BoxID]*PendingSpend
	byTx  map[string]*PendingSpend
}

var emptySnapshot = &snapshot{
	byBox: map[ergo.BoxID]*PendingSpend{},
	byTx:  map[string]*PendingSpend{},
}

// Pool is the process-wide pending-spend tracker. One instance is shared
// across all requests.
type Pool struct {
	state atomic.Pointer[snapshot]

	ttl     time.Duration
	sweeper ticker.Ticker

	now func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	quit      chan struct{}
	wg        sync.WaitGroup
}

// New creates a pool whose reservations expire after ttl. The sweeper
// ticker drives expiry; pass ticker.NewForce in tests to trigger sweeps
// manually.
func New(ttl time.Duration, sweeper ticker.Ticker) *Pool {
	p := &Pool{
		ttl:     ttl,
		sweeper: sweeper,
		now:     time.Now,
		quit:    make(chan struct{}),
	}
	p.state.Store(emptySnapshot)
	return p
}

// Start launches the background expiry sweep.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		p.wg.Add(1)
		go p.sweepLoop()
	})
}

// Stop terminates the sweep and waits for it to exit.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
		p.wg.Wait()
	})
}

// Reserve atomically records that txID holds the given boxes for userID.
// It is all-or-nothing: if any box is already held by a live reservation,
// nothing is recorded and ErrAlreadyReserved identifies the conflict. Two
// reservations racing for the same box resolve so that exactly one
// succeeds.
func (p *Pool) Reserve(txID, userID string, boxIDs []ergo.BoxID) error {
	if len(boxIDs) == 0 {
		return ErrEmptyReservation
	}

	spend := &PendingSpend{
		TxID:      txID,
		UserID:    userID,
		BoxIDs:    append([]ergo.BoxID(nil), boxIDs...),
		CreatedAt: p.now(),
	}

	for {
		cur := p.state.Load()

		if _, ok := cur.byTx[txID]; ok {
			return fmt.Errorf("%w: transaction %s", ErrAlreadyReserved, txID)
		}
		for _, id := range boxIDs {
			if held, ok := cur.byBox[id]; ok {
				return fmt.Errorf("%w: box %s held by transaction %s",
					ErrAlreadyReserved, id, held.TxID)
			}
		}

		next := cur.clone()
		next.byTx[txID] = spend
		for _, id := range boxIDs {
			next.byBox[id] = spend
		}

		if p.state.CompareAndSwap(cur, next) {
			return nil
		}
	}
}

// IsReserved reports whether a box is held by a live reservation.
func (p *Pool) IsReserved(boxID ergo.BoxID) bool {
	_, ok := p.state.Load().byBox[boxID]
	return ok
}

// FilterAvailable returns the boxes not held by any live reservation,
// judged against a single snapshot.
func (p *Pool) FilterAvailable(boxes []ergo.Box) []ergo.Box {
	cur := p.state.Load()
	free := make([]ergo.Box, 0, len(boxes))
	for _, box := range boxes {
		if _, ok := cur.byBox[box.ID]; !ok {
			free = append(free, box)
		}
	}
	return free
}

// Release removes the reservation held by txID, making its boxes
// selectable again. Releasing an unknown transaction is a no-op.
func (p *Pool) Release(txID string) {
	for {
		cur := p.state.Load()
		spend, ok := cur.byTx[txID]
		if !ok {
			return
		}

		next := cur.clone()
		delete(next.byTx, txID)
		for _, id := range spend.BoxIDs {
			if next.byBox[id] == spend {
				delete(next.byBox, id)
			}
		}

		if p.state.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Len returns the number of live reservations.
func (p *Pool) Len() int {
	return len(p.state.Load().byTx)
}

func (s *snapshot) clone() *snapshot {
	next := &snapshot{
		byBox: make(map[ergo.BoxID]*PendingSpend, len(s.byBox)),
		byTx:  make(map[string]*PendingSpend, len(s.byTx)),
	}
	for id, spend := range s.byBox {
		next.byBox[id] = spend
	}
	for id, spend := range s.byTx {
		next.byTx[id] = spend
	}
	return next
}
