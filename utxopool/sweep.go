package utxopool

// sweepLoop expires reservations older than the TTL horizon on every tick.
func (p *Pool) sweepLoop() {
	defer p.wg.Done()

	p.sweeper.Resume()
	defer p.sweeper.Stop()

	for {
		select {
		case <-p.sweeper.Ticks():
			p.expire()
		case <-p.quit:
			return
		}
	}
}

// expire removes every reservation created before now-ttl in one atomic
// state transition.
func (p *Pool) expire() {
	cutoff := p.now().Add(-p.ttl)

	for {
		cur := p.state.Load()

		var stale []*PendingSpend
		for _, spend := range cur.byTx {
			if spend.CreatedAt.Before(cutoff) {
				stale = append(stale, spend)
			}
		}
		if len(stale) == 0 {
			return
		}

		next := cur.clone()
		for _, spend := range stale {
			delete(next.byTx, spend.TxID)
			for _, id := range spend.BoxIDs {
				if next.byBox[id] == spend {
					delete(next.byBox, id)
				}
			}
		}

		if p.state.CompareAndSwap(cur, next) {
			return
		}
	}
}
