package ergo

// BoxID uniquely identifies an unspent box on the ledger (hex-encoded
// 32-byte identifier as reported by the explorer).
type BoxID string

// TokenID identifies an asset carried inside a box (hex-encoded).
type TokenID string

// Box is an unspent transaction output. A box is immutable and is consumed
// in its entirety when used as a transaction input.
type Box struct {
	ID      BoxID              `json:"boxId"`
	Address Address            `json:"address"`
	Value   uint64             `json:"value"`
	Assets  map[TokenID]uint64 `json:"assets,omitempty"`
}

// Payment is a single requested output: send Value nanoERG and the listed
// token amounts to Address. One transaction may carry many payments.
type Payment struct {
	Address Address
	Value   uint64
	Assets  map[TokenID]uint64
}

// Balance aggregates confirmed value and token amounts across addresses.
type Balance struct {
	NanoErgs uint64
	Assets   map[TokenID]uint64
}

// Merge adds other into b.
func (b *Balance) Merge(other *Balance) {
	b.NanoErgs += other.NanoErgs
	for id, amount := range other.Assets {
		if b.Assets == nil {
			b.Assets = make(map[TokenID]uint64)
		}
		b.Assets[id] += amount
	}
}

// SumValues returns the total nanoERG carried by the given boxes.
func SumValues(boxes []Box) uint64 {
	var total uint64
	for _, b := range boxes {
		total += b.Value
	}
	return total
}

// SumAssets returns the total amount of every token carried by the boxes.
func SumAssets(boxes []Box) map[TokenID]uint64 {
	totals := make(map[TokenID]uint64)
	for _, b := range boxes {
		for id, amount := range b.Assets {
			totals[id] += amount
		}
	}
	return totals
}
