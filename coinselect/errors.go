package coinselect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ergoplatform/ergo-tg/ergo"
)

// InsufficientFundsError reports how far the available boxes fall short of
// the requested payments plus fee. NanoErgs is zero when only token amounts
// are unmet, and Assets is nil when only value is unmet.
type InsufficientFundsError struct {
	NanoErgs uint64
	Assets   map[ergo.TokenID]uint64
}

func (e *InsufficientFundsError) Error() string {
	var parts []string
	if e.NanoErgs > 0 {
		parts = append(parts, fmt.Sprintf("%d nanoERG", e.NanoErgs))
	}

	ids := make([]string, 0, len(e.Assets))
	for id := range e.Assets {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d of token %s", e.Assets[ergo.TokenID(id)], id))
	}

	if len(parts) == 0 {
		return "coinselect: insufficient funds"
	}
	return "coinselect: insufficient funds, short " + strings.Join(parts, ", ")
}
