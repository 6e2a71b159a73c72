package explorer

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ergoplatform/ergo-tg/ergo"
	"github.com/ergoplatform/ergo-tg/txbuild"
)

// Client is an HTTP client for the explorer REST API. It maintains a
// pooled connection and takes a context on every call.
type Client struct {
	baseURL string
	client  *http.Client
}

// Compile-time interface check.
var _ Service = (*Client)(nil)

// NewClient creates an explorer client for the given base URL, e.g.
// "https://api.ergoplatform.com".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// boxItem maps the JSON fields of an unspent box as returned by the
// explorer.
type boxItem struct {
	BoxID   string  `json:"boxId"`
	Value   uint64  `json:"value"`
	Address string  `json:"address"`
	Assets  []asset `json:"assets"`
}

type asset struct {
	TokenID string `json:"tokenId"`
	Amount  uint64 `json:"amount"`
}

type boxPage struct {
	Items []boxItem `json:"items"`
	Total int       `json:"total"`
}

// UnspentBoxes returns all unspent boxes guarded by the address.
func (c *Client) UnspentBoxes(ctx context.Context, addr ergo.Address) ([]ergo.Box, error) {
	var page boxPage
	path := fmt.Sprintf("/api/v1/boxes/unspent/byAddress/%s", addr)
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}

	boxes := make([]ergo.Box, len(page.Items))
	for i, item := range page.Items {
		boxes[i] = ergo.Box{
			ID:      ergo.BoxID(item.BoxID),
			Address: ergo.Address(item.Address),
			Value:   item.Value,
			Assets:  assetMap(item.Assets),
		}
	}
	return boxes, nil
}

type networkState struct {
	Height uint64 `json:"height"`
}

// ChainHeight returns the height of the current chain tip.
func (c *Client) ChainHeight(ctx context.Context) (uint64, error) {
	var state networkState
	if err := c.get(ctx, "/api/v1/networkState", &state); err != nil {
		return 0, err
	}
	return state.Height, nil
}

// submitWire is the JSON representation of a signed transaction accepted
// by the explorer's submit endpoint.
type submitWire struct {
	ID      string       `json:"id"`
	Inputs  []inputWire  `json:"inputs"`
	Outputs []outputWire `json:"outputs"`
	Fee     uint64       `json:"fee"`
	Height  uint64       `json:"creationHeight"`
}

type inputWire struct {
	BoxID         string `json:"boxId"`
	SpendingProof string `json:"spendingProof"`
}

type outputWire struct {
	Address string  `json:"address"`
	Value   uint64  `json:"value"`
	Assets  []asset `json:"assets,omitempty"`
}

type submitResponse struct {
	ID string `json:"id"`
}

// SubmitTransaction broadcasts the signed transaction and returns the
// transaction ID echoed by the network. A rejection is surfaced as
// ErrSubmitRejected with the server's reason.
func (c *Client) SubmitTransaction(ctx context.Context, tx *txbuild.SignedTx) (string, error) {
	wire := submitWire{
		ID:     tx.ID,
		Fee:    tx.Fee,
		Height: tx.CreationHeight,
	}
	for i, in := range tx.Inputs {
		wire.Inputs = append(wire.Inputs, inputWire{
			BoxID:         string(in.Box.ID),
			SpendingProof: hex.EncodeToString(tx.Proofs[i]),
		})
	}
	for _, out := range tx.AllOutputs() {
		wire.Outputs = append(wire.Outputs, outputWire{
			Address: string(out.Address),
			Value:   out.Value,
			Assets:  assetList(out.Assets),
		})
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("explorer: marshal transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/mempool/transactions/submit", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("explorer: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrSubmitRejected, resp.StatusCode, string(reason))
	}

	var submitted submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrBadResponse, err)
	}
	if submitted.ID == "" {
		return "", fmt.Errorf("%w: empty transaction ID", ErrBadResponse)
	}
	return submitted.ID, nil
}

// balanceResult maps the confirmed balance JSON for an address.
type balanceResult struct {
	NanoErgs uint64  `json:"nanoErgs"`
	Tokens   []asset `json:"tokens"`
}

// Balance returns the confirmed balance held by the address.
func (c *Client) Balance(ctx context.Context, addr ergo.Address) (*ergo.Balance, error) {
	var result balanceResult
	path := fmt.Sprintf("/api/v1/addresses/%s/balance/confirmed", addr)
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}

	balance := &ergo.Balance{NanoErgs: result.NanoErgs}
	if len(result.Tokens) > 0 {
		balance.Assets = assetMap(result.Tokens)
	}
	return balance, nil
}

// get issues a GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("explorer: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrBadResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrBadResponse, err)
	}
	return nil
}

func assetMap(assets []asset) map[ergo.TokenID]uint64 {
	if len(assets) == 0 {
		return nil
	}
	out := make(map[ergo.TokenID]uint64, len(assets))
	for _, a := range assets {
		out[ergo.TokenID(a.TokenID)] += a.Amount
	}
	return out
}

func assetList(assets map[ergo.TokenID]uint64) []asset {
	if len(assets) == 0 {
		return nil
	}
	out := make([]asset, 0, len(assets))
	for id, amount := range assets {
		out = append(out, asset{TokenID: string(id), Amount: amount})
	}
	return out
}
