package explorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergoplatform/ergo-tg/ergo"
	"github.com/ergoplatform/ergo-tg/txbuild"
	"github.com/ergoplatform/ergo-tg/vault"
)

func TestClientUnspentBoxes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/boxes/unspent/byAddress/someAddr", r.URL.Path)
		_ = json.NewEncoder(w).Encode(boxPage{
			Items: []boxItem{
				{BoxID: "box1", Value: 1000, Address: "someAddr"},
				{BoxID: "box2", Value: 500, Address: "someAddr",
					Assets: []asset{{TokenID: "tkn", Amount: 3}}},
			},
			Total: 2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	boxes, err := client.UnspentBoxes(context.Background(), "someAddr")
	require.NoError(t, err)

	require.Len(t, boxes, 2)
	assert.Equal(t, ergo.BoxID("box1"), boxes[0].ID)
	assert.Equal(t, uint64(1000), boxes[0].Value)
	assert.Nil(t, boxes[0].Assets)
	assert.Equal(t, map[ergo.TokenID]uint64{"tkn": 3}, boxes[1].Assets)
}

func TestClientChainHeight(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/networkState", r.URL.Path)
		_ = json.NewEncoder(w).Encode(networkState{Height: 123456})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	height, err := client.ChainHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(123456), height)
}

func testSignedTx(t *testing.T) *txbuild.SignedTx {
	t.Helper()
	seed, err := vault.SeedFromMnemonic(
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "")
	require.NoError(t, err)
	kc, err := vault.NewKeyChain(seed)
	require.NoError(t, err)
	key, err := kc.DeriveAccountKey(0)
	require.NoError(t, err)

	utx, err := txbuild.Build(
		[]txbuild.Input{{Box: ergo.Box{ID: "box1", Value: 1000}, Key: key}},
		[]ergo.Payment{{Address: "dest", Value: 900}},
		100, 5000, "change",
	)
	require.NoError(t, err)

	signed, err := txbuild.Sign(utx)
	require.NoError(t, err)
	return signed
}

func TestClientSubmitTransaction(t *testing.T) {
	signed := testSignedTx(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/mempool/transactions/submit", r.URL.Path)

		var wire submitWire
		require.NoError(t, json.NewDecoder(r.Body).Decode(&wire))
		assert.Equal(t, signed.ID, wire.ID)
		require.Len(t, wire.Inputs, 1)
		assert.Equal(t, "box1", wire.Inputs[0].BoxID)
		assert.NotEmpty(t, wire.Inputs[0].SpendingProof)

		_ = json.NewEncoder(w).Encode(submitResponse{ID: wire.ID})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	txID, err := client.SubmitTransaction(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, signed.ID, txID)
}

func TestClientSubmitTransaction_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"reason":"double spend"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	_, err := client.SubmitTransaction(context.Background(), testSignedTx(t))
	require.ErrorIs(t, err, ErrSubmitRejected)
	assert.Contains(t, err.Error(), "double spend")
}

func TestClientBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/addresses/someAddr/balance/confirmed", r.URL.Path)
		_ = json.NewEncoder(w).Encode(balanceResult{
			NanoErgs: 1500,
			Tokens:   []asset{{TokenID: "tkn", Amount: 9}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	balance, err := client.Balance(context.Background(), "someAddr")
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), balance.NanoErgs)
	assert.Equal(t, map[ergo.TokenID]uint64{"tkn": 9}, balance.Assets)
}

func TestClientBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 0)
	_, err := client.ChainHeight(context.Background())
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestClientConnectionFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	_, err := client.ChainHeight(context.Background())
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

func TestClientContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(server.URL, 0)
	_, err := client.ChainHeight(ctx)
	assert.ErrorIs(t, err, ErrConnectionFailed)
}
