package txbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergoplatform/ergo-tg/ergo"
	"github.com/ergoplatform/ergo-tg/vault"
)

const changeAddr = ergo.Address("changeAddr")

func testKey(t *testing.T) *vault.SigningKey {
	t.Helper()
	seed, err := vault.SeedFromMnemonic(
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "")
	require.NoError(t, err)
	kc, err := vault.NewKeyChain(seed)
	require.NoError(t, err)
	key, err := kc.DeriveAccountKey(0)
	require.NoError(t, err)
	return key
}

func input(t *testing.T, id string, value uint64, assets map[ergo.TokenID]uint64) Input {
	return Input{
		Box: ergo.Box{ID: ergo.BoxID(id), Address: "ownerAddr", Value: value, Assets: assets},
		Key: testKey(t),
	}
}

func TestBuild_NoChangeWhenExact(t *testing.T) {
	inputs := []Input{input(t, "1", 100, nil), input(t, "2", 30, nil)}
	requests := []ergo.Payment{{Address: "dest", Value: 120}}

	utx, err := Build(inputs, requests, 10, 5000, changeAddr)
	require.NoError(t, err)

	assert.Nil(t, utx.Change, "leftover of zero must omit the change output")
	assert.Len(t, utx.AllOutputs(), 1)
}

func TestBuild_SingleChangeOutput(t *testing.T) {
	inputs := []Input{input(t, "1", 150, nil)}
	requests := []ergo.Payment{{Address: "dest", Value: 120}}

	utx, err := Build(inputs, requests, 10, 5000, changeAddr)
	require.NoError(t, err)

	require.NotNil(t, utx.Change)
	assert.Equal(t, uint64(20), utx.Change.Value)
	assert.Equal(t, changeAddr, utx.Change.Address)

	all := utx.AllOutputs()
	require.Len(t, all, 2)
	assert.Equal(t, ergo.Address("dest"), all[0].Address, "requests come first")
	assert.Equal(t, changeAddr, all[1].Address, "change comes last")
}

func TestBuild_ChangeCarriesLeftoverTokens(t *testing.T) {
	inputs := []Input{input(t, "1", 130, map[ergo.TokenID]uint64{"tkn": 10, "other": 2})}
	requests := []ergo.Payment{{
		Address: "dest",
		Value:   120,
		Assets:  map[ergo.TokenID]uint64{"tkn": 4},
	}}

	utx, err := Build(inputs, requests, 10, 5000, changeAddr)
	require.NoError(t, err)

	// Value leftover is zero but token leftovers force a change output.
	require.NotNil(t, utx.Change)
	assert.Zero(t, utx.Change.Value)
	assert.Equal(t, map[ergo.TokenID]uint64{"tkn": 6, "other": 2}, utx.Change.Assets)
}

func TestBuild_OutputOrderFollowsRequests(t *testing.T) {
	inputs := []Input{input(t, "1", 400, nil)}
	requests := []ergo.Payment{
		{Address: "third", Value: 10},
		{Address: "first", Value: 20},
		{Address: "second", Value: 30},
	}

	utx, err := Build(inputs, requests, 10, 5000, changeAddr)
	require.NoError(t, err)

	all := utx.AllOutputs()
	require.Len(t, all, 4)
	assert.Equal(t, ergo.Address("third"), all[0].Address)
	assert.Equal(t, ergo.Address("first"), all[1].Address)
	assert.Equal(t, ergo.Address("second"), all[2].Address)
	assert.Equal(t, changeAddr, all[3].Address)
}

func TestBuild_NegativeValueChange(t *testing.T) {
	inputs := []Input{input(t, "1", 100, nil)}
	requests := []ergo.Payment{{Address: "dest", Value: 120}}

	_, err := Build(inputs, requests, 10, 5000, changeAddr)
	assert.ErrorIs(t, err, ErrNegativeChange)
}

func TestBuild_NegativeTokenChange(t *testing.T) {
	inputs := []Input{input(t, "1", 1000, map[ergo.TokenID]uint64{"tkn": 1})}
	requests := []ergo.Payment{{
		Address: "dest",
		Value:   100,
		Assets:  map[ergo.TokenID]uint64{"tkn": 5},
	}}

	_, err := Build(inputs, requests, 10, 5000, changeAddr)
	assert.ErrorIs(t, err, ErrNegativeChange)
}

func TestBuild_NoInputs(t *testing.T) {
	_, err := Build(nil, []ergo.Payment{{Address: "dest", Value: 1}}, 0, 0, changeAddr)
	assert.ErrorIs(t, err, ErrNoInputs)
}

func TestSign_ProofPerInput(t *testing.T) {
	inputs := []Input{input(t, "1", 100, nil), input(t, "2", 60, nil)}
	requests := []ergo.Payment{{Address: "dest", Value: 150}}

	utx, err := Build(inputs, requests, 10, 5000, changeAddr)
	require.NoError(t, err)

	signed, err := Sign(utx)
	require.NoError(t, err)

	assert.Len(t, signed.ID, 64, "tx ID is a hex blake2b-256 digest")
	require.Len(t, signed.Proofs, 2)
	for i, proof := range signed.Proofs {
		assert.NotEmpty(t, proof, "input %d must carry a proof", i)
	}
}

func TestSign_DeterministicTxID(t *testing.T) {
	build := func() *UnsignedTx {
		utx, err := Build(
			[]Input{input(t, "1", 200, map[ergo.TokenID]uint64{"b": 2, "a": 1})},
			[]ergo.Payment{{Address: "dest", Value: 100}},
			10, 5000, changeAddr,
		)
		require.NoError(t, err)
		return utx
	}

	s1, err := Sign(build())
	require.NoError(t, err)
	s2, err := Sign(build())
	require.NoError(t, err)

	assert.Equal(t, s1.ID, s2.ID, "identical transactions must share an ID")
}

func TestSign_MissingKey(t *testing.T) {
	utx, err := Build(
		[]Input{{Box: ergo.Box{ID: "1", Value: 100}}},
		[]ergo.Payment{{Address: "dest", Value: 50}},
		10, 5000, changeAddr,
	)
	require.NoError(t, err)

	_, err = Sign(utx)
	assert.ErrorIs(t, err, ErrSigningFailed)
}

func TestSign_NilTx(t *testing.T) {
	_, err := Sign(nil)
	assert.ErrorIs(t, err, ErrNilParam)
}
