// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"
)

var chainParams = &chaincfg.RegressionNetParams

// fakeWalletRPC is a walletRPC that serves canned responses.
type fakeWalletRPC struct {
	unspent  []btcjson.ListUnspentResult
	err      error
	genesis  *chainhash.Hash
	block    chan struct{}
	minConf  int
	maxConf  int
	shutdown bool
}

func (f *fakeWalletRPC) ListUnspentMinMax(minConf,
	maxConf int) ([]btcjson.ListUnspentResult, error) {

	if f.block != nil {
		<-f.block
	}
	f.minConf, f.maxConf = minConf, maxConf
	return f.unspent, f.err
}

func (f *fakeWalletRPC) GetBlockHash(int64) (*chainhash.Hash, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.genesis, nil
}

func (f *fakeWalletRPC) Shutdown() {
	f.shutdown = true
}

func newTestSource(rpc *fakeWalletRPC) *BitcoindSource {
	return newBitcoindSource(rpc, &BitcoindConfig{
		ChainParams: chainParams,
		MinConf:     DefaultMinConf,
		MaxConf:     DefaultMaxConf,
	})
}

func p2wpkhAddress(t *testing.T, b byte) btcutil.Address {
	t.Helper()

	hash := make([]byte, 20)
	hash[0] = b
	addr, err := btcutil.NewAddressWitnessPubKeyHash(hash, chainParams)
	require.NoError(t, err)

	return addr
}

func unspentFor(t *testing.T, addr btcutil.Address, txid string, vout uint32,
	amount float64) btcjson.ListUnspentResult {

	t.Helper()

	pkScript, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)

	return btcjson.ListUnspentResult{
		TxID:          txid,
		Vout:          vout,
		Address:       addr.EncodeAddress(),
		ScriptPubKey:  hex.EncodeToString(pkScript),
		Amount:        amount,
		Confirmations: 6,
		Spendable:     true,
	}
}

const (
	txidA = "aa00000000000000000000000000000000000000000000000000000000000001"
	txidB = "bb00000000000000000000000000000000000000000000000000000000000002"
)

// TestListUnspent checks listunspent results are converted in order.
func TestListUnspent(t *testing.T) {
	t.Parallel()

	addrA := p2wpkhAddress(t, 1)
	addrB := p2wpkhAddress(t, 2)
	rpc := &fakeWalletRPC{
		unspent: []btcjson.ListUnspentResult{
			unspentFor(t, addrA, txidA, 0, 0.00000500),
			unspentFor(t, addrB, txidB, 3, 1.5),
		},
	}
	source := newTestSource(rpc)

	outputs, err := source.ListUnspent(context.Background())
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	require.Equal(t, DefaultMinConf, rpc.minConf)
	require.Equal(t, DefaultMaxConf, rpc.maxConf)

	require.Equal(t, txidA, outputs[0].OutPoint.Hash.String())
	require.Equal(t, uint32(0), outputs[0].OutPoint.Index)
	require.Equal(t, btcutil.Amount(500), outputs[0].Amount)
	require.Equal(t, addrA.EncodeAddress(),
		outputs[0].Address.UnwrapOr(""))

	require.Equal(t, txidB, outputs[1].OutPoint.Hash.String())
	require.Equal(t, uint32(3), outputs[1].OutPoint.Index)
	require.Equal(t, btcutil.Amount(150_000_000), outputs[1].Amount)
	require.Equal(t, addrB.EncodeAddress(),
		outputs[1].Address.UnwrapOr(""))
}

// TestListUnspentScriptAddressWins makes sure the address is derived from
// the output script rather than trusted from the node.
func TestListUnspentScriptAddressWins(t *testing.T) {
	t.Parallel()

	addrA := p2wpkhAddress(t, 1)
	addrB := p2wpkhAddress(t, 2)

	result := unspentFor(t, addrA, txidA, 0, 0.00000500)
	result.Address = addrB.EncodeAddress()

	source := newTestSource(&fakeWalletRPC{
		unspent: []btcjson.ListUnspentResult{result},
	})

	outputs, err := source.ListUnspent(context.Background())
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	require.Equal(t, addrA.EncodeAddress(),
		outputs[0].Address.UnwrapOr(""))
}

// TestListUnspentNoScriptAddress checks the node's address is used for
// scripts without one, and ignored when it does not decode.
func TestListUnspentNoScriptAddress(t *testing.T) {
	t.Parallel()

	addr := p2wpkhAddress(t, 1)
	opReturn := hex.EncodeToString([]byte{txscript.OP_RETURN})

	reported := btcjson.ListUnspentResult{
		TxID:         txidA,
		Address:      addr.EncodeAddress(),
		ScriptPubKey: opReturn,
	}
	bogus := btcjson.ListUnspentResult{
		TxID:         txidB,
		Address:      "not-an-address",
		ScriptPubKey: opReturn,
	}

	source := newTestSource(&fakeWalletRPC{
		unspent: []btcjson.ListUnspentResult{reported, bogus},
	})

	outputs, err := source.ListUnspent(context.Background())
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	require.Equal(t, addr.EncodeAddress(), outputs[0].Address.UnwrapOr(""))
	require.True(t, outputs[1].Address.IsNone())
}

// TestListUnspentInvalid checks malformed entries fail the whole listing.
func TestListUnspentInvalid(t *testing.T) {
	t.Parallel()

	addr := p2wpkhAddress(t, 1)

	tests := []struct {
		name   string
		modify func(*btcjson.ListUnspentResult)
	}{
		{
			name: "bad txid",
			modify: func(r *btcjson.ListUnspentResult) {
				r.TxID = "zz"
			},
		},
		{
			name: "bad script",
			modify: func(r *btcjson.ListUnspentResult) {
				r.ScriptPubKey = "0g"
			},
		},
		{
			name: "negative amount",
			modify: func(r *btcjson.ListUnspentResult) {
				r.Amount = -1
			},
		},
		{
			name: "too large amount",
			modify: func(r *btcjson.ListUnspentResult) {
				r.Amount = 21_000_001
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			result := unspentFor(t, addr, txidA, 0, 0.001)
			test.modify(&result)

			source := newTestSource(&fakeWalletRPC{
				unspent: []btcjson.ListUnspentResult{result},
			})

			_, err := source.ListUnspent(context.Background())
			require.Error(t, err)
		})
	}
}

// TestListUnspentRPCError checks transport errors are returned.
func TestListUnspentRPCError(t *testing.T) {
	t.Parallel()

	errRPC := errors.New("connection refused")
	source := newTestSource(&fakeWalletRPC{err: errRPC})

	_, err := source.ListUnspent(context.Background())
	require.ErrorIs(t, err, errRPC)
}

// TestListUnspentCanceled checks a pending request is abandoned when the
// context is done.
func TestListUnspentCanceled(t *testing.T) {
	t.Parallel()

	rpc := &fakeWalletRPC{block: make(chan struct{})}
	defer close(rpc.block)

	source := newTestSource(rpc)

	ctx, cancel := context.WithTimeout(context.Background(),
		10*time.Millisecond)
	defer cancel()

	_, err := source.ListUnspent(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestCheckNetwork compares the node's genesis hash with the configured
// network.
func TestCheckNetwork(t *testing.T) {
	t.Parallel()

	source := newTestSource(&fakeWalletRPC{
		genesis: chainParams.GenesisHash,
	})
	require.NoError(t, source.CheckNetwork(context.Background()))

	source = newTestSource(&fakeWalletRPC{
		genesis: chaincfg.MainNetParams.GenesisHash,
	})
	err := source.CheckNetwork(context.Background())
	require.ErrorIs(t, err, ErrWrongNetwork)
}

// TestStop checks Stop shuts the client down.
func TestStop(t *testing.T) {
	t.Parallel()

	rpc := &fakeWalletRPC{}
	newTestSource(rpc).Stop()
	require.True(t, rpc.shutdown)
}

// TestNewBitcoindSource checks the config defaults.
func TestNewBitcoindSource(t *testing.T) {
	t.Parallel()

	_, err := NewBitcoindSource(&BitcoindConfig{Host: "localhost:18443"})
	require.Error(t, err)

	source, err := NewBitcoindSource(&BitcoindConfig{
		ChainParams: chainParams,
		Host:        "localhost:18443",
		Wallet:      "dust",
		MinConf:     -1,
	})
	require.NoError(t, err)
	defer source.Stop()

	require.Equal(t, DefaultMinConf, source.minConf)
	require.Equal(t, DefaultMaxConf, source.maxConf)
}
