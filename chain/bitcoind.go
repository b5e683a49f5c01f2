// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/funyug/dustbuster/dust"
)

const (
	// DefaultMinConf is the minimum number of confirmations bitcoind
	// requires by default for listunspent.
	DefaultMinConf = 1

	// DefaultMaxConf is the maximum number of confirmations bitcoind
	// allows by default for listunspent.
	DefaultMaxConf = 9999999
)

// ErrWrongNetwork is returned when bitcoind runs a different chain than the
// one the source was configured for.
var ErrWrongNetwork = errors.New("bitcoind is running on a different network")

// BitcoindConfig describes how to reach the wallet of a bitcoind node.
type BitcoindConfig struct {
	// ChainParams are the parameters of the network bitcoind is expected
	// to run. They are used to derive addresses from output scripts.
	ChainParams *chaincfg.Params

	// Host is the host:port of the bitcoind JSON-RPC server.
	Host string

	// Wallet is the name of the loaded wallet to query. If empty, the
	// node's default wallet is used.
	Wallet string

	// User and Pass authenticate with the RPC server.
	User string
	Pass string

	// MinConf and MaxConf bound the confirmations of listed outputs.
	MinConf int
	MaxConf int
}

// BitcoindSource supplies wallet outputs from by the wallet of a bitcoind node,
// queried over JSON-RPC in HTTP POST mode.
type BitcoindSource struct {
	client      walletRPC
	chainParams *chaincfg.Params
	minConf     int
	maxConf     int
}

// NewBitcoindSource creates a source for the wallet described by cfg. No
// connection is made until the first request.
func NewBitcoindSource(cfg *BitcoindConfig) (*BitcoindSource, error) {
	if cfg.ChainParams == nil {
		return nil, errors.New("chain params are required")
	}

	host := cfg.Host
	if cfg.Wallet != "" {
		host = fmt.Sprintf("%s/wallet/%s", cfg.Host, cfg.Wallet)
	}

	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:                 host,
		User:                 cfg.User,
		Pass:                 cfg.Pass,
		DisableAutoReconnect: false,
		DisableConnectOnNew:  true,
		DisableTLS:           true,
		HTTPPostMode:         true,
	}, nil)
	if err != nil {
		return nil, err
	}

	return newBitcoindSource(client, cfg), nil
}

// newBitcoindSource wraps an existing RPC client.
func newBitcoindSource(client walletRPC, cfg *BitcoindConfig) *BitcoindSource {
	minConf, maxConf := cfg.MinConf, cfg.MaxConf
	if minConf < 0 {
		minConf = DefaultMinConf
	}
	if maxConf <= 0 {
		maxConf = DefaultMaxConf
	}

	return &BitcoindSource{
		client:      client,
		chainParams: cfg.ChainParams,
		minConf:     minConf,
		maxConf:     maxConf,
	}
}

// CheckNetwork makes sure bitcoind runs the network the source was
// configured for by comparing genesis block hashes.
func (s *BitcoindSource) CheckNetwork(ctx context.Context) error {
	hash, err := await(ctx, func() (string, error) {
		hash, err := s.client.GetBlockHash(0)
		if err != nil {
			return "", err
		}
		return hash.String(), nil
	})
	if err != nil {
		return fmt.Errorf("unable to fetch genesis block hash: %w", err)
	}

	if hash != s.chainParams.GenesisHash.String() {
		return fmt.Errorf("%w: expected %s, genesis block %s",
			ErrWrongNetwork, s.chainParams.Name, hash)
	}

	return nil
}

// ListUnspent returns every unspent output of the wallet within the
// configured confirmation bounds, in the order bitcoind reports them.
func (s *BitcoindSource) ListUnspent(ctx context.Context) ([]dust.Output,
	error) {

	results, err := await(ctx, func() ([]dust.Output, error) {
		unspent, err := s.client.ListUnspentMinMax(s.minConf, s.maxConf)
		if err != nil {
			return nil, err
		}

		log.Debugf("Wallet reported %d unspent outputs", len(unspent))

		return outputsFromUnspent(unspent, s.chainParams)
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// Stop shuts down the underlying RPC client.
func (s *BitcoindSource) Stop() {
	s.client.Shutdown()
}

// await runs f in its own goroutine and waits for its result or for ctx to
// be done, whichever happens first. The RPC client offers no cancellation,
// so an abandoned call runs to completion in the background.
func await[T any](ctx context.Context, f func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}

	done := make(chan result, 1)
	go func() {
		val, err := f()
		done <- result{val: val, err: err}
	}()

	select {
	case res := <-done:
		return res.val, res.err

	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
