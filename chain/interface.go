// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// walletRPC is the subset of the bitcoind JSON-RPC client used by
// BitcoindSource. *rpcclient.Client implements it.
type walletRPC interface {
	ListUnspentMinMax(minConf, maxConf int) ([]btcjson.ListUnspentResult,
		error)
	GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
	Shutdown()
}
