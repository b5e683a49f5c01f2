// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/funyug/dustbuster/dust"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// outputsFromUnspent converts listunspent results into outputs, keeping
// their order. Any malformed entry fails the whole conversion.
func outputsFromUnspent(unspent []btcjson.ListUnspentResult,
	params *chaincfg.Params) ([]dust.Output, error) {

	outputs := make([]dust.Output, 0, len(unspent))
	for i := range unspent {
		output, err := outputFromUnspent(&unspent[i], params)
		if err != nil {
			return nil, fmt.Errorf("invalid data in listunspent "+
				"result: %w", err)
		}
		outputs = append(outputs, output)
	}

	return outputs, nil
}

// outputFromUnspent converts a single listunspent result. The owning address
// is derived from the output script; the address reported by the node is
// only used for scripts that have none.
func outputFromUnspent(result *btcjson.ListUnspentResult,
	params *chaincfg.Params) (dust.Output, error) {

	outPoint, err := parseOutPoint(result)
	if err != nil {
		return dust.Output{}, err
	}

	amount, err := btcutil.NewAmount(result.Amount)
	if err != nil {
		return dust.Output{}, fmt.Errorf("invalid amount `%v`: %w",
			result.Amount, err)
	}
	if !saneOutputValue(amount) {
		return dust.Output{}, fmt.Errorf("impossible output amount `%v`",
			amount)
	}

	pkScript, err := hex.DecodeString(result.ScriptPubKey)
	if err != nil {
		return dust.Output{}, fmt.Errorf("invalid script of %v: %w",
			outPoint, err)
	}

	address := dust.AddressFromScript(pkScript, params)
	if address.IsNone() && result.Address != "" {
		addr, err := dust.NormalizeAddress(result.Address, params)
		if err == nil {
			address = fn.Some(addr)
		} else {
			log.Debugf("Ignoring address of %v: %v", outPoint, err)
		}
	}

	return dust.Output{
		OutPoint: outPoint,
		Amount:   amount,
		PkScript: pkScript,
		Address:  address,
	}, nil
}

func saneOutputValue(amount btcutil.Amount) bool {
	return amount >= 0 && amount <= btcutil.MaxSatoshi
}

func parseOutPoint(input *btcjson.ListUnspentResult) (wire.OutPoint, error) {
	txHash, err := chainhash.NewHashFromStr(input.TxID)
	if err != nil {
		return wire.OutPoint{}, err
	}
	return wire.OutPoint{Hash: *txHash, Index: input.Vout}, nil
}
