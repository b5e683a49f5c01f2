// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dust

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Output is a wallet controlled transaction output that is a candidate for
// dust consolidation. Outputs are treated as immutable values.
type Output struct {
	// OutPoint is the (txid, vout) pair identifying the output.
	OutPoint wire.OutPoint

	// Amount is the value of the output.
	Amount btcutil.Amount

	// PkScript is the script that must be satisfied to spend the output.
	PkScript []byte

	// Address is the canonical encoding of the address PkScript pays to,
	// if the script has one.
	Address fn.Option[string]
}

// String returns a short human readable description of the output.
func (o Output) String() string {
	return fmt.Sprintf("%v (%v)", o.OutPoint, o.Amount)
}

// NormalizeAddress decodes addr for the given network and returns its
// canonical string encoding. Bech32 addresses are lower-cased by the round
// trip, so the result can be compared with addresses derived from scripts.
func NormalizeAddress(addr string, params *chaincfg.Params) (string, error) {
	decoded, err := btcutil.DecodeAddress(addr, params)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if !decoded.IsForNet(params) {
		return "", fmt.Errorf("address %q is not for network %s", addr,
			params.Name)
	}

	return decoded.EncodeAddress(), nil
}

// AddressFromScript returns the canonical address pkScript pays to. Only
// scripts paying to exactly one key or script hash have an address; bare
// multisig, P2PK, null data and non-standard scripts do not.
func AddressFromScript(pkScript []byte,
	params *chaincfg.Params) fn.Option[string] {

	class, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, params)
	if err != nil || len(addrs) != 1 {
		return fn.None[string]()
	}

	switch class {
	case txscript.PubKeyHashTy, txscript.ScriptHashTy,
		txscript.WitnessV0PubKeyHashTy, txscript.WitnessV0ScriptHashTy,
		txscript.WitnessV1TaprootTy:

		return fn.Some(addrs[0].EncodeAddress())
	}

	return fn.None[string]()
}

// TotalAmount sums the value of the passed outputs.
func TotalAmount(outputs []Output) btcutil.Amount {
	var total btcutil.Amount
	for _, output := range outputs {
		total += output.Amount
	}
	return total
}
