// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package skeleton

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	wtxsizes "github.com/btcsuite/btcwallet/wallet/txsizes"
	"github.com/funyug/dustbuster/dust"
	"github.com/funyug/dustbuster/pkg/btcunit"
)

// EstimateVirtualSize returns a worst case virtual size for the signed
// consolidation transaction spending outputs. Inputs that are not P2TR,
// P2WPKH or P2SH (assumed P2SH-P2WPKH) are counted as compressed P2PKH.
func EstimateVirtualSize(outputs []dust.Output) btcunit.VByte {
	var numP2PKH, numP2TR, numP2WPKH, numNested int
	for _, output := range outputs {
		switch txscript.GetScriptClass(output.PkScript) {
		case txscript.WitnessV1TaprootTy:
			numP2TR++

		case txscript.WitnessV0PubKeyHashTy:
			numP2WPKH++

		case txscript.ScriptHashTy:
			numNested++

		default:
			numP2PKH++
		}
	}

	sink := []*wire.TxOut{wire.NewTxOut(0, NullDataSinkScript())}
	vsize := wtxsizes.EstimateVirtualSize(
		numP2PKH, numP2TR, numP2WPKH, numNested, sink, 0,
	)

	return btcunit.NewVByte(uint64(vsize))
}
