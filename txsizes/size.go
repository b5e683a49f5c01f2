// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txsizes estimates how many virtual bytes a transaction input
// spending a given output script will add to a future transaction.
package txsizes

import (
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/funyug/dustbuster/pkg/btcunit"
)

// Worst case script and input size estimates.
const (
	// outPointSize is the serialized size of a previous outpoint:
	//
	//   - 32 bytes previous tx
	//   - 4 bytes output index
	outPointSize = 32 + 4

	// sequenceSize is the serialized size of an input sequence number.
	sequenceSize = 4

	// sigSize is the size of a DER encoded ECDSA signature with its
	// sighash byte appended. High-R signatures are 73 bytes, but the
	// low-R grinding done by every modern wallet caps them at 72.
	sigSize = 72

	// RedeemP2PKHSigScriptSize is the size of a transaction input script
	// that redeems a compressed P2PKH output. It is calculated as:
	//
	//   - OP_DATA_72
	//   - 72 bytes DER signature incl. sighash
	//   - OP_DATA_33
	//   - 33 bytes serialized compressed pubkey
	RedeemP2PKHSigScriptSize = 1 + sigSize + 1 + 33

	// RedeemP2PKHInputSize is the size of a transaction input redeeming a
	// compressed P2PKH output. It is calculated as:
	//
	//   - 32 bytes previous tx
	//   - 4 bytes output index
	//   - 1 byte compact int encoding value 107
	//   - 107 bytes signature script
	//   - 4 bytes sequence
	RedeemP2PKHInputSize = outPointSize + 1 + RedeemP2PKHSigScriptSize +
		sequenceSize

	// RedeemP2PKSigScriptSize is the size of a transaction input script
	// that redeems a P2PK output. It is calculated as:
	//
	//   - OP_DATA_72
	//   - 72 bytes DER signature incl. sighash
	RedeemP2PKSigScriptSize = 1 + sigSize

	// RedeemP2PKInputSize is the size of a transaction input redeeming a
	// P2PK output.
	RedeemP2PKInputSize = outPointSize + 1 + RedeemP2PKSigScriptSize +
		sequenceSize

	// RedeemP2WPKHInputSize is the size of a transaction input redeeming
	// any native witness program. It is calculated as:
	//
	//   - 32 bytes previous tx
	//   - 4 bytes output index
	//   - 1 byte encoding empty redeem script
	//   - 0 bytes redeem script
	//   - 4 bytes sequence
	RedeemP2WPKHInputSize = outPointSize + 1 + sequenceSize

	// RedeemNestedP2WPKHScriptSize is the size of a transaction input
	// script that redeems a pay-to-witness-key hash nested in P2SH
	// (P2SH-P2WPKH). It is calculated as:
	//
	//   - 1 byte compact int encoding value 22
	//   - OP_0
	//   - 1 byte compact int encoding value 20
	//   - 20 byte key hash
	RedeemNestedP2WPKHScriptSize = 1 + 1 + 1 + 20

	// RedeemNestedP2WPKHInputSize is the size of a transaction input
	// redeeming a P2SH-P2WPKH output. It is calculated as:
	//
	//   - 32 bytes previous tx
	//   - 4 bytes output index
	//   - 1 byte compact int encoding value 23
	//   - 23 bytes redeem script (scriptSig)
	//   - 4 bytes sequence
	RedeemNestedP2WPKHInputSize = outPointSize + 1 +
		RedeemNestedP2WPKHScriptSize + sequenceSize

	// RedeemP2WPKHInputWitnessWeight is the weight of a witness for
	// spending P2WPKH and nested P2WPKH outputs. It is calculated as:
	//
	//   - 1 wu compact int encoding value 2 (number of items)
	//   - 1 wu compact int encoding value 72
	//   - 72 wu DER signature incl. sighash
	//   - 1 wu compact int encoding value 33
	//   - 33 wu serialized compressed pubkey
	RedeemP2WPKHInputWitnessWeight = 1 + 1 + sigSize + 1 + 33

	// RedeemP2TRInputWitnessWeight is the weight of a witness for a key
	// path spend of a P2TR output. It is calculated as:
	//
	//   - 1 wu compact int encoding value 1 (number of items)
	//   - 1 wu compact int encoding value 64
	//   - 64 wu BIP-340 schnorr signature with default sighash
	RedeemP2TRInputWitnessWeight = 1 + 1 + 64

	// RedeemP2WSHInputWitnessWeight is the weight assumed for spending a
	// P2WSH output whose witness script is unknown: a single 65 byte
	// stack element. It is calculated as:
	//
	//   - 1 wu compact int encoding value 1 (number of items)
	//   - 1 wu compact int encoding value 65
	//   - 65 wu stack element
	RedeemP2WSHInputWitnessWeight = 1 + 1 + 65

	// RedeemP2AInputSize is the size of a transaction input spending a
	// pay-to-anchor output, which carries neither a signature script nor
	// a witness.
	RedeemP2AInputSize = RedeemP2WPKHInputSize
)

// payToAnchorScript is the standard pay-to-anchor output script:
// OP_1 OP_DATA_2 0x4e73.
var payToAnchorScript = []byte{txscript.OP_1, txscript.OP_DATA_2, 0x4e, 0x73}

// InputSize describes the estimated cost of spending an output script.
type InputSize struct {
	// Class is the script class of the spent output.
	Class txscript.ScriptClass

	// BaseSize is the number of non-witness bytes the input adds.
	BaseSize int

	// WitnessWeight is the weight of the witness stack of the input.
	WitnessWeight int

	// Spendable is false for scripts that can never be spent, such as
	// null data outputs.
	Spendable bool
}

// Weight returns the weight the input adds to a transaction.
func (s InputSize) Weight() btcunit.WeightUnit {
	return btcunit.NewWeightUnit(uint64(
		s.BaseSize*blockchain.WitnessScaleFactor + s.WitnessWeight,
	))
}

// VirtualSize returns the number of vbytes the input adds to a transaction.
// The witness weight is discounted and rounded up per input.
func (s InputSize) VirtualSize() btcunit.VByte {
	if !s.Spendable {
		return 0
	}

	return s.Weight().ToVB()
}

// EstimateInputSize returns the size of an input spending pkScript. The
// mapping is closed: any script shape not recognized below is priced as a
// compressed P2PKH spend, the largest of the common single-key inputs.
func EstimateInputSize(pkScript []byte) InputSize {
	class := txscript.GetScriptClass(pkScript)

	switch class {
	case txscript.PubKeyHashTy:
		return InputSize{
			Class:     class,
			BaseSize:  RedeemP2PKHInputSize,
			Spendable: true,
		}

	// If this is a p2sh output, we assume this is a nested P2WKH.
	case txscript.ScriptHashTy:
		return InputSize{
			Class:         class,
			BaseSize:      RedeemNestedP2WPKHInputSize,
			WitnessWeight: RedeemP2WPKHInputWitnessWeight,
			Spendable:     true,
		}

	case txscript.WitnessV0PubKeyHashTy:
		return InputSize{
			Class:         class,
			BaseSize:      RedeemP2WPKHInputSize,
			WitnessWeight: RedeemP2WPKHInputWitnessWeight,
			Spendable:     true,
		}

	case txscript.WitnessV0ScriptHashTy:
		return InputSize{
			Class:         class,
			BaseSize:      RedeemP2WPKHInputSize,
			WitnessWeight: RedeemP2WSHInputWitnessWeight,
			Spendable:     true,
		}

	case txscript.WitnessV1TaprootTy:
		return InputSize{
			Class:         class,
			BaseSize:      RedeemP2WPKHInputSize,
			WitnessWeight: RedeemP2TRInputWitnessWeight,
			Spendable:     true,
		}

	case txscript.PubKeyTy:
		return InputSize{
			Class:     class,
			BaseSize:  RedeemP2PKInputSize,
			Spendable: true,
		}

	case txscript.MultiSigTy:
		_, numSigs, err := txscript.CalcMultiSigStats(pkScript)
		if err != nil {
			break
		}

		// OP_0 followed by one signature push per required sig.
		sigScriptSize := 1 + numSigs*(1+sigSize)

		return InputSize{
			Class: class,
			BaseSize: outPointSize +
				wire.VarIntSerializeSize(uint64(sigScriptSize)) +
				sigScriptSize + sequenceSize,
			Spendable: true,
		}

	case txscript.NullDataTy:
		return InputSize{Class: class}
	}

	if IsPayToAnchor(pkScript) {
		return InputSize{
			Class:     class,
			BaseSize:  RedeemP2AInputSize,
			Spendable: true,
		}
	}

	return InputSize{
		Class:     class,
		BaseSize:  RedeemP2PKHInputSize,
		Spendable: true,
	}
}

// GetInputVirtualSize returns the number of vbytes an input spending pkScript
// adds to a transaction. Unspendable scripts report zero.
func GetInputVirtualSize(pkScript []byte) btcunit.VByte {
	return EstimateInputSize(pkScript).VirtualSize()
}

// IsPayToAnchor returns true if pkScript is the keyless pay-to-anchor output
// script.
func IsPayToAnchor(pkScript []byte) bool {
	if len(pkScript) != len(payToAnchorScript) {
		return false
	}
	for i := range pkScript {
		if pkScript[i] != payToAnchorScript[i] {
			return false
		}
	}
	return true
}
