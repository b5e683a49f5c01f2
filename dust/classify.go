// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dust identifies wallet outputs whose value is below the cost of
// ever spending them.
//
// An output is dust at a fee rate when its amount is lower than the fee the
// input spending it would pay on its own:
//
//	threshold = ceil(feeRate * inputVSize(pkScript))
//
// where the input size comes from the closed script class table in the
// txsizes package. Nothing in this package logs or performs I/O.
package dust

import (
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/funyug/dustbuster/pkg/btcunit"
	"github.com/funyug/dustbuster/txsizes"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Threshold returns the smallest output value that costs no more than itself
// to spend at feeRate. Unspendable scripts have a zero threshold.
func Threshold(pkScript []byte, feeRate btcunit.SatPerVByte) btcutil.Amount {
	return feeRate.FeeForVSizeRoundUp(txsizes.GetInputVirtualSize(pkScript))
}

// IsDust returns true if output is worth less than the fee needed to spend it
// at feeRate.
func IsDust(output Output, feeRate btcunit.SatPerVByte) bool {
	return output.Amount < Threshold(output.PkScript, feeRate)
}

// Classify returns the dust outputs among outputs in their original order.
// If address is set, only outputs owned by that address are considered and
// an AddressNotFoundError is returned when it owns none of them. An empty
// result is not an error.
func Classify(outputs []Output, feeRate btcunit.SatPerVByte,
	address fn.Option[string]) ([]Output, error) {

	if !feeRate.IsPositive() {
		return nil, ErrInvalidFeeRate
	}

	candidates := outputs
	if address.IsSome() {
		addr := address.UnwrapOr("")

		group, ok := GroupByAddress(outputs)[addr]
		if !ok {
			return nil, &AddressNotFoundError{Address: addr}
		}
		candidates = group
	}

	dustOutputs := make([]Output, 0, len(candidates))
	for _, output := range candidates {
		if IsDust(output, feeRate) {
			dustOutputs = append(dustOutputs, output)
		}
	}

	return dustOutputs, nil
}

// SortByAmount returns a copy of outputs ordered by ascending amount. Outputs
// of equal value keep their relative order. Classify and skeleton.Build never
// reorder, so callers that want the smallest outputs consolidated first call
// this between the two.
func SortByAmount(outputs []Output) []Output {
	sorted := make([]Output, len(outputs))
	copy(sorted, outputs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount < sorted[j].Amount
	})

	return sorted
}
