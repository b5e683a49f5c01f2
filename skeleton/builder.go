// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package skeleton builds the unsigned transaction that consolidates dust
// outputs into a single zero value OP_RETURN output.
//
// The resulting PSBT carries only the unsigned transaction. No previous
// output values, scripts or derivation paths are attached, so the packet
// has to be decorated by the wallet before it can be signed.
package skeleton

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txrules"
	"github.com/funyug/dustbuster/dust"
)

const (
	// TxVersion is the version of the consolidation transaction.
	TxVersion = 2

	// LockTime is the absolute lock time of the consolidation
	// transaction. Zero disables it.
	LockTime = 0

	// RBFSequence is the sequence used for every input. It signals
	// BIP125 replaceability and disables BIP68 relative lock times.
	RBFSequence = wire.MaxTxInSequenceNum - 2
)

// ErrNoInputs is returned when a skeleton would not spend any outputs.
var ErrNoInputs = errors.New("transaction has no inputs")

// ConstructionError is returned when the consolidation transaction would be
// structurally invalid. Callers should treat it as nothing to do.
type ConstructionError struct {
	Err error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("unable to construct consolidation transaction: %v",
		e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// NullDataSinkScript returns the output script of the consolidation sink: a
// lone OP_RETURN without payload.
func NullDataSinkScript() []byte {
	return []byte{txscript.OP_RETURN}
}

// Build creates an unsigned transaction spending the first maxCount outputs
// in the order given, paying everything to a single zero value OP_RETURN
// output. The input value is left entirely to fees. A ConstructionError
// wrapping ErrNoInputs is returned if no output would be spent.
func Build(outputs []dust.Output, maxCount int) (*psbt.Packet, error) {
	n := len(outputs)
	if maxCount < n {
		n = maxCount
	}
	if n <= 0 {
		return nil, &ConstructionError{Err: ErrNoInputs}
	}

	inputs := make([]*wire.OutPoint, 0, n)
	sequences := make([]uint32, 0, n)
	for _, output := range outputs[:n] {
		outPoint := output.OutPoint
		inputs = append(inputs, &outPoint)
		sequences = append(sequences, RBFSequence)
	}

	sink := wire.NewTxOut(0, NullDataSinkScript())

	// The sink is checked against the default relay policy. Data carrier
	// outputs are exempt from the dust rules, so this only fails if the
	// script is not recognized as null data.
	if err := txrules.CheckOutput(sink, txrules.DefaultRelayFeePerKb); err != nil {
		return nil, &ConstructionError{Err: err}
	}

	packet, err := psbt.New(
		inputs, []*wire.TxOut{sink}, TxVersion, LockTime, sequences,
	)
	if err != nil {
		return nil, &ConstructionError{Err: err}
	}

	// Make sure the packet is well formed before handing it out.
	if err := psbt.VerifyInputOutputLen(packet, true, true); err != nil {
		return nil, &ConstructionError{Err: err}
	}

	return packet, nil
}
