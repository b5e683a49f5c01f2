// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dustbuster finds the dust outputs of a wallet and drafts the
// unsigned transaction that burns them into a single OP_RETURN output.
package dustbuster

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/funyug/dustbuster/dust"
	"github.com/funyug/dustbuster/pkg/btcunit"
	"github.com/funyug/dustbuster/skeleton"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// UtxoSource supplies the wallet outputs that are candidates for dust
// consolidation.
type UtxoSource interface {
	// ListUnspent returns every unspent output currently controlled by
	// the wallet.
	ListUnspent(ctx context.Context) ([]dust.Output, error)
}

// Query selects which outputs are reported as dust.
type Query struct {
	// FeeRate is the rate at which the cost of spending each output is
	// evaluated.
	FeeRate btcunit.SatPerVByte

	// Address restricts the search to the outputs of one address. It
	// must be in canonical form, see dust.NormalizeAddress.
	Address fn.Option[string]

	// SortByAmount orders the dust by ascending amount instead of the
	// order the source returned it in.
	SortByAmount bool
}

// Report is the result of a dust search.
type Report struct {
	// Outputs are the dust outputs found.
	Outputs []dust.Output

	// TotalAmount is the combined value of Outputs.
	TotalAmount btcutil.Amount

	// EstimatedVSize is the worst case virtual size of the signed
	// transaction spending Outputs. It is only set for drafted
	// transactions.
	EstimatedVSize btcunit.VByte
}

// Count returns the number of dust outputs in the report.
func (r *Report) Count() int {
	return len(r.Outputs)
}

// EffectiveFeeRate is the fee rate the drafted transaction pays once signed.
// The whole input value goes to fees. A zero rate is returned when no
// transaction was drafted.
func (r *Report) EffectiveFeeRate() btcunit.SatPerVByte {
	return btcunit.NewSatPerVByte(r.TotalAmount, r.EstimatedVSize)
}

// Buster runs dust queries against a UTXO source.
type Buster struct {
	source UtxoSource
}

// New returns a Buster that reads wallet outputs from source.
func New(source UtxoSource) *Buster {
	return &Buster{source: source}
}

// ListDust fetches the wallet outputs and returns those that are dust for
// the query. An empty report is not an error.
func (b *Buster) ListDust(ctx context.Context, q Query) (*Report, error) {
	outputs, err := b.source.ListUnspent(ctx)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	log.Debugf("Classifying %d unspent outputs at %v", len(outputs),
		q.FeeRate)

	found, err := dust.Classify(outputs, q.FeeRate, q.Address)
	if err != nil {
		return nil, err
	}
	if q.SortByAmount {
		found = dust.SortByAmount(found)
	}

	report := &Report{
		Outputs:     found,
		TotalAmount: dust.TotalAmount(found),
	}
	log.Infof("Found %d dust outputs worth %v", report.Count(),
		report.TotalAmount)

	return report, nil
}

// CreatePsbt runs the query and drafts an unsigned transaction spending at
// most maxCount of the dust outputs into an OP_RETURN output. The returned
// report only lists the outputs that were spent. ErrNoDust is returned when
// the query finds nothing.
func (b *Buster) CreatePsbt(ctx context.Context, q Query,
	maxCount int) (*psbt.Packet, *Report, error) {

	report, err := b.ListDust(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	if report.Count() == 0 {
		return nil, nil, ErrNoDust
	}

	packet, err := skeleton.Build(report.Outputs, maxCount)
	if err != nil {
		return nil, nil, err
	}

	spent := report.Outputs[:len(packet.UnsignedTx.TxIn)]
	log.Infof("Drafted transaction %v spending %d dust outputs",
		packet.UnsignedTx.TxHash(), len(spent))

	return packet, &Report{
		Outputs:        spent,
		TotalAmount:    dust.TotalAmount(spent),
		EstimatedVSize: skeleton.EstimateVirtualSize(spent),
	}, nil
}
