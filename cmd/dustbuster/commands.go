// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/davecgh/go-spew/spew"
	"github.com/funyug/dustbuster/dust"
	"github.com/funyug/dustbuster/dustbuster"
	"github.com/funyug/dustbuster/internal/cfgutil"
	"github.com/funyug/dustbuster/internal/prompt"
	"github.com/funyug/dustbuster/netparams"
	"github.com/funyug/dustbuster/pkg/btcunit"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	defaultFeeRate  = 1
	defaultPsbtSize = 100
)

// maxFeeRate is the highest fee rate accepted before it is assumed to be a
// typo.
var maxFeeRate = btcunit.SatPerVByteFromSats(10_000)

// queryFlags are the dust selection options shared by all commands.
type queryFlags struct {
	FeeRate *cfgutil.FeeRateFlag `long:"feerate" description:"Fee rate in sat/vbyte at which spending an output is evaluated (fractions like 0.5 are allowed)"`
	Address string               `long:"address" description:"Only consider outputs paying to this address"`
	Sort    bool                 `long:"sort" description:"Order dust by ascending amount instead of wallet order"`
}

func defaultQueryFlags() queryFlags {
	return queryFlags{FeeRate: cfgutil.NewFeeRateFlag(defaultFeeRate)}
}

// query validates the flags and converts them to a dust query for the given
// network.
func (f *queryFlags) query(params *netparams.Params) (dustbuster.Query, error) {
	feeRate := f.FeeRate.SatPerVByte
	if !feeRate.IsPositive() {
		return dustbuster.Query{}, fmt.Errorf("fee rate `%v` must be "+
			"positive", feeRate)
	}
	if feeRate.GreaterThan(maxFeeRate) {
		return dustbuster.Query{}, fmt.Errorf("fee rate `%v` is "+
			"exceptionally high", feeRate)
	}

	address := fn.None[string]()
	if f.Address != "" {
		addr, err := dust.NormalizeAddress(f.Address, params.Params)
		if err != nil {
			return dustbuster.Query{}, err
		}
		address = fn.Some(addr)
	}

	return dustbuster.Query{
		FeeRate:      feeRate,
		Address:      address,
		SortByAmount: f.Sort,
	}, nil
}

// listDustCommand implements the listdust command.
type listDustCommand struct {
	queryFlags

	Yes bool `short:"y" long:"yes" description:"Print the dust outputs without asking"`

	cfg *config
	in  io.Reader
	out io.Writer
}

func newListDustCommand(cfg *config, in io.Reader,
	out io.Writer) *listDustCommand {

	return &listDustCommand{
		queryFlags: defaultQueryFlags(),
		cfg:        cfg,
		in:         in,
		out:        out,
	}
}

// Execute satisfies the flags.Commander interface.
func (c *listDustCommand) Execute(_ []string) error {
	if err := c.cfg.validate(); err != nil {
		return err
	}
	query, err := c.query(c.cfg.activeNet)
	if err != nil {
		return err
	}

	s, err := openSession(c.cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := c.cfg.newContext()
	defer cancel()

	if err := s.checkNetwork(ctx); err != nil {
		return err
	}

	report, err := s.buster.ListDust(ctx, query)
	if err != nil {
		return err
	}

	return c.printReport(report)
}

// noDustMessage is printed by both commands when nothing qualifies as dust.
const noDustMessage = "No dust UTXOs found"

// printReport writes the dust count and, once confirmed, every dust output.
func (c *listDustCommand) printReport(report *dustbuster.Report) error {
	if report.Count() == 0 {
		fmt.Fprintln(c.out, noDustMessage)
		return nil
	}
	fmt.Fprintf(c.out, "Total Dust UTXOs: %d\n", report.Count())

	if !c.Yes {
		noun := pickNoun(report.Count(), "it", "them")
		show, err := prompt.Confirm(
			bufio.NewReader(c.in), c.out, "Print "+noun+"?", false,
		)
		if err != nil {
			return errContext(err, "failed to read answer")
		}
		if !show {
			return nil
		}
	}

	for _, output := range report.Outputs {
		fmt.Fprintf(c.out, "Txid: %v Vout: %d Amount: %v\n",
			output.OutPoint.Hash, output.OutPoint.Index,
			output.Amount)
	}
	fmt.Fprintf(c.out, "Total: %v\n", report.TotalAmount)

	return nil
}

// createPsbtCommand implements the createpsbt command.
type createPsbtCommand struct {
	queryFlags

	Count   int    `short:"n" long:"count" description:"Maximum number of dust outputs to spend"`
	OutFile string `short:"o" long:"out" description:"Also write the binary PSBT to this file"`

	cfg *config
	out io.Writer
}

func newCreatePsbtCommand(cfg *config, out io.Writer) *createPsbtCommand {
	return &createPsbtCommand{
		queryFlags: defaultQueryFlags(),
		Count:      defaultPsbtSize,
		cfg:        cfg,
		out:        out,
	}
}

// Execute satisfies the flags.Commander interface.
func (c *createPsbtCommand) Execute(_ []string) error {
	if c.Count <= 0 {
		return fmt.Errorf("count `%d` must be positive", c.Count)
	}

	if err := c.cfg.validate(); err != nil {
		return err
	}
	query, err := c.query(c.cfg.activeNet)
	if err != nil {
		return err
	}

	s, err := openSession(c.cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := c.cfg.newContext()
	defer cancel()

	if err := s.checkNetwork(ctx); err != nil {
		return err
	}

	packet, report, err := s.buster.CreatePsbt(ctx, query, c.Count)
	switch {
	case errors.Is(err, dustbuster.ErrNoDust):
		fmt.Fprintln(c.out, noDustMessage)
		return nil

	case err != nil:
		return err
	}

	log.Infof("Burning %v from %d %s, estimated %v at %v", report.TotalAmount,
		report.Count(), pickNoun(report.Count(), "output", "outputs"),
		report.EstimatedVSize, report.EffectiveFeeRate())
	log.Tracef("Unsigned transaction: %v", newLogClosure(func() string {
		return spew.Sdump(packet.UnsignedTx)
	}))

	return c.writePacket(packet)
}

// writePacket prints the base64 encoded packet and writes the binary packet
// to the configured file, if any.
func (c *createPsbtCommand) writePacket(packet *psbt.Packet) error {
	encoded, err := packet.B64Encode()
	if err != nil {
		return errContext(err, "failed to encode PSBT")
	}
	fmt.Fprintln(c.out, encoded)

	if c.OutFile == "" {
		return nil
	}

	var buf bytes.Buffer
	if err := packet.Serialize(&buf); err != nil {
		return errContext(err, "failed to serialize PSBT")
	}

	outFile := cleanAndExpandPath(c.OutFile)
	if err := os.WriteFile(outFile, buf.Bytes(), 0600); err != nil {
		return errContext(err, "failed to write PSBT")
	}
	log.Infof("Wrote PSBT to %s", outFile)

	return nil
}
