// Copyright (c) 2015-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/funyug/dustbuster/chain"
	"github.com/funyug/dustbuster/dustbuster"
	"github.com/jessevdk/go-flags"
)

var newlineBytes = []byte{'\n'}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Stderr.Write(newlineBytes)
	closeLogRotator()
	os.Exit(1)
}

func errContext(err error, context string) error {
	return fmt.Errorf("%s: %w", context, err)
}

// pickNoun returns the singular or plural form of a noun depending
// on the count n.
func pickNoun(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// session is the state shared by every command once the configuration has
// been validated and the node connection set up.
type session struct {
	cfg    *config
	source *chain.BitcoindSource
	buster *dustbuster.Buster
}

// openSession starts file logging and creates the client of the configured
// node. The config must have been validated. The returned session must be
// closed.
func openSession(cfg *config) (*session, error) {
	logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
	if err := initLogRotator(logFile); err != nil {
		return nil, err
	}

	user, pass, err := cfg.rpcCredentials()
	if err != nil {
		return nil, err
	}

	source, err := chain.NewBitcoindSource(cfg.bitcoindConfig(user, pass))
	if err != nil {
		return nil, errContext(err, "failed to create RPC client")
	}

	return &session{
		cfg:    cfg,
		source: source,
		buster: dustbuster.New(source),
	}, nil
}

// checkNetwork makes sure the node runs the configured network.
func (s *session) checkNetwork(ctx context.Context) error {
	log.Debugf("Checking bitcoind at %s runs %s", s.cfg.RPCConnect,
		s.cfg.activeNet.Name)

	return s.source.CheckNetwork(ctx)
}

// Close shuts down the node connection.
func (s *session) Close() {
	s.source.Stop()
}

// newContext returns a context canceled on interrupt or once the configured
// timeout expires.
func (cfg *config) newContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)

	return ctx, func() {
		cancel()
		stop()
	}
}

func main() {
	cfg := defaultConfig()
	parser := flags.NewParser(&cfg, flags.HelpFlag|flags.PassDoubleDash)

	_, err := parser.AddCommand(
		"listdust", "List dust outputs",
		"List the wallet outputs worth less than the fee needed to "+
			"spend them at the given fee rate.",
		newListDustCommand(&cfg, os.Stdin, os.Stdout),
	)
	if err != nil {
		fatalf("%v", err)
	}
	_, err = parser.AddCommand(
		"createpsbt", "Draft a transaction burning dust",
		"Create an unsigned PSBT spending the wallet dust outputs into "+
			"a single zero value OP_RETURN output.",
		newCreatePsbtCommand(&cfg, os.Stdout),
	)
	if err != nil {
		fatalf("%v", err)
	}

	if err := preloadConfigFile(parser, &cfg); err != nil {
		fatalf("%v", err)
	}

	_, err = parser.Parse()
	var flagsErr *flags.Error
	switch {
	case err == nil:

	case errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp:
		fmt.Println(err)

	default:
		fatalf("%v", err)
	}

	closeLogRotator()
}
