// Copyright (c) 2013-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/funyug/dustbuster/chain"
	"github.com/funyug/dustbuster/internal/cfgutil"
	"github.com/funyug/dustbuster/internal/prompt"
	"github.com/funyug/dustbuster/netparams"
	"github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "dustbuster.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "dustbuster.log"
	defaultRPCHost        = "localhost"
	defaultTimeout        = time.Minute
)

var (
	dustbusterHomeDir = btcutil.AppDataDir("dustbuster", false)
	defaultConfigFile = filepath.Join(dustbusterHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(dustbusterHomeDir, defaultLogDirname)
)

type config struct {
	// General application behavior
	ConfigFile *cfgutil.ExplicitString `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir     string                  `long:"logdir" description:"Directory to log output"`
	DebugLevel string                  `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	Timeout    time.Duration           `long:"timeout" description:"Give up on the node after this long"`

	// Network selection
	TestNet3 bool `long:"testnet" description:"Use the test Bitcoin network (version 3)"`
	TestNet4 bool `long:"testnet4" description:"Use the test Bitcoin network (version 4)"`
	SigNet   bool `long:"signet" description:"Use the default signet Bitcoin network"`
	RegTest  bool `long:"regtest" description:"Use the regression test Bitcoin network"`

	// Bitcoin Core RPC options
	RPCConnect string `short:"c" long:"rpcconnect" description:"Hostname/IP and port of the bitcoind RPC server (default port depends on the network)"`
	RPCUser    string `short:"u" long:"rpcuser" description:"bitcoind RPC username"`
	RPCPass    string `short:"P" long:"rpcpass" default-mask:"-" description:"bitcoind RPC password, prompted for if omitted"`
	RPCAuth    string `long:"rpcauth" default-mask:"-" description:"bitcoind RPC credentials as user:pass"`
	RPCCookie  string `long:"rpccookie" description:"Path to the bitcoind .cookie file to authenticate with"`
	Wallet     string `short:"w" long:"wallet" description:"Name of the bitcoind wallet to search (default wallet if empty)"`
	MinConf    int    `long:"minconf" description:"Minimum number of confirmations of listed outputs"`

	activeNet *netparams.Params
}

// defaultConfig returns a config with every option at its default value.
func defaultConfig() config {
	return config{
		ConfigFile: cfgutil.NewExplicitString(defaultConfigFile),
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
		Timeout:    defaultTimeout,
		RPCConnect: defaultRPCHost,
		MinConf:    chain.DefaultMinConf,
	}
}

// cleanAndExpandPath expands environement variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(dustbusterHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but they variables can still be expanded via POSIX-style
	// $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// preloadConfigFile loads options from the configuration file into cfg
// before the command line is parsed, so command line options always take
// precedence. A missing config file is only an error when it was explicitly
// requested.
func preloadConfigFile(parser *flags.Parser, cfg *config) error {
	// Pre-parse the command line options to see if an alternative config
	// file was specified.
	preCfg := defaultConfig()
	preParser := flags.NewParser(&preCfg, flags.IgnoreUnknown)
	if _, err := preParser.Parse(); err != nil {
		return err
	}

	configFile := cleanAndExpandPath(preCfg.ConfigFile.Value)
	cfg.ConfigFile = preCfg.ConfigFile

	exists, err := cfgutil.FileExists(configFile)
	if err != nil {
		return err
	}
	if !exists {
		if preCfg.ConfigFile.ExplicitlySet() {
			return fmt.Errorf("config file %s not found", configFile)
		}
		return nil
	}

	return flags.NewIniParser(parser).ParseFile(configFile)
}

// validate checks the parsed configuration, selects the active network and
// fills in derived defaults. It must be called once the command line has been
// parsed and before any other use of cfg.
func (cfg *config) validate() error {
	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}

	// Choose the active network params based on the selected network.
	// Multiple networks can't be selected simultaneously.
	cfg.activeNet = &netparams.MainNetParams
	numNets := 0
	if cfg.TestNet3 {
		cfg.activeNet = &netparams.TestNet3Params
		numNets++
	}
	if cfg.TestNet4 {
		cfg.activeNet = &netparams.TestNet4Params
		numNets++
	}
	if cfg.SigNet {
		cfg.activeNet = &netparams.SigNetParams
		numNets++
	}
	if cfg.RegTest {
		cfg.activeNet = &netparams.RegressionNetParams
		numNets++
	}
	if numNets > 1 {
		return errors.New("the testnet, testnet4, signet and regtest " +
			"params can't be used together -- choose one")
	}

	// Append the network type to the log directory so it is "namespaced"
	// per network.
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.LogDir = filepath.Join(cfg.LogDir, cfg.activeNet.Name)

	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}

	if cfg.RPCConnect == "" {
		return errors.New("RPC hostname[:port] is required")
	}
	rpcConnect, err := cfgutil.NormalizeAddress(
		cfg.RPCConnect, cfg.activeNet.RPCServerPort,
	)
	if err != nil {
		return fmt.Errorf("invalid RPC network address `%v`: %w",
			cfg.RPCConnect, err)
	}
	cfg.RPCConnect = rpcConnect

	if cfg.MinConf < 0 {
		return errors.New("minimum confirmations must be non-negative")
	}
	if cfg.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	numAuth := 0
	if cfg.RPCUser != "" {
		numAuth++
	}
	if cfg.RPCAuth != "" {
		numAuth++
	}
	if cfg.RPCCookie != "" {
		numAuth++
	}
	switch {
	case numAuth == 0:
		return errors.New("RPC credentials are required -- set one " +
			"of rpcuser, rpcauth or rpccookie")

	case numAuth > 1:
		return errors.New("the rpcuser, rpcauth and rpccookie " +
			"options can't be used together -- choose one")

	case cfg.RPCUser == "" && cfg.RPCPass != "":
		return errors.New("rpcpass requires rpcuser")
	}

	return nil
}

// rpcCredentials returns the user and password to authenticate with
// bitcoind, reading the cookie file or prompting for the password when
// needed.
func (cfg *config) rpcCredentials() (string, string, error) {
	switch {
	case cfg.RPCCookie != "":
		cookieFile := cleanAndExpandPath(cfg.RPCCookie)
		user, pass, err := cfgutil.ReadCookieFile(cookieFile)
		if err != nil {
			return "", "", errContext(err, "failed to read RPC cookie")
		}
		return user, pass, nil

	case cfg.RPCAuth != "":
		return cfgutil.ParseAuth(cfg.RPCAuth)

	case cfg.RPCPass != "":
		return cfg.RPCUser, cfg.RPCPass, nil
	}

	pass, err := prompt.Password("bitcoind RPC password")
	if err != nil {
		return "", "", errContext(err, "failed to read RPC password")
	}
	return cfg.RPCUser, pass, nil
}

// bitcoindConfig returns the configuration of the UTXO source.
func (cfg *config) bitcoindConfig(user, pass string) *chain.BitcoindConfig {
	return &chain.BitcoindConfig{
		ChainParams: cfg.activeNet.Params,
		Host:        cfg.RPCConnect,
		Wallet:      cfg.Wallet,
		User:        user,
		Pass:        pass,
		MinConf:     cfg.MinConf,
		MaxConf:     chain.DefaultMaxConf,
	}
}
