// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netparams

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

// Params is used to group parameters for various networks such as the main
// network and test networks.
type Params struct {
	*chaincfg.Params

	// RPCServerPort is the default JSON-RPC port of bitcoind on this
	// network.
	RPCServerPort string
}

// MainNetParams contains parameters specific to running against bitcoind on
// the main network (wire.MainNet).
var MainNetParams = Params{
	Params:        &chaincfg.MainNetParams,
	RPCServerPort: "8332",
}

// TestNet3Params contains parameters specific to running against bitcoind on
// the test network (version 3) (wire.TestNet3).
var TestNet3Params = Params{
	Params:        &chaincfg.TestNet3Params,
	RPCServerPort: "18332",
}

// TestNet4Params contains parameters specific to running against bitcoind on
// the test network (version 4).
var TestNet4Params = Params{
	Params:        &TestNet4ChainParams,
	RPCServerPort: "48332",
}

// SigNetParams contains parameters specific to running against bitcoind on
// the default signet.
var SigNetParams = Params{
	Params:        &chaincfg.SigNetParams,
	RPCServerPort: "38332",
}

// RegressionNetParams contains parameters specific to running against
// bitcoind in regtest mode (wire.TestNet).
var RegressionNetParams = Params{
	Params:        &chaincfg.RegressionNetParams,
	RPCServerPort: "18443",
}

// ByName returns the parameters of the network with the given name.
func ByName(name string) (*Params, error) {
	for _, params := range []*Params{
		&MainNetParams, &TestNet3Params, &TestNet4Params, &SigNetParams,
		&RegressionNetParams,
	} {
		if params.Name == name {
			return params, nil
		}
	}

	return nil, fmt.Errorf("unknown network %q", name)
}
