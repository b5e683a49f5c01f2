// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dustbuster

import (
	"errors"
	"fmt"
)

// ErrNoDust is returned by CreatePsbt when no output qualifies as dust, so
// there is nothing to consolidate.
var ErrNoDust = errors.New("no dust outputs found")

// UpstreamError describes a failure of the UTXO source to supply the wallet
// outputs.
type UpstreamError struct {
	Err error
}

// Error satisfies the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("unable to fetch unspent outputs: %v", e.Err)
}

// Unwrap returns the underlying source error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}
