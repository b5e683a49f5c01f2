// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dust

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressNotFound is matched by every AddressNotFoundError.
	ErrAddressNotFound = errors.New("no outputs owned by address")

	// ErrInvalidFeeRate is returned when classifying with a fee rate that
	// is not strictly positive.
	ErrInvalidFeeRate = errors.New("fee rate must be positive")
)

// AddressNotFoundError describes an address filter that matched none of the
// candidate outputs. This is distinct from an address that owns outputs none
// of which are dust, which yields an empty result instead.
type AddressNotFoundError struct {
	Address string
}

// Error implements the error interface.
func (e *AddressNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrAddressNotFound, e.Address)
}

// Unwrap returns ErrAddressNotFound so callers can use errors.Is.
func (e *AddressNotFoundError) Unwrap() error {
	return ErrAddressNotFound
}
