// Copyright (c) 2015-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"github.com/funyug/dustbuster/pkg/btcunit"
)

// FeeRateFlag embeds a btcunit.SatPerVByte and implements the flags.Marshaler
// and Unmarshaler interfaces so it can be used as a config struct field.
type FeeRateFlag struct {
	btcunit.SatPerVByte
}

// NewFeeRateFlag creates a FeeRateFlag with a default rate in sat/vbyte.
func NewFeeRateFlag(defaultSats uint64) *FeeRateFlag {
	return &FeeRateFlag{btcunit.SatPerVByteFromSats(defaultSats)}
}

// MarshalFlag satisfies the flags.Marshaler interface.
func (f *FeeRateFlag) MarshalFlag() (string, error) {
	if f.Rat == nil {
		return "", nil
	}
	return f.RatString(), nil
}

// UnmarshalFlag satisfies the flags.Unmarshaler interface. The rate is left
// unchanged on error.
func (f *FeeRateFlag) UnmarshalFlag(value string) error {
	rate, err := btcunit.ParseSatPerVByte(value)
	if err != nil {
		return err
	}
	f.SatPerVByte = rate
	return nil
}

// ExplicitString is a string flag that remembers whether it was set through
// the flags package, so a value left at its default can be told apart from
// one explicitly set to the default.
type ExplicitString struct {
	Value         string
	explicitlySet bool
}

// NewExplicitString creates a string flag with the provided default value.
func NewExplicitString(defaultValue string) *ExplicitString {
	return &ExplicitString{Value: defaultValue}
}

// ExplicitlySet returns whether the flag was set by UnmarshalFlag.
func (e *ExplicitString) ExplicitlySet() bool { return e.explicitlySet }

// MarshalFlag satisfies the flags.Marshaler interface.
func (e *ExplicitString) MarshalFlag() (string, error) { return e.Value, nil }

// UnmarshalFlag satisfies the flags.Unmarshaler interface.
func (e *ExplicitString) UnmarshalFlag(value string) error {
	e.Value = value
	e.explicitlySet = true
	return nil
}
