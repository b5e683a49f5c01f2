// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcunit

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// floatStringPrecision is the number of decimal places to use when
// converting a fee rate to a string.
const floatStringPrecision = 2

// ErrInvalidFeeRate is returned when a fee rate string cannot be parsed as a
// non-negative rational number of satoshis per vbyte.
var ErrInvalidFeeRate = errors.New("invalid fee rate")

// SatPerVByte represents a fee rate in sat/vbyte. The fee rate is encoded
// as a big.Rat to allow for fractional (sub-satoshi) fee rates.
type SatPerVByte struct {
	*big.Rat
}

// NewSatPerVByte creates a new fee rate in sat/vb. The given fee and vbytes
// are used to calculate the fee rate.
func NewSatPerVByte(fee btcutil.Amount, vb VByte) SatPerVByte {
	if vb == 0 {
		return SatPerVByte{big.NewRat(0, 1)}
	}

	return SatPerVByte{
		big.NewRat(int64(fee), safeUint64ToInt64(uint64(vb))),
	}
}

// SatPerVByteFromSats returns the whole-satoshi fee rate sats sat/vb.
func SatPerVByteFromSats(sats uint64) SatPerVByte {
	return SatPerVByte{new(big.Rat).SetInt64(safeUint64ToInt64(sats))}
}

// ParseSatPerVByte parses a fee rate given in sat/vb. Integers ("2"),
// decimals ("0.5") and fractions ("3/2") are accepted, optionally followed by
// a "sat/vb" suffix.
func ParseSatPerVByte(s string) (SatPerVByte, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "sat/vb"))

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return SatPerVByte{}, fmt.Errorf("%w: %q", ErrInvalidFeeRate, s)
	}
	if r.Sign() < 0 {
		return SatPerVByte{}, fmt.Errorf("%w: %q is negative",
			ErrInvalidFeeRate, s)
	}

	return SatPerVByte{r}, nil
}

// IsPositive returns true if the fee rate is set and greater than zero.
func (s SatPerVByte) IsPositive() bool {
	return s.Rat != nil && s.Sign() > 0
}

// FeeForVSizeRoundUp calculates the fee resulting from this fee rate and the
// given vsize in vbytes, rounding up to the nearest satoshi. Fees that do not
// fit an Amount saturate at math.MaxInt64.
func (s SatPerVByte) FeeForVSizeRoundUp(vbytes VByte) btcutil.Amount {
	feeRat := new(big.Rat).Mul(
		s.Rat, new(big.Rat).SetInt64(safeUint64ToInt64(uint64(vbytes))),
	)

	// (numerator + denominator - 1) / denominator
	num := new(big.Int).Set(feeRat.Num())
	den := feeRat.Denom()
	num.Add(num, den)
	num.Sub(num, big.NewInt(1))
	num.Div(num, den)

	if !num.IsInt64() {
		return btcutil.Amount(math.MaxInt64)
	}

	return btcutil.Amount(num.Int64())
}

// String returns a human-readable string of the fee rate.
func (s SatPerVByte) String() string {
	if s.Rat == nil {
		return "<nil> sat/vb"
	}

	return s.FloatString(floatStringPrecision) + " sat/vb"
}

// Equal returns true if the fee rate is equal to the other fee rate.
func (s SatPerVByte) Equal(other SatPerVByte) bool {
	return s.Cmp(other.Rat) == 0
}

// GreaterThan returns true if the fee rate is greater than the other fee rate.
func (s SatPerVByte) GreaterThan(other SatPerVByte) bool {
	return s.Cmp(other.Rat) > 0
}

// safeUint64ToInt64 converts a uint64 to an int64, capping at math.MaxInt64.
// In practice, the values being converted are transaction weights, sizes and
// fee rates, which never approach the cap.
func safeUint64ToInt64(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(u)
}
