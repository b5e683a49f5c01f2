package dust

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/funyug/dustbuster/pkg/btcunit"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"
)

var chainParams = chaincfg.RegressionNetParams

// testAddr is an address together with the script paying to it.
type testAddr struct {
	addr     string
	pkScript []byte
}

func newP2WPKH(t *testing.T) testAddr {
	t.Helper()

	privKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	addr, err := btcutil.NewAddressWitnessPubKeyHash(
		btcutil.Hash160(privKey.PubKey().SerializeCompressed()),
		&chainParams,
	)
	require.NoError(t, err)

	pkScript, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)

	return testAddr{addr: addr.EncodeAddress(), pkScript: pkScript}
}

func newP2PKH(t *testing.T) testAddr {
	t.Helper()

	privKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	addr, err := btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(privKey.PubKey().SerializeCompressed()),
		&chainParams,
	)
	require.NoError(t, err)

	pkScript, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)

	return testAddr{addr: addr.EncodeAddress(), pkScript: pkScript}
}

func newOutput(txByte byte, vout uint32, amount btcutil.Amount,
	owner testAddr) Output {

	return Output{
		OutPoint: wire.OutPoint{
			Hash:  chainhash.Hash{txByte},
			Index: vout,
		},
		Amount:   amount,
		PkScript: owner.pkScript,
		Address:  fn.Some(owner.addr),
	}
}

var oneSatPerVByte = btcunit.SatPerVByteFromSats(1)

// TestClassifySingleWitnessOutput checks that an output below the P2WPKH
// spending cost is reported as dust.
func TestClassifySingleWitnessOutput(t *testing.T) {
	t.Parallel()

	owner := newP2WPKH(t)
	output := newOutput(1, 0, 50, owner)

	require.Equal(t, btcutil.Amount(68),
		Threshold(owner.pkScript, oneSatPerVByte))

	dustOutputs, err := Classify(
		[]Output{output}, oneSatPerVByte, fn.None[string](),
	)
	require.NoError(t, err)
	require.Equal(t, []Output{output}, dustOutputs)
}

// TestClassifyFiltersByThreshold checks that only outputs below the
// threshold are returned.
func TestClassifyFiltersByThreshold(t *testing.T) {
	t.Parallel()

	owner := newP2WPKH(t)
	small := newOutput(1, 0, 50, owner)
	large := newOutput(2, 0, 1000, owner)

	dustOutputs, err := Classify(
		[]Output{small, large}, oneSatPerVByte, fn.None[string](),
	)
	require.NoError(t, err)
	require.Equal(t, []Output{small}, dustOutputs)
}

// TestClassifyBoundary checks that an output worth exactly the threshold is
// not dust while one satoshi less is.
func TestClassifyBoundary(t *testing.T) {
	t.Parallel()

	owner := newP2PKH(t)
	threshold := Threshold(owner.pkScript, oneSatPerVByte)
	require.Equal(t, btcutil.Amount(148), threshold)

	atThreshold := newOutput(1, 0, threshold, owner)
	belowThreshold := newOutput(1, 1, threshold-1, owner)

	require.False(t, IsDust(atThreshold, oneSatPerVByte))
	require.True(t, IsDust(belowThreshold, oneSatPerVByte))
}

// TestClassifyUnknownAddress checks that filtering by an address owning no
// outputs is an error rather than an empty result.
func TestClassifyUnknownAddress(t *testing.T) {
	t.Parallel()

	owner := newP2WPKH(t)
	stranger := newP2WPKH(t)
	outputs := []Output{newOutput(1, 0, 50, owner)}

	_, err := Classify(outputs, oneSatPerVByte, fn.Some(stranger.addr))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAddressNotFound))

	var notFound *AddressNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, stranger.addr, notFound.Address)
}

// TestClassifyAddressWithoutDust checks that an address owning only
// economical outputs yields an empty, successful result.
func TestClassifyAddressWithoutDust(t *testing.T) {
	t.Parallel()

	owner := newP2WPKH(t)
	outputs := []Output{newOutput(1, 0, 10_000, owner)}

	dustOutputs, err := Classify(outputs, oneSatPerVByte, fn.Some(owner.addr))
	require.NoError(t, err)
	require.Empty(t, dustOutputs)
}

// TestClassifyAddressSubset checks that an address filtered result only ever
// contains outputs from that address's group.
func TestClassifyAddressSubset(t *testing.T) {
	t.Parallel()

	alice := newP2WPKH(t)
	bob := newP2PKH(t)

	outputs := []Output{
		newOutput(1, 0, 10, alice),
		newOutput(2, 0, 20, bob),
		newOutput(3, 0, 30, alice),
		newOutput(4, 0, 5000, alice),
		newOutput(5, 0, 40, bob),
	}

	dustOutputs, err := Classify(outputs, oneSatPerVByte, fn.Some(bob.addr))
	require.NoError(t, err)
	require.Equal(t, []Output{outputs[1], outputs[4]}, dustOutputs)

	group := GroupByAddress(outputs)[bob.addr]
	for _, output := range dustOutputs {
		require.Contains(t, group, output)
	}
}

// TestClassifyIdempotent checks that classifying the same input twice gives
// the same ordered result and leaves the input untouched.
func TestClassifyIdempotent(t *testing.T) {
	t.Parallel()

	owner := newP2WPKH(t)
	outputs := []Output{
		newOutput(3, 0, 30, owner),
		newOutput(1, 0, 10, owner),
		newOutput(2, 0, 20, owner),
	}
	original := append([]Output(nil), outputs...)

	first, err := Classify(outputs, oneSatPerVByte, fn.None[string]())
	require.NoError(t, err)
	second, err := Classify(outputs, oneSatPerVByte, fn.None[string]())
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, original, first)
	require.Equal(t, original, outputs)
}

// TestClassifyInvalidFeeRate checks that a zero fee rate is rejected.
func TestClassifyInvalidFeeRate(t *testing.T) {
	t.Parallel()

	_, err := Classify(nil, btcunit.SatPerVByteFromSats(0), fn.None[string]())
	require.ErrorIs(t, err, ErrInvalidFeeRate)

	_, err = Classify(nil, btcunit.SatPerVByte{}, fn.None[string]())
	require.ErrorIs(t, err, ErrInvalidFeeRate)
}

// TestClassifyIncludesIffBelowThreshold checks the classification rule over
// a range of amounts, script types and fee rates.
func TestClassifyIncludesIffBelowThreshold(t *testing.T) {
	t.Parallel()

	owners := []testAddr{newP2WPKH(t), newP2PKH(t)}
	nonStandard := testAddr{pkScript: []byte{txscript.OP_TRUE}}
	nullData := testAddr{pkScript: []byte{txscript.OP_RETURN}}

	var outputs []Output
	for i, amount := range []btcutil.Amount{0, 1, 57, 67, 68, 69, 147,
		148, 149, 500, 1000} {

		for j, owner := range append(owners, nonStandard, nullData) {
			output := newOutput(byte(i), uint32(j), amount, owner)
			if owner.addr == "" {
				output.Address = fn.None[string]()
			}
			outputs = append(outputs, output)
		}
	}

	for _, sats := range []uint64{1, 2, 5, 25} {
		rate := btcunit.SatPerVByteFromSats(sats)

		dustOutputs, err := Classify(outputs, rate, fn.None[string]())
		require.NoError(t, err)

		var want []Output
		for _, output := range outputs {
			if output.Amount < Threshold(output.PkScript, rate) {
				want = append(want, output)
			}
		}
		require.ElementsMatch(t, want, dustOutputs)
	}
}

// TestThresholdMonotonic checks that raising the fee rate never lowers the
// threshold.
func TestThresholdMonotonic(t *testing.T) {
	t.Parallel()

	scripts := [][]byte{
		newP2WPKH(t).pkScript,
		newP2PKH(t).pkScript,
		{txscript.OP_TRUE},
		append([]byte{txscript.OP_1, txscript.OP_DATA_32},
			bytes.Repeat([]byte{1}, 32)...),
	}

	for _, pkScript := range scripts {
		prev := btcutil.Amount(0)
		for tenths := int64(1); tenths <= 200; tenths++ {
			rate := btcunit.NewSatPerVByte(
				btcutil.Amount(tenths), btcunit.NewVByte(10),
			)
			threshold := Threshold(pkScript, rate)
			require.GreaterOrEqual(t, threshold, prev)
			prev = threshold
		}
	}
}

// TestThresholdExtremeRates checks that the threshold keeps growing, and
// outputs keep being classified as dust, at rates whose fee no longer fits an
// Amount.
func TestThresholdExtremeRates(t *testing.T) {
	t.Parallel()

	owner := newP2WPKH(t)
	output := newOutput(1, 0, 1000, owner)

	testCases := []struct {
		name  string
		shift uint
	}{
		{name: "2^10 sat/vb", shift: 10},
		{name: "2^40 sat/vb", shift: 40},
		{name: "2^56 sat/vb", shift: 56},
		{name: "2^58 sat/vb", shift: 58},
		{name: "2^62 sat/vb", shift: 62},
		{name: "2^70 sat/vb", shift: 70},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rate := btcunit.SatPerVByte{
				Rat: new(big.Rat).SetInt(
					new(big.Int).Lsh(big.NewInt(1), tc.shift),
				),
			}

			threshold := Threshold(owner.pkScript, rate)
			require.Greater(t, threshold, output.Amount)
			require.True(t, IsDust(output, rate))

			dustOutputs, err := Classify(
				[]Output{output}, rate, fn.None[string](),
			)
			require.NoError(t, err)
			require.Len(t, dustOutputs, 1)
		})
	}

	prev := btcutil.Amount(0)
	for shift := uint(0); shift <= 80; shift++ {
		rate := btcunit.SatPerVByte{
			Rat: new(big.Rat).SetInt(
				new(big.Int).Lsh(big.NewInt(1), shift),
			),
		}

		threshold := Threshold(owner.pkScript, rate)
		require.GreaterOrEqual(t, threshold, prev, "rate 2^%d", shift)
		prev = threshold
	}
}

// TestNullDataNeverDust checks that unspendable outputs are never selected.
func TestNullDataNeverDust(t *testing.T) {
	t.Parallel()

	output := Output{PkScript: []byte{txscript.OP_RETURN}}
	require.Equal(t, btcutil.Amount(0),
		Threshold(output.PkScript, btcunit.SatPerVByteFromSats(1000)))
	require.False(t, IsDust(output, btcunit.SatPerVByteFromSats(1000)))
}
