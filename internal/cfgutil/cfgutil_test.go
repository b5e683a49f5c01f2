// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funyug/dustbuster/pkg/btcunit"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr    string
		want    string
		wantErr bool
	}{
		{addr: "localhost", want: "localhost:8332"},
		{addr: "127.0.0.1:48332", want: "127.0.0.1:48332"},
		{addr: "::1", want: "[::1]:8332"},
		{addr: "[::1]:18443", want: "[::1]:18443"},
		{addr: "[::1", wantErr: true},
	}

	for _, test := range tests {
		got, err := NormalizeAddress(test.addr, "8332")
		if test.wantErr {
			require.Error(t, err, test.addr)
			continue
		}
		require.NoError(t, err, test.addr)
		require.Equal(t, test.want, got)
	}
}

func TestFeeRateFlag(t *testing.T) {
	t.Parallel()

	flag := NewFeeRateFlag(1)
	value, err := flag.MarshalFlag()
	require.NoError(t, err)
	require.Equal(t, "1", value)

	require.NoError(t, flag.UnmarshalFlag("0.5"))
	require.True(t, flag.Equal(btcunit.NewSatPerVByte(1, 2)))

	value, err = flag.MarshalFlag()
	require.NoError(t, err)
	require.Equal(t, "1/2", value)

	require.Error(t, flag.UnmarshalFlag("cheap"))
	require.Error(t, flag.UnmarshalFlag("-3"))
	require.True(t, flag.Equal(btcunit.NewSatPerVByte(1, 2)))
}

func TestExplicitString(t *testing.T) {
	t.Parallel()

	s := NewExplicitString("default")
	require.False(t, s.ExplicitlySet())

	require.NoError(t, s.UnmarshalFlag("default"))
	require.True(t, s.ExplicitlySet())
	require.Equal(t, "default", s.Value)
}

func TestParseAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		auth    string
		user    string
		pass    string
		wantErr bool
	}{
		{auth: "alice:secret", user: "alice", pass: "secret"},
		{auth: "__cookie__:a:b\n", user: "__cookie__", pass: "a:b"},
		{auth: "alice:", user: "alice", pass: ""},
		{auth: "alice", wantErr: true},
		{auth: ":secret", wantErr: true},
		{auth: "", wantErr: true},
	}

	for _, test := range tests {
		user, pass, err := ParseAuth(test.auth)
		if test.wantErr {
			require.ErrorIs(t, err, ErrInvalidAuth, test.auth)
			continue
		}
		require.NoError(t, err, test.auth)
		require.Equal(t, test.user, user)
		require.Equal(t, test.pass, pass)
	}
}

func TestReadCookieFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cookie := filepath.Join(dir, ".cookie")
	require.NoError(t, os.WriteFile(
		cookie, []byte("__cookie__:0123abcd"), 0600,
	))

	exists, err := FileExists(cookie)
	require.NoError(t, err)
	require.True(t, exists)

	user, pass, err := ReadCookieFile(cookie)
	require.NoError(t, err)
	require.Equal(t, "__cookie__", user)
	require.Equal(t, "0123abcd", pass)

	missing := filepath.Join(dir, "missing")
	exists, err = FileExists(missing)
	require.NoError(t, err)
	require.False(t, exists)

	_, _, err = ReadCookieFile(missing)
	require.Error(t, err)

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0600))
	_, _, err = ReadCookieFile(bad)
	require.ErrorIs(t, err, ErrInvalidAuth)
}
