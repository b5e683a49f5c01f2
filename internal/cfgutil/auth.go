// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidAuth is returned for credentials not in user:pass form.
var ErrInvalidAuth = errors.New("credentials must be in the form user:pass")

// ParseAuth splits credentials of the form user:pass. The password may itself
// contain colons, the user may not be empty.
func ParseAuth(auth string) (user, pass string, err error) {
	user, pass, found := strings.Cut(strings.TrimSpace(auth), ":")
	if !found || user == "" {
		return "", "", ErrInvalidAuth
	}
	return user, pass, nil
}

// ReadCookieFile reads the RPC credentials bitcoind writes to its .cookie
// file.
func ReadCookieFile(path string) (user, pass string, err error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	user, pass, err = ParseAuth(string(contents))
	if err != nil {
		return "", "", fmt.Errorf("malformed cookie file %s: %w", path,
			err)
	}
	return user, pass, nil
}
