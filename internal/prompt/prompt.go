// Copyright (c) 2015-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !js

package prompt

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"
)

// Password prompts on stderr for a secret read from the terminal without
// echo. The prompt is repeated until a non-empty value is entered.
func Password(prefix string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}

	for {
		fmt.Fprintf(os.Stderr, "%s: ", prefix)
		pass, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		fmt.Fprint(os.Stderr, "\n")

		pass = bytes.TrimSpace(pass)
		if len(pass) == 0 {
			continue
		}

		return string(pass), nil
	}
}
