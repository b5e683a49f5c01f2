// Copyright (c) 2015-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotTerminal is returned when a password is requested but standard input
// is not a terminal.
var ErrNotTerminal = errors.New("standard input is not a terminal")

// promptList prompts the user with the given prefix, list of valid responses,
// and default list entry to use.  The function will repeat the prompt to the
// user until they enter a valid response. Once the input is exhausted the
// default entry is returned, or io.EOF when there is none.
func promptList(reader *bufio.Reader, w io.Writer, prefix string,
	validResponses []string, defaultEntry string) (string, error) {

	// Setup the prompt according to the parameters.
	validStrings := strings.Join(validResponses, "/")
	var prompt string
	if defaultEntry != "" {
		prompt = fmt.Sprintf("%s (%s) [%s]: ", prefix, validStrings,
			defaultEntry)
	} else {
		prompt = fmt.Sprintf("%s (%s): ", prefix, validStrings)
	}

	// Prompt the user until one of the valid responses is given.
	for {
		fmt.Fprint(w, prompt)
		reply, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		atEOF := err == io.EOF

		reply = strings.TrimSpace(strings.ToLower(reply))
		if reply == "" {
			reply = defaultEntry
		}

		for _, validResponse := range validResponses {
			if reply == validResponse {
				return reply, nil
			}
		}

		// No more input will arrive, so fall back to the default.
		if atEOF {
			if defaultEntry == "" {
				return "", io.EOF
			}
			return defaultEntry, nil
		}
	}
}

// Confirm asks the user a yes/no question with the given prefix and returns
// whether they answered yes. An empty reply selects defaultYes. The question
// is repeated until a valid response is entered.
func Confirm(reader *bufio.Reader, w io.Writer, prefix string,
	defaultYes bool) (bool, error) {

	defaultEntry := "no"
	if defaultYes {
		defaultEntry = "yes"
	}

	valid := []string{"n", "no", "y", "yes"}
	response, err := promptList(reader, w, prefix, valid, defaultEntry)
	if err != nil {
		return false, err
	}
	return response == "yes" || response == "y", nil
}
