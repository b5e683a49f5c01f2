// Copyright (c) 2015-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prompt

import "fmt"

func Password(_ string) (string, error) {
	return "", fmt.Errorf("prompt not supported in WebAssembly")
}
