// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dust

// GroupByAddress partitions outputs by their owning address. Outputs without
// an address are left out since they can never be selected by an address
// filter. Each group keeps the relative order of the passed slice, and the
// returned map is always freshly allocated.
func GroupByAddress(outputs []Output) map[string][]Output {
	groups := make(map[string][]Output)
	for _, output := range outputs {
		output.Address.WhenSome(func(addr string) {
			groups[addr] = append(groups[addr], output)
		})
	}

	return groups
}
