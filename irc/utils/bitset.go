// Copyright (c) 2018 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package utils

// Library functions for small constant-sized bitsets, typically arrays of uint32.
// See modes.ModeSet; the array has to be converted to a slice to use these functions.
// None of these synchronize: the owner of the bitset is responsible for locking.

// BitsetGet returns whether a given bit of the bitset is set.
func BitsetGet(set []uint32, position uint) bool {
	idx := position / 32
	bit := position % 32
	if int(idx) >= len(set) {
		return false
	}
	return (set[idx] & (1 << bit)) != 0
}

// BitsetSet sets a given bit of the bitset to 0 or 1, returning whether it changed.
func BitsetSet(set []uint32, position uint, on bool) (changed bool) {
	idx := position / 32
	bit := position % 32
	if int(idx) >= len(set) {
		return false
	}
	current := set[idx]
	var desired uint32
	if on {
		desired = current | (1 << bit)
	} else {
		desired = current &^ (1 << bit)
	}
	set[idx] = desired
	return current != desired
}

// BitsetUnion modifies `set` to be the union of `set` and `other`.
func BitsetUnion(set []uint32, other []uint32) {
	for i := 0; i < len(set) && i < len(other); i++ {
		set[i] |= other[i]
	}
}
