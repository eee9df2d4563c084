// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016-2018 Daniel Oaks
// Copyright (c) 2019-2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"slices"
)

// MaskSet holds a channel list (bans or exceptions) in the order the masks
// were first seen. Masks are compared exactly; each appears at most once.
// It is not safe for concurrent use; the owning Session serializes access.
type MaskSet struct {
	masks []string
	index map[string]int
}

func NewMaskSet() *MaskSet {
	return new(MaskSet)
}

// Add adds the given mask to this set, returning whether it was absent.
func (set *MaskSet) Add(mask string) (added bool) {
	if set.index == nil {
		set.index = make(map[string]int)
	}
	if _, present := set.index[mask]; present {
		return false
	}
	set.index[mask] = len(set.masks)
	set.masks = append(set.masks, mask)
	return true
}

// Remove removes the given mask from this set, returning whether it was present.
func (set *MaskSet) Remove(mask string) (removed bool) {
	pos, present := set.index[mask]
	if !present {
		return false
	}
	set.masks = slices.Delete(set.masks, pos, pos+1)
	delete(set.index, mask)
	for i := pos; i < len(set.masks); i++ {
		set.index[set.masks[i]] = i
	}
	return true
}

func (set *MaskSet) Has(mask string) bool {
	_, present := set.index[mask]
	return present
}

func (set *MaskSet) Length() int {
	if set == nil {
		return 0
	}
	return len(set.masks)
}

// Masks returns a copy of the masks in insertion order.
func (set *MaskSet) Masks() (result []string) {
	if set == nil || len(set.masks) == 0 {
		return nil
	}
	return slices.Clone(set.masks)
}
