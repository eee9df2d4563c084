// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package utils

import (
	"cmp"
	"slices"
)

type empty struct{}

type HashSet[T comparable] map[T]empty

func (s HashSet[T]) Has(elem T) bool {
	_, ok := s[elem]
	return ok
}

func (s HashSet[T]) Add(elem T) {
	s[elem] = empty{}
}

func (s HashSet[T]) Remove(elem T) {
	delete(s, elem)
}

// Sorted returns the elements of the set in ascending order.
func Sorted[T cmp.Ordered](s HashSet[T]) (result []T) {
	result = make([]T, 0, len(s))
	for elem := range s {
		result = append(result, elem)
	}
	slices.Sort(result)
	return
}
