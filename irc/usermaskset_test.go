// Copyright (c) 2019 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"reflect"
	"testing"
)

func TestMaskSet(t *testing.T) {
	set := NewMaskSet()

	if !set.Add("*!*@evil.example") {
		t.Errorf("first add should succeed")
	}
	if set.Add("*!*@evil.example") {
		t.Errorf("duplicate add should be a no-op")
	}
	set.Add("troll!*@*")
	set.Add("*!*@spam.example")

	if set.Length() != 3 {
		t.Errorf("unexpected length: %d", set.Length())
	}

	if set.Remove("nobody!*@*") {
		t.Errorf("removing an absent mask should report false")
	}
	// exact matching only
	if set.Remove("*!*@EVIL.example") {
		t.Errorf("removal must match the exact mask")
	}
	if !set.Remove("troll!*@*") {
		t.Errorf("removing a present mask should report true")
	}

	expected := []string{"*!*@evil.example", "*!*@spam.example"}
	if masks := set.Masks(); !reflect.DeepEqual(masks, expected) {
		t.Errorf("unexpected masks: %v", masks)
	}
	if !set.Has("*!*@spam.example") || set.Has("troll!*@*") {
		t.Errorf("unexpected membership results")
	}

	// the index must still be consistent after a removal from the middle
	if !set.Remove("*!*@spam.example") || set.Length() != 1 {
		t.Errorf("unexpected state after second removal: %v", set.Masks())
	}
}

func TestMaskSetNil(t *testing.T) {
	var set *MaskSet
	if set.Length() != 0 || set.Masks() != nil {
		t.Errorf("nil MaskSet should be empty")
	}
}
