// Copyright (c) 2017 Euan Kemp
// Copyright (c) 2017 Daniel Oaks
// released under the MIT license

package irc

import (
	"errors"
	"fmt"
	"testing"
)

func TestCasefold(t *testing.T) {
	type foldTest struct {
		casemapping Casemapping
		name        string
		folded      string
	}
	testCases := []foldTest{
		{CasemappingNone, "#FOO", "#FOO"},
		{CasemappingNone, "Alice", "Alice"},
		{CasemappingASCII, "#FOO", "#foo"},
		{CasemappingASCII, "Nick[Away]^", "nick[away]^"},
		{CasemappingRFC1459, "Nick[Away]^", "nick{away}~"},
		{CasemappingRFC1459, "back\\slash", "back|slash"},
		{CasemappingRFC1459Strict, "Nick[Away]^", "nick{away}^"},
		{CasemappingPRECIS, "#FOO", "#foo"},
		{CasemappingPRECIS, "Alice", "alice"},
		{CasemappingPRECIS, "ÅNGSTRÖM", "ångström"},
		{CasemappingPRECIS, "#", "#"},
		// not a valid PRECIS username; folding falls back to the name itself
		{CasemappingPRECIS, "foo bar", "foo bar"},
		{CasemappingASCII, "", ""},
	}

	for i, tt := range testCases {
		t.Run(fmt.Sprintf("case %d: %s %s", i, tt.casemapping, tt.name), func(t *testing.T) {
			if res := tt.casemapping.Fold(tt.name); res != tt.folded {
				t.Errorf("expected [%v] to be [%v]", res, tt.folded)
			}
		})
	}
}

func TestCasefoldIsStable(t *testing.T) {
	for _, cm := range []Casemapping{CasemappingASCII, CasemappingRFC1459, CasemappingRFC1459Strict, CasemappingPRECIS} {
		for _, name := range []string{"#Chansync", "Nick[Away]^", "ÅNGSTRÖM"} {
			once := cm.Fold(name)
			if twice := cm.Fold(once); once != twice {
				t.Errorf("%s: folding [%s] is not idempotent: [%s] then [%s]", cm, name, once, twice)
			}
		}
	}
}

func TestParseCasemapping(t *testing.T) {
	for name, expected := range map[string]Casemapping{
		"":               CasemappingNone,
		"none":           CasemappingNone,
		"ASCII":          CasemappingASCII,
		"rfc1459":        CasemappingRFC1459,
		"rfc1459-strict": CasemappingRFC1459Strict,
		"precis":         CasemappingPRECIS,
		"rfc8265":        CasemappingPRECIS,
	} {
		cm, err := ParseCasemapping(name)
		if err != nil {
			t.Errorf("unexpected error parsing [%s]: %v", name, err)
		}
		if cm != expected {
			t.Errorf("expected [%s] to be %s, got %s", name, expected, cm)
		}
	}

	if _, err := ParseCasemapping("klingon"); !errors.Is(err, ErrUnknownCasemapping) {
		t.Errorf("unexpected error for an unknown casemapping: %v", err)
	}
}

func TestIsChannelName(t *testing.T) {
	for _, name := range []string{"#chansync", "&local", "+modeless", "!ABCDEchan"} {
		if !isChannelName(name) {
			t.Errorf("expected [%s] to be a channel name", name)
		}
	}
	for _, name := range []string{"", "alice", "*", "AUTH"} {
		if isChannelName(name) {
			t.Errorf("expected [%s] not to be a channel name", name)
		}
	}
}
