// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"strings"

	"golang.org/x/text/secure/precis"
)

// Casemapping selects how channel names and nicknames are folded into
// lookup keys. The zero value treats names as opaque strings.
type Casemapping uint

const (
	CasemappingNone Casemapping = iota
	CasemappingASCII
	CasemappingRFC1459
	CasemappingRFC1459Strict
	CasemappingPRECIS
)

var casemappingNames = map[string]Casemapping{
	"":               CasemappingNone,
	"none":           CasemappingNone,
	"ascii":          CasemappingASCII,
	"rfc1459":        CasemappingRFC1459,
	"rfc1459-strict": CasemappingRFC1459Strict,
	"precis":         CasemappingPRECIS,
	"rfc8265":        CasemappingPRECIS,
}

// ParseCasemapping converts a config name into a Casemapping.
func ParseCasemapping(name string) (Casemapping, error) {
	cm, ok := casemappingNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return CasemappingNone, fmt.Errorf("%w: %s", ErrUnknownCasemapping, name)
	}
	return cm, nil
}

func (cm Casemapping) String() string {
	switch cm {
	case CasemappingASCII:
		return "ascii"
	case CasemappingRFC1459:
		return "rfc1459"
	case CasemappingRFC1459Strict:
		return "rfc1459-strict"
	case CasemappingPRECIS:
		return "precis"
	default:
		return "none"
	}
}

// Fold returns the lookup key for a nickname or channel name.
// If folding fails, the name is used unchanged.
func (cm Casemapping) Fold(name string) string {
	folded, err := cm.fold(name)
	if err != nil {
		return name
	}
	return folded
}

func (cm Casemapping) fold(name string) (string, error) {
	if len(name) == 0 {
		return "", errStringIsEmpty
	}
	switch cm {
	case CasemappingASCII:
		return foldASCII(name, false, false), nil
	case CasemappingRFC1459:
		return foldASCII(name, true, true), nil
	case CasemappingRFC1459Strict:
		return foldASCII(name, true, false), nil
	case CasemappingPRECIS:
		// don't casefold the channel prefix
		start := 0
		if isChannelName(name) {
			start = 1
		}
		if start == len(name) {
			return name, nil
		}
		lowered, err := iterateFolding(precis.UsernameCaseMapped, name[start:])
		if err != nil {
			return "", err
		}
		return name[:start] + lowered, nil
	default:
		return name, nil
	}
}

func foldASCII(name string, brackets, caret bool) string {
	var buf strings.Builder
	buf.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'A' <= c && c <= 'Z':
			c += 'a' - 'A'
		case brackets && (c == '[' || c == ']' || c == '\\'):
			// [ ] \ fold to { } |
			c += '{' - '['
		case caret && c == '^':
			c = '~'
		}
		buf.WriteByte(c)
	}
	return buf.String()
}

// Each pass of PRECIS casefolding is a composition of idempotent operations,
// but not idempotent itself. Therefore, RFC 8265 says "do it four times and hope
// it converges" (lolwtf). Golang's PRECIS implementation has a "repeat" option,
// which provides this functionality, but unfortunately it's not exposed publicly.
func iterateFolding(profile *precis.Profile, oldStr string) (str string, err error) {
	str = oldStr
	// follow the stabilizing rules laid out here:
	// https://tools.ietf.org/html/draft-ietf-precis-7564bis-10.html#section-7
	for i := 0; i < 4; i++ {
		str, err = profile.CompareKey(str)
		if err != nil {
			return "", err
		}
		if oldStr == str {
			break
		}
		oldStr = str
	}
	if oldStr != str {
		return "", errCouldNotStabilize
	}
	return str, nil
}

// isChannelName reports whether a message target names a channel.
func isChannelName(target string) bool {
	if len(target) == 0 {
		return false
	}
	switch target[0] {
	case '#', '&', '+', '!':
		return true
	default:
		return false
	}
}
