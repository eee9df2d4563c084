// Copyright (c) 2019 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package utils

import (
	"reflect"
	"testing"
	"time"
)

func assertEqual(supplied, expected interface{}, t *testing.T) {
	if !reflect.DeepEqual(supplied, expected) {
		t.Errorf("expected %v but got %v", expected, supplied)
	}
}

func TestTimestamps(t *testing.T) {
	ts := time.Date(2019, 3, 1, 12, 30, 5, 250*int(time.Millisecond), time.UTC)
	assertEqual(FormatTimestamp(ts), "2019-03-01T12:30:05.250Z", t)

	parsed, err := ParseTimestamp("2019-03-01T12:30:05.250Z")
	assertEqual(err, nil, t)
	assertEqual(parsed.Equal(ts), true, t)

	parsed, err = ParseTimestamp("2019-03-01T14:30:05.25+02:00")
	assertEqual(err, nil, t)
	assertEqual(parsed.Equal(ts), true, t)

	_, err = ParseTimestamp("yesterday")
	if err == nil {
		t.Errorf("expected an error parsing a bogus timestamp")
	}
}
