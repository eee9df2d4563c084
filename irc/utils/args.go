// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package utils

import (
	"errors"
	"fmt"
	"time"
)

const (
	IRCv3TimestampFormat = "2006-01-02T15:04:05.000Z"
)

var (
	ErrInvalidParams = errors.New("Invalid parameters")
)

type IncompatibleSchemaError struct {
	CurrentVersion  int
	RequiredVersion int
}

func (err *IncompatibleSchemaError) Error() string {
	return fmt.Sprintf("Database requires update. Expected schema v%d, got v%d", err.RequiredVersion, err.CurrentVersion)
}

// FormatTimestamp renders t in the IRCv3 server-time format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(IRCv3TimestampFormat)
}

// ParseTimestamp parses an IRCv3 server-time value, accepting plain RFC 3339 as well.
func ParseTimestamp(value string) (result time.Time, err error) {
	result, err = time.Parse(IRCv3TimestampFormat, value)
	if err != nil {
		result, err = time.Parse(time.RFC3339Nano, value)
	}
	if err == nil {
		result = result.UTC()
	}
	return
}
