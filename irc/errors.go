// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import "errors"

// Runtime Errors
var (
	errNoSuchChannel = errors.New("No such channel")
	errUnknownMode   = errors.New("Unknown mode")
)

// Parse Errors
var (
	errInvalidSource = errors.New("Invalid source")
)

// String Errors
var (
	errCouldNotStabilize = errors.New("Could not stabilize string while casefolding")
	errStringIsEmpty     = errors.New("String is empty")
)

// Config Errors
var (
	ErrLoggerFilenameMissing   = errors.New("Logging configuration specifies 'file' method but 'filename' is empty")
	ErrLoggerExcludeEmpty      = errors.New("Encountered logging type '-' with no type to exclude")
	ErrLoggerHasNoTypes        = errors.New("Logger has no types to log")
	ErrUnknownCasemapping      = errors.New("Unknown casemapping")
	ErrUnknownHistoryBackend   = errors.New("Unknown history backend")
	ErrHistoryPathMissing      = errors.New("History backend 'buntdb' requires a path")
	ErrHistoryMySQLIncomplete  = errors.New("History backend 'mysql' requires host and database")
	ErrHistoryPostgresMissing  = errors.New("History backend 'postgres' requires a history database")
	ErrNetworkServerMissing    = errors.New("Network configuration requires a server")
	ErrNetworkNickMissing      = errors.New("Network configuration requires a nick")
	ErrEventLogFilenameMissing = errors.New("Event log is enabled but 'filename' is empty")
)
