// Copyright (c) 2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

// Package eventlog writes session events to a file as one growing JSON array:
// the first entry is prefixed with "[\n", later ones with ",\n". The closing
// bracket is never written, so the file can be appended to across runs.
package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ergochat/chansync/irc"
	"github.com/ergochat/chansync/irc/logger"
)

var (
	errorEntry = []byte(`{"type": "error", "args": ["Unable to convert event to json"]}`)
)

// Writer appends JSON entries to an event log file.
type Writer struct {
	sync.Mutex // tier 1

	file    *os.File
	written int64
	logger  *logger.Manager
}

type startedEntry struct {
	Type string  `json:"type"`
	Args []int64 `json:"args"`
}

// Open opens (or creates) the event log at filename for appending.
func Open(filename string, log *logger.Manager) (*Writer, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("Could not open event log %s [%w]", filename, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	return &Writer{
		file:    file,
		written: info.Size(),
		logger:  log,
	}, nil
}

// WriteStarted records the start of a run.
func (w *Writer) WriteStarted(start time.Time) error {
	entry, err := json.Marshal(startedEntry{Type: "started", Args: []int64{start.Unix()}})
	if err != nil {
		return err
	}
	return w.WriteEntry(entry)
}

// WriteEntry appends one already-serialized JSON value.
func (w *Writer) WriteEntry(entry []byte) error {
	w.Lock()
	defer w.Unlock()

	prefix := ",\n"
	if w.written == 0 {
		prefix = "[\n"
	}
	line := make([]byte, 0, len(prefix)+len(entry))
	line = append(line, prefix...)
	line = append(line, entry...)
	n, err := w.file.Write(line)
	w.written += int64(n)
	return err
}

// Emit serializes an event and appends it; a failed serialization is
// recorded as an error entry.
func (w *Writer) Emit(event irc.Event) {
	entry, err := irc.MarshalEvent(event)
	if err != nil {
		w.logger.Error("eventlog", "could not serialize event", event.Type(), err.Error())
		entry = errorEntry
	}
	if err := w.WriteEntry(entry); err != nil {
		w.logger.Error("eventlog", "could not write event", err.Error())
	}
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	w.Lock()
	defer w.Unlock()
	return w.file.Close()
}
