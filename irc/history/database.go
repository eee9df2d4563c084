// Copyright (c) 2025 Shivaram Lingamneni
// released under the MIT license

package history

import (
	"io"
	"sync"
	"time"
)

// Database is an interface for history storage backends.
type Database interface {
	// Close closes the database connection and releases resources.
	io.Closer

	// AddChannelItem adds a history item for a channel.
	// target is the casefolded channel name.
	AddChannelItem(target string, item Item) error

	// Latest returns up to `limit` of the most recent items for the
	// casefolded channel name `target`, oldest first. A limit of 0 means no limit.
	Latest(target string, limit int) ([]Item, error)
}

type noopDatabase struct{}

// NewNoopDatabase returns a Database implementation that does nothing.
func NewNoopDatabase() Database {
	return noopDatabase{}
}

func (noopDatabase) Close() error {
	return nil
}

func (noopDatabase) AddChannelItem(target string, item Item) error {
	return nil
}

func (noopDatabase) Latest(target string, limit int) ([]Item, error) {
	return nil, nil
}

// memoryDatabase keeps a ring buffer per channel; nothing survives a restart.
type memoryDatabase struct {
	sync.Mutex
	size       int
	expireTime time.Duration
	buffers    map[string]*Buffer
}

// NewMemoryDatabase returns a Database that keeps the last `size` items of
// each channel in memory. Items older than expireTime are not returned;
// 0 keeps them until they are overwritten.
func NewMemoryDatabase(size int, expireTime time.Duration) Database {
	return &memoryDatabase{
		size:       size,
		expireTime: expireTime,
		buffers:    make(map[string]*Buffer),
	}
}

func (db *memoryDatabase) getBuffer(target string, create bool) *Buffer {
	db.Lock()
	defer db.Unlock()
	buffer, ok := db.buffers[target]
	if !ok && create {
		buffer = NewHistoryBuffer(db.size)
		db.buffers[target] = buffer
	}
	return buffer
}

func (db *memoryDatabase) Close() error {
	return nil
}

func (db *memoryDatabase) AddChannelItem(target string, item Item) error {
	db.getBuffer(target, true).Add(item)
	return nil
}

func (db *memoryDatabase) Latest(target string, limit int) ([]Item, error) {
	buffer := db.getBuffer(target, false)
	if buffer == nil {
		return nil, nil
	}
	var cutoff time.Time
	if db.expireTime != 0 {
		cutoff = time.Now().Add(-db.expireTime)
	}
	return buffer.Latest(limit, cutoff), nil
}
