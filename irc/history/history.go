// Copyright (c) 2018 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package history

import (
	"sync"
	"time"
)

// Item is one persisted chat line.
type Item struct {
	// Channel is the display name of the channel the line was sent to.
	Channel string    `json:"channel"`
	Time    time.Time `json:"time"`
	Nick    string    `json:"nick"`
	Message string    `json:"message"`
}

// Buffer is a fixed-size ring of the most recent lines of one channel.
type Buffer struct {
	sync.RWMutex

	items []Item
	// next write position
	head int
	// number of valid items, at most len(items)
	count int
}

func NewHistoryBuffer(size int) *Buffer {
	return &Buffer{items: make([]Item, size)}
}

// Enabled returns whether the buffer is storing lines
// (a zero-size buffer drops everything it sees)
func (list *Buffer) Enabled() bool {
	return len(list.items) != 0
}

// Add appends a line, overwriting the oldest one when full.
func (list *Buffer) Add(item Item) {
	if !list.Enabled() {
		return
	}

	if item.Time.IsZero() {
		item.Time = time.Now()
	}

	list.Lock()
	defer list.Unlock()

	list.items[list.head] = item
	list.head = (list.head + 1) % len(list.items)
	if list.count < len(list.items) {
		list.count++
	}
}

// Latest returns the `limit` most recent items newer than `cutoff`, oldest
// first. A limit of 0 means all of them; a zero cutoff means no cutoff.
func (list *Buffer) Latest(limit int, cutoff time.Time) (results []Item) {
	list.RLock()
	defer list.RUnlock()

	for i := 0; i < list.count; i++ {
		// walk backwards from the newest item
		pos := (list.head - 1 - i + 2*len(list.items)) % len(list.items)
		item := list.items[pos]
		if !cutoff.IsZero() && !item.Time.After(cutoff) {
			break
		}
		results = append(results, item)
		if limit != 0 && len(results) == limit {
			break
		}
	}

	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return
}

// Len returns the number of lines currently held.
func (list *Buffer) Len() int {
	list.RLock()
	defer list.RUnlock()
	return list.count
}
