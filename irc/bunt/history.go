// Copyright (c) 2022 Shivaram Lingamneni
// released under the MIT license

package bunt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/ergochat/chansync/irc/flock"
	"github.com/ergochat/chansync/irc/history"
	"github.com/ergochat/chansync/irc/logger"
)

// HistoryKey yields the buntdb key for an item of a channel's history.
// Keys of one channel sort by time, then by insertion order.
func HistoryKey(target string, nanotime int64, seq uint64) string {
	return fmt.Sprintf("history %s %020d %08d", target, nanotime, seq)
}

func historyPrefix(target string) string {
	return fmt.Sprintf("history %s ", target)
}

// buntdbHistory implements history.Database using a buntdb file,
// guarded by an exclusive lock so two processes can't share it.
type buntdbHistory struct {
	db         *buntdb.DB
	lock       flock.Flocker
	logger     *logger.Manager
	expireTime time.Duration

	seqMutex sync.Mutex
	seq      uint64
}

// OpenHistory opens (creating if necessary) the buntdb history file at path.
// Items older than expireTime are dropped by buntdb; zero keeps them forever.
func OpenHistory(path string, expireTime time.Duration, logger *logger.Manager) (result history.Database, err error) {
	lock, err := flock.TryAcquireFlock(path + ".lock")
	if err != nil {
		return nil, fmt.Errorf("could not lock history database %s: %w", path, err)
	}
	db, err := buntdb.Open(path)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("could not open history database %s: %w", path, err)
	}
	return &buntdbHistory{
		db:         db,
		lock:       lock,
		logger:     logger,
		expireTime: expireTime,
	}, nil
}

func (b *buntdbHistory) nextSeq() (seq uint64) {
	b.seqMutex.Lock()
	b.seq++
	seq = b.seq
	b.seqMutex.Unlock()
	return
}

func (b *buntdbHistory) Close() (err error) {
	err = b.db.Close()
	if unlockErr := b.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return
}

func (b *buntdbHistory) AddChannelItem(target string, item history.Item) (err error) {
	value, err := history.MarshalItem(&item)
	if err != nil {
		return
	}
	key := HistoryKey(target, item.Time.UnixNano(), b.nextSeq())
	var setOptions *buntdb.SetOptions
	if b.expireTime > 0 {
		ttl := b.expireTime - time.Since(item.Time)
		if ttl <= 0 {
			// already expired
			return nil
		}
		setOptions = &buntdb.SetOptions{Expires: true, TTL: ttl}
	}
	return b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(value), setOptions)
		return err
	})
}

func (b *buntdbHistory) Latest(target string, limit int) (result []history.Item, err error) {
	prefix := historyPrefix(target)
	err = b.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendGreaterOrEqual("", prefix, func(key, value string) bool {
			if !strings.HasPrefix(key, prefix) {
				return false
			}
			var item history.Item
			if err := history.UnmarshalItem([]byte(value), &item); err == nil {
				result = append(result, item)
			} else {
				b.logger.Error("history", "invalid history item", key, err.Error())
			}
			return true
		})
	})
	if 0 < limit && limit < len(result) {
		result = result[len(result)-limit:]
	}
	return
}
