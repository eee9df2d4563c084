// Copyright (c) 2022 Shivaram Lingamneni
// released under the MIT license

package bunt

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ergochat/chansync/irc/history"
)

func TestHistoryKeyOrdering(t *testing.T) {
	early := HistoryKey("#chansync", 5, 2)
	late := HistoryKey("#chansync", 40, 1)
	if !(early < late) {
		t.Errorf("keys must sort by time: %s >= %s", early, late)
	}
	if HistoryKey("#chansync", 5, 1) >= early {
		t.Errorf("keys with equal times must sort by sequence")
	}
}

func TestBuntdbHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := OpenHistory(path, 0, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := OpenHistory(path, 0, nil); err == nil {
		t.Errorf("a second open of the same file must fail while the lock is held")
	}

	base := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, nick := range []string{"alice", "bob", "carol"} {
		err = db.AddChannelItem("#chansync", history.Item{
			Channel: "#ChanSync",
			Time:    base.Add(time.Duration(i) * time.Minute),
			Nick:    nick,
			Message: "hello from " + nick,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	db.AddChannelItem("#chansync2", history.Item{Channel: "#chansync2", Time: base, Nick: "dave"})

	items, err := db.Latest("#chansync", 2)
	if err != nil {
		t.Fatal(err)
	}
	var nicks []string
	for _, item := range items {
		nicks = append(nicks, item.Nick)
	}
	if !reflect.DeepEqual(nicks, []string{"bob", "carol"}) {
		t.Errorf("unexpected latest items: %v", nicks)
	}
	if items[1].Message != "hello from carol" || items[1].Channel != "#ChanSync" {
		t.Errorf("unexpected item contents: %#v", items[1])
	}

	items, _ = db.Latest("#chansync", 0)
	if len(items) != 3 {
		t.Errorf("unexpected number of items: %d", len(items))
	}

	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// reopening sees the persisted data
	db, err = OpenHistory(path, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	items, _ = db.Latest("#chansync2", 0)
	if len(items) != 1 || items[0].Nick != "dave" {
		t.Errorf("unexpected items after reopening: %v", items)
	}
}

func TestBuntdbHistoryExpiry(t *testing.T) {
	db, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"), time.Hour, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	db.AddChannelItem("#chansync", history.Item{Time: time.Now().Add(-2 * time.Hour), Nick: "stale"})
	db.AddChannelItem("#chansync", history.Item{Time: time.Now(), Nick: "fresh"})
	items, _ := db.Latest("#chansync", 0)
	if len(items) != 1 || items[0].Nick != "fresh" {
		t.Errorf("unexpected items: %v", items)
	}
}
