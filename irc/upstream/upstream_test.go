// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package upstream

import (
	"reflect"
	"testing"
	"time"

	"github.com/lrstanley/girc"

	"github.com/ergochat/chansync/irc"
)

func assertEqual(supplied, expected interface{}, t *testing.T) {
	if !reflect.DeepEqual(supplied, expected) {
		t.Errorf("expected %v but got %v", expected, supplied)
	}
}

func TestGircConfig(t *testing.T) {
	var network irc.NetworkConfig
	network.Server = "irc.example.com"
	network.Port = 6697
	network.TLS = true
	network.Nick = "fruitbot"
	network.Username = "fruit"
	network.Realname = "Fruit Bot"

	config := GircConfig(network)
	assertEqual(config.Server, "irc.example.com", t)
	assertEqual(config.Port, 6697, t)
	assertEqual(config.SSL, true, t)
	assertEqual(config.Nick, "fruitbot", t)
	assertEqual(config.User, "fruit", t)
	assertEqual(config.Name, "Fruit Bot", t)
	if config.SASL != nil {
		t.Errorf("unexpected SASL mechanism without an account")
	}

	network.SASL.Account = "fruit"
	network.SASL.Password = "hunter2"
	config = GircConfig(network)
	plain, ok := config.SASL.(*girc.SASLPlain)
	if !ok {
		t.Fatalf("unexpected SASL mechanism %#v", config.SASL)
	}
	assertEqual(plain.User, "fruit", t)
	assertEqual(plain.Pass, "hunter2", t)
}

func TestPrimitiveFromEvent(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	event := girc.Event{
		Source:    &girc.Source{Name: "alice", Ident: "a", Host: "example.com"},
		Command:   "PRIVMSG",
		Params:    []string{"#chansync", "hello there"},
		Timestamp: ts,
	}
	primitive, ok := PrimitiveFromEvent(event)
	if !ok {
		t.Fatal("unexpected rejection of PRIVMSG")
	}
	assertEqual(primitive.Source, "alice!a@example.com", t)
	assertEqual(primitive.Command, "PRIVMSG", t)
	assertEqual(primitive.Params, []string{"#chansync"}, t)
	assertEqual(primitive.Trailing, "hello there", t)
	assertEqual(primitive.HasTrailing, true, t)
	assertEqual(primitive.Time, ts, t)

	primitive, ok = PrimitiveFromEvent(girc.Event{Command: "PING", Params: []string{"token"}})
	if !ok {
		t.Fatal("unexpected rejection of PING")
	}
	assertEqual(primitive.Source, "", t)

	if _, ok := PrimitiveFromEvent(girc.Event{Command: girc.CONNECTED}); ok {
		t.Error("internal girc events must not become primitives")
	}
}

type recordingDispatcher struct {
	primitives []irc.Primitive
}

func (rd *recordingDispatcher) Dispatch(p irc.Primitive) {
	rd.primitives = append(rd.primitives, p)
}

func TestConvertedEventsDriveSession(t *testing.T) {
	var events []irc.Event
	session := irc.NewSession(nil, irc.SinkFunc(func(e irc.Event) { events = append(events, e) }), nil)
	for _, event := range []girc.Event{
		{Source: &girc.Source{Name: "irc.example.com"}, Command: "001", Params: []string{"fruitbot", "Welcome"}},
		{Source: &girc.Source{Name: "fruitbot", Ident: "f", Host: "h"}, Command: "JOIN", Params: []string{"#chansync"}},
	} {
		primitive, ok := PrimitiveFromEvent(event)
		if !ok {
			t.Fatalf("unexpected rejection of %s", event.Command)
		}
		session.Dispatch(primitive)
	}
	if len(events) != 2 {
		t.Fatalf("unexpected events %v", events)
	}
	assertEqual(events[0], irc.Welcome{Text: "Welcome"}, t)
	assertEqual(events[1], irc.NewUsers{Channel: "#chansync", Users: []string{"fruitbot"}}, t)

	var rd recordingDispatcher
	client := NewClient(irc.NetworkConfig{Server: "irc.example.com"}, &rd, nil)
	if client.dispatcher != &rd {
		t.Error("unexpected dispatcher")
	}
}
