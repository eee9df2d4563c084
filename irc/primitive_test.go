// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"testing"
	"time"
)

func TestParsePrimitive(t *testing.T) {
	type parseTest struct {
		line        string
		source      string
		command     string
		params      []string
		trailing    string
		hasTrailing bool
	}
	testCases := []parseTest{
		{":alice!a@example.com PRIVMSG #a :hello there", "alice!a@example.com", "PRIVMSG", []string{"#a"}, "hello there", true},
		{"PING :irc.example.com", "", "PING", []string{}, "irc.example.com", true},
		{":irc.example.com CAP * LS", "irc.example.com", "CAP", []string{"*", "LS"}, "", false},
		{":alice!a@example.com JOIN #a", "alice!a@example.com", "JOIN", []string{"#a"}, "", false},
		{"@account=alice :alice!a@example.com AWAY :", "alice!a@example.com", "AWAY", []string{}, "", true},
		{":irc.example.com 001 fruitbot :Welcome to the network", "irc.example.com", "001", []string{"fruitbot"}, "Welcome to the network", true},
		{"privmsg #a ::)", "", "PRIVMSG", []string{"#a"}, ":)", true},
	}

	for _, tt := range testCases {
		p, err := ParsePrimitive(tt.line)
		if err != nil {
			t.Errorf("unexpected error parsing [%s]: %v", tt.line, err)
			continue
		}
		if p.Source != tt.source || p.Command != tt.command || p.Trailing != tt.trailing || p.HasTrailing != tt.hasTrailing {
			t.Errorf("unexpected parse of [%s]: %#v", tt.line, p)
		}
		if len(p.Params) != len(tt.params) {
			t.Errorf("unexpected params for [%s]: %#v", tt.line, p.Params)
			continue
		}
		for i := range tt.params {
			if p.Params[i] != tt.params[i] {
				t.Errorf("unexpected params for [%s]: %#v", tt.line, p.Params)
			}
		}
	}

	if _, err := ParsePrimitive(""); err == nil {
		t.Errorf("expected error parsing an empty line")
	}
}

func TestParsePrimitiveServerTime(t *testing.T) {
	p, err := ParsePrimitive("@time=2020-01-02T03:04:05.678Z :alice PRIVMSG #a :hi")
	if err != nil {
		t.Fatal(err)
	}
	expected := time.Date(2020, 1, 2, 3, 4, 5, 678000000, time.UTC)
	if !p.Time.Equal(expected) {
		t.Errorf("unexpected server-time %v", p.Time)
	}

	// an unparseable tag is ignored
	p, err = ParsePrimitive("@time=yesterday :alice PRIVMSG #a :hi")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Time.IsZero() {
		t.Errorf("unexpected server-time %v", p.Time)
	}
}

func TestPrimitiveParams(t *testing.T) {
	p := NewPrimitive("irc.example.com", "353", "fruitbot", "=", "#a", "alice bob")
	assertEqual(p.Params, []string{"fruitbot", "=", "#a"}, t)
	assertEqual(p.AllParams(), []string{"fruitbot", "=", "#a", "alice bob"}, t)
	assertEqual(p.ParamCount(), 4, t)
	assertEqual(p.Param(2), "#a", t)
	assertEqual(p.Param(3), "alice bob", t)
	assertEqual(p.Param(4), "", t)
	assertEqual(p.LastParam(), "alice bob", t)

	p = NewPrimitive("", "quit")
	assertEqual(p.Command, "QUIT", t)
	assertEqual(p.ParamCount(), 0, t)
	assertEqual(p.LastParam(), "", t)
	assertEqual(len(p.AllParams()), 0, t)

	p, _ = ParsePrimitive("CAP * LS")
	assertEqual(p.LastParam(), "LS", t)
}

func TestSenderNick(t *testing.T) {
	assertEqual(SenderNick("alice!a@example.com"), "alice", t)
	assertEqual(SenderNick("alice"), "alice", t)
	assertEqual(SenderNick("irc.example.com"), "irc.example.com", t)
	assertEqual(SenderNick(""), UnknownSender, t)

	assertEqual(nickFromName("alice!a@example.com"), "alice", t)
	assertEqual(nickFromName("bob"), "bob", t)
}
