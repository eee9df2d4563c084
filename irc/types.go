// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/ergochat/chansync/irc/modes"
	"github.com/ergochat/chansync/irc/utils"
)

// Phase is the registration state of the session.
type Phase uint

const (
	PhaseNotConnected Phase = iota
	PhaseAuthenticating
	PhaseConnected
	PhaseIdle
)

func (phase Phase) String() string {
	switch phase {
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseConnected:
		return "connected"
	case PhaseIdle:
		return "idle"
	default:
		return "not-connected"
	}
}

func (phase Phase) MarshalText() ([]byte, error) {
	return []byte(phase.String()), nil
}

// MemberStatus is the presence of a channel member, as far as we know it.
type MemberStatus uint

const (
	StatusUnknown MemberStatus = iota
	StatusOffline
	StatusAway
	StatusOnline
)

func (status MemberStatus) String() string {
	switch status {
	case StatusOffline:
		return "offline"
	case StatusAway:
		return "away"
	case StatusOnline:
		return "online"
	default:
		return "unknown"
	}
}

func (status MemberStatus) MarshalText() ([]byte, error) {
	return []byte(status.String()), nil
}

// Message is one line of channel chat.
type Message struct {
	Time   time.Time
	Author string
	Text   string
}

type messageJSON struct {
	TimeStamp string `json:"time_stamp"`
	UserName  string `json:"user_name"`
	Content   string `json:"content"`
}

func (message Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{
		TimeStamp: utils.FormatTimestamp(message.Time),
		UserName:  message.Author,
		Content:   message.Text,
	})
}

type memberData struct {
	nick   string
	modes  modes.ModeSet
	status MemberStatus
}

// MemberSet is the roster of a channel, keyed by casefolded nickname.
type MemberSet map[string]*memberData

// Add adds the given member to this set, returning whether it was absent.
func (members MemberSet) Add(key, nick string) (added bool) {
	if _, present := members[key]; present {
		return false
	}
	members[key] = &memberData{nick: nick}
	return true
}

// Remove removes the given member from this set.
func (members MemberSet) Remove(key string) (removed bool) {
	if _, present := members[key]; !present {
		return false
	}
	delete(members, key)
	return true
}

// Has returns true if the given member is in this set.
func (members MemberSet) Has(key string) bool {
	_, ok := members[key]
	return ok
}

// Nicks returns the display nicknames of the members, sorted.
func (members MemberSet) Nicks() (result []string) {
	result = make([]string, 0, len(members))
	for _, member := range members {
		result = append(result, member.nick)
	}
	slices.Sort(result)
	return
}

// ChannelSet is a set of casefolded channel names.
type ChannelSet = utils.HashSet[string]
