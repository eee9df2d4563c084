// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016- Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"cmp"
	"slices"

	"github.com/ergochat/chansync/irc/modes"
)

// Channel is our view of one channel: its topic, roster, modes and chat.
// Channels are never destroyed; leaving one only clears its roster.
// All access goes through the owning Session, which holds the locks.
type Channel struct {
	name           string
	nameCasefolded string
	topic          string
	members        MemberSet
	flags          modes.ModeSet
	lists          map[modes.Mode]*MaskSet
	messages       []Message
	namesPending   bool
	casemapping    Casemapping
}

// NewChannel creates an empty channel record.
func NewChannel(name string, casemapping Casemapping) *Channel {
	return &Channel{
		name:           name,
		nameCasefolded: casemapping.Fold(name),
		members:        make(MemberSet),
		lists: map[modes.Mode]*MaskSet{
			modes.BanMask:    NewMaskSet(),
			modes.ExceptMask: NewMaskSet(),
		},
		casemapping: casemapping,
	}
}

func (channel *Channel) setTopic(topic string) (changed bool) {
	changed = channel.topic != topic
	channel.topic = topic
	return
}

// Nicks returns the display nicknames of the current members, sorted.
func (channel *Channel) Nicks() []string {
	return channel.members.Nicks()
}

func (channel *Channel) hasMember(nick string) bool {
	return channel.members.Has(channel.casemapping.Fold(nick))
}

// addMember inserts nick with the given roles; an existing member keeps
// their roles and gains the new ones. Roles we don't track are dropped.
func (channel *Channel) addMember(nick string, roles modes.Modes) (added bool) {
	key := channel.casemapping.Fold(nick)
	added = channel.members.Add(key, nick)
	member := channel.members[key]
	for _, mode := range roles {
		if modes.KindOf(mode) == modes.KindPrivilege {
			member.modes.SetMode(mode, true)
		}
	}
	return
}

func (channel *Channel) removeMember(nick string) (removed bool) {
	return channel.members.Remove(channel.casemapping.Fold(nick))
}

// renameMember moves oldNick's entry to newNick. If newNick is already in the
// roster, the two entries are merged and the roles of both are kept.
func (channel *Channel) renameMember(oldNick, newNick string) (renamed bool) {
	oldKey := channel.casemapping.Fold(oldNick)
	newKey := channel.casemapping.Fold(newNick)
	member, present := channel.members[oldKey]
	if !present {
		return false
	}
	delete(channel.members, oldKey)
	if existing, ok := channel.members[newKey]; ok {
		existing.modes.Union(&member.modes)
		existing.nick = newNick
		return true
	}
	member.nick = newNick
	channel.members[newKey] = member
	return true
}

// clearMembers empties the roster, returning the casefolded nicks that were in it.
func (channel *Channel) clearMembers() (departed []string) {
	departed = make([]string, 0, len(channel.members))
	for key := range channel.members {
		departed = append(departed, key)
	}
	channel.members = make(MemberSet)
	return
}

func (channel *Channel) setMemberStatus(nick string, status MemberStatus) (changed bool) {
	member, ok := channel.members[channel.casemapping.Fold(nick)]
	if !ok || member.status == status {
		return false
	}
	member.status = status
	return true
}

func (channel *Channel) addMessage(message Message) {
	channel.messages = append(channel.messages, message)
}

// ChannelState is a point-in-time copy of a channel.
type ChannelState struct {
	Name       string        `json:"name"`
	Topic      string        `json:"topic"`
	Members    []MemberState `json:"members"`
	Flags      []string      `json:"flags"`
	Bans       []string      `json:"bans"`
	Exceptions []string      `json:"exceptions"`
	Messages   []Message     `json:"messages"`
}

// MemberState is a point-in-time copy of a channel member.
type MemberState struct {
	Nick string `json:"nick"`
	// Prefixes are the membership prefixes of the roles, highest first (e.g. "@+").
	Prefixes string       `json:"prefixes"`
	Roles    []string     `json:"roles"`
	Status   MemberStatus `json:"status"`
}

// Member looks up a member of the copied roster by display nick.
func (state ChannelState) Member(nick string) (result MemberState, ok bool) {
	for _, member := range state.Members {
		if member.Nick == nick {
			return member, true
		}
	}
	return
}

func (channel *Channel) snapshot() (result ChannelState) {
	result.Name = channel.name
	result.Topic = channel.topic
	result.Members = make([]MemberState, 0, len(channel.members))
	for _, member := range channel.members {
		result.Members = append(result.Members, MemberState{
			Nick:     member.nick,
			Prefixes: member.modes.Prefixes(),
			Roles:    member.modes.Names(),
			Status:   member.status,
		})
	}
	slices.SortFunc(result.Members, func(a, b MemberState) int {
		return cmp.Compare(a.Nick, b.Nick)
	})
	result.Flags = channel.flags.Names()
	result.Bans = channel.lists[modes.BanMask].Masks()
	result.Exceptions = channel.lists[modes.ExceptMask].Masks()
	result.Messages = slices.Clone(channel.messages)
	return
}
