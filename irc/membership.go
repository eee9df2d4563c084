// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"github.com/ergochat/chansync/irc/utils"
)

// MembershipIndex is the reverse of the channel rosters: for each casefolded
// nickname, the casefolded names of the channels whose roster contains it.
// The Session updates it in the same critical section as the rosters.
type MembershipIndex struct {
	byNick map[string]ChannelSet
}

func NewMembershipIndex() MembershipIndex {
	return MembershipIndex{byNick: make(map[string]ChannelSet)}
}

func (index *MembershipIndex) add(nickKey, channelKey string) {
	channels, ok := index.byNick[nickKey]
	if !ok {
		channels = make(ChannelSet)
		index.byNick[nickKey] = channels
	}
	channels.Add(channelKey)
}

func (index *MembershipIndex) remove(nickKey, channelKey string) {
	channels, ok := index.byNick[nickKey]
	if !ok {
		return
	}
	channels.Remove(channelKey)
	if len(channels) == 0 {
		delete(index.byNick, nickKey)
	}
}

// Channels returns the channels containing nickKey, sorted.
func (index *MembershipIndex) Channels(nickKey string) []string {
	channels, ok := index.byNick[nickKey]
	if !ok {
		return nil
	}
	return utils.Sorted(channels)
}

// rename moves every membership of oldKey to newKey, merging with any
// memberships newKey already had.
func (index *MembershipIndex) rename(oldKey, newKey string) {
	if oldKey == newKey {
		return
	}
	channels, ok := index.byNick[oldKey]
	if !ok {
		return
	}
	delete(index.byNick, oldKey)
	for channelKey := range channels {
		index.add(newKey, channelKey)
	}
}

// clearChannel removes channelKey from the entries of every listed nick.
func (index *MembershipIndex) clearChannel(channelKey string, nickKeys []string) {
	for _, nickKey := range nickKeys {
		index.remove(nickKey, channelKey)
	}
}

func (index *MembershipIndex) copy() (result map[string][]string) {
	result = make(map[string][]string, len(index.byNick))
	for nickKey, channels := range index.byNick {
		result[nickKey] = utils.Sorted(channels)
	}
	return
}
