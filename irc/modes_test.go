// Copyright (c) 2017 Daniel Oaks
// released under the MIT license

package irc

import (
	"reflect"
	"testing"

	"github.com/ergochat/chansync/irc/modes"
)

func newTestChannel(nicks ...string) *Channel {
	channel := NewChannel("#chansync", CasemappingASCII)
	for _, nick := range nicks {
		channel.addMember(nick, nil)
	}
	return channel
}

func memberRoles(channel *Channel, nick string) []string {
	member, ok := channel.snapshot().Member(nick)
	if !ok {
		return nil
	}
	return member.Roles
}

func TestApplyPrivilegeChange(t *testing.T) {
	channel := newTestChannel("alice", "bob")

	applied, kind := channel.ApplyModeChange(modes.ModeChange{Mode: modes.ChannelOperator, Op: modes.Add, Arg: "Alice"})
	if !applied || kind != modes.KindPrivilege {
		t.Errorf("unexpected result granting op: %v %v", applied, kind)
	}
	if !reflect.DeepEqual(memberRoles(channel, "alice"), []string{"operator"}) {
		t.Errorf("unexpected roles %v", memberRoles(channel, "alice"))
	}

	// granting twice is a no-op
	applied, _ = channel.ApplyModeChange(modes.ModeChange{Mode: modes.ChannelOperator, Op: modes.Add, Arg: "alice"})
	if applied {
		t.Errorf("granting an existing role must not report a change")
	}

	// an absent member is not added
	applied, _ = channel.ApplyModeChange(modes.ModeChange{Mode: modes.Voice, Op: modes.Add, Arg: "carol"})
	if applied || channel.hasMember("carol") {
		t.Errorf("a privilege change must not add a member")
	}

	applied, _ = channel.ApplyModeChange(modes.ModeChange{Mode: modes.ChannelOperator, Op: modes.Remove, Arg: "alice"})
	if !applied || len(memberRoles(channel, "alice")) != 0 {
		t.Errorf("unexpected result revoking op: %v %v", applied, memberRoles(channel, "alice"))
	}
}

func TestApplyListChange(t *testing.T) {
	channel := newTestChannel()
	ban := modes.ModeChange{Mode: modes.BanMask, Op: modes.Add, Arg: "*!*@spam.example"}

	if applied, _ := channel.ApplyModeChange(ban); !applied {
		t.Errorf("expected first ban to apply")
	}
	if applied, _ := channel.ApplyModeChange(ban); applied {
		t.Errorf("expected duplicate ban to be a no-op")
	}
	if masks := channel.snapshot().Bans; !reflect.DeepEqual(masks, []string{"*!*@spam.example"}) {
		t.Errorf("unexpected bans %v", masks)
	}

	// revoking a mask that isn't there is not an error
	if applied, _ := channel.ApplyModeChange(modes.ModeChange{Mode: modes.BanMask, Op: modes.Remove, Arg: "*!*@other.example"}); applied {
		t.Errorf("expected removal of an absent mask to be a no-op")
	}
	// a query with no mask changes nothing
	if applied, _ := channel.ApplyModeChange(modes.ModeChange{Mode: modes.BanMask, Op: modes.List}); applied {
		t.Errorf("expected ban list query to be a no-op")
	}

	ban.Op = modes.Remove
	if applied, _ := channel.ApplyModeChange(ban); !applied {
		t.Errorf("expected removal of the ban to apply")
	}
	if masks := channel.snapshot().Bans; len(masks) != 0 {
		t.Errorf("unexpected bans %v", masks)
	}
}

func TestApplyModeChanges(t *testing.T) {
	channel := newTestChannel("alice", "bob")

	types := modes.DefaultChannelModeTypes()
	changes, unknown := types.ParseChannelModeChanges("+ntov-X+I", "alice", "bob", "*!*@invited")
	if len(unknown) != 1 || unknown[0] != 'X' {
		t.Errorf("unexpected unknown modes %v", unknown)
	}
	privilegesChanged, applied, skipped := channel.applyModeChanges(changes)
	if !privilegesChanged {
		t.Errorf("expected privileges to change")
	}
	if len(applied) != 4 {
		t.Errorf("unexpected applied changes %v", applied)
	}
	// invite exceptions are parsed but not tracked
	if len(skipped) != 1 || skipped[0].Mode != modes.InviteMask {
		t.Errorf("unexpected skipped changes %v", skipped)
	}

	state := channel.snapshot()
	if !reflect.DeepEqual(state.Flags, []string{"no-external-messages", "protected-topic"}) {
		t.Errorf("unexpected flags %v", state.Flags)
	}
	if !reflect.DeepEqual(memberRoles(channel, "alice"), []string{"operator"}) {
		t.Errorf("unexpected roles for alice %v", memberRoles(channel, "alice"))
	}
	if !reflect.DeepEqual(memberRoles(channel, "bob"), []string{"voice"}) {
		t.Errorf("unexpected roles for bob %v", memberRoles(channel, "bob"))
	}

	// the same batch again changes nothing
	privilegesChanged, applied, _ = channel.applyModeChanges(changes)
	if privilegesChanged || len(applied) != 0 {
		t.Errorf("expected reapplying to be a no-op, got %v", applied)
	}
}
