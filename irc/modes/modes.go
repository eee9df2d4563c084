// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package modes

import (
	"errors"
	"slices"
	"strings"

	"github.com/ergochat/chansync/irc/utils"
)

var errInvalidPrefix = errors.New("invalid PREFIX value")

// ModeOp is an operation performed with modes
type ModeOp rune

const (
	// Add is used when granting the given mode.
	Add ModeOp = '+'
	// List is used when a list mode is sent without an argument (a query, e.g. `MODE #chan b`).
	List ModeOp = '='
	// Remove is used when revoking the given mode.
	Remove ModeOp = '-'
)

func (op ModeOp) String() string {
	return string(op)
}

// Mode represents a channel or channel-member mode letter.
type Mode rune

func (mode Mode) String() string {
	return string(mode)
}

// ModeChange is a single mode changing
type ModeChange struct {
	Mode Mode
	Op   ModeOp
	Arg  string
}

// ModeChanges are a collection of 'ModeChange's
type ModeChanges []ModeChange

// Strings renders the changes back into a mode string followed by its arguments,
// e.g. []string{"+o-b", "alice", "*!*@evil.example"}.
func (changes ModeChanges) Strings() (result []string) {
	if len(changes) == 0 {
		return
	}

	var builder strings.Builder

	op := changes[0].Op
	builder.WriteRune(rune(op))

	for _, change := range changes {
		if change.Op != op {
			op = change.Op
			builder.WriteRune(rune(op))
		}
		builder.WriteRune(rune(change.Mode))
	}

	result = append(result, builder.String())

	for _, change := range changes {
		if change.Arg == "" {
			continue
		}
		result = append(result, change.Arg)
	}
	return
}

// Modes is just a raw list of modes
type Modes []Mode

func (modes Modes) String() string {
	var builder strings.Builder
	for _, m := range modes {
		builder.WriteRune(rune(m))
	}
	return builder.String()
}

// Channel Modes
const (
	BanMask        Mode = 'b' // arg
	ExceptMask     Mode = 'e' // arg
	InviteMask     Mode = 'I' // arg
	InviteOnly     Mode = 'i' // flag
	Key            Mode = 'k' // flag arg
	Moderated      Mode = 'm' // flag
	NoOutside      Mode = 'n' // flag
	OpOnlyTopic    Mode = 't' // flag
	RegisteredOnly Mode = 'R' // flag
	Secret         Mode = 's' // flag
	UserLimit      Mode = 'l' // flag arg
	Forward        Mode = 'f' // flag arg
)

// Channel member modes
const (
	ChannelFounder  Mode = 'q' // arg
	ChannelAdmin    Mode = 'a' // arg
	ChannelOperator Mode = 'o' // arg
	Halfop          Mode = 'h' // arg
	Voice           Mode = 'v' // arg
)

var (
	// ChannelUserModes holds the list of all modes that can be applied to a user in a channel,
	// including Voice, in descending order of precedence
	ChannelUserModes = Modes{
		ChannelFounder, ChannelAdmin, ChannelOperator, Halfop, Voice,
	}

	// ListModes are the argument-bearing list modes whose contents we track.
	ListModes = Modes{BanMask, ExceptMask}

	// ToggleModes are the simple channel flags we track. Key and UserLimit carry
	// an argument when set, but only the presence of the flag is modeled.
	ToggleModes = Modes{
		InviteOnly, Moderated, Secret, OpOnlyTopic, NoOutside, RegisteredOnly, Key, UserLimit,
	}

	ChannelModePrefixes = map[Mode]string{
		ChannelFounder:  "~",
		ChannelAdmin:    "&",
		ChannelOperator: "@",
		Halfop:          "%",
		Voice:           "+",
	}

	modeNames = map[Mode]string{
		ChannelFounder:  "founder",
		ChannelAdmin:    "admin",
		ChannelOperator: "operator",
		Halfop:          "halfop",
		Voice:           "voice",
		BanMask:         "ban",
		ExceptMask:      "exception",
		InviteOnly:      "invite-only",
		Moderated:       "moderated",
		Secret:          "secret",
		OpOnlyTopic:     "protected-topic",
		NoOutside:       "no-external-messages",
		RegisteredOnly:  "registered-only",
		Key:             "key-protected",
		UserLimit:       "limited",
	}
)

// Kind classifies a mode by how a delta on it updates channel state.
type Kind uint

const (
	// KindUnknown modes are not modeled; deltas on them are skipped.
	KindUnknown Kind = iota
	// KindPrivilege modes grant or revoke a tag on a named member.
	KindPrivilege
	// KindList modes insert or remove a mask in a channel list.
	KindList
	// KindToggle modes set or clear a channel flag.
	KindToggle
)

// KindOf returns how deltas on `mode` are applied.
func KindOf(mode Mode) Kind {
	switch {
	case slices.Contains(ChannelUserModes, mode):
		return KindPrivilege
	case slices.Contains(ListModes, mode):
		return KindList
	case slices.Contains(ToggleModes, mode):
		return KindToggle
	default:
		return KindUnknown
	}
}

// Name returns the descriptive name of a tracked mode, or the letter itself.
func Name(mode Mode) string {
	if name, ok := modeNames[mode]; ok {
		return name
	}
	return mode.String()
}

//
// mode types and membership prefixes
//

// ChannelModeTypes says which channel modes take an argument, as advertised by
// the CHANMODES and PREFIX tokens of RPL_ISUPPORT. Knowing the type of a mode
// we don't track still lets the parser consume its argument, so the deltas
// after it get the right ones.
type ChannelModeTypes struct {
	// type A: list modes; without an argument the mode is a query
	List Modes
	// type B: always take an argument
	Param Modes
	// type C: take an argument only when being set
	SetParam Modes
	// type D: never take an argument
	Flag Modes
	// member modes in descending order of precedence, and their prefix
	// characters, in the same order
	Member   Modes
	Prefixes string
}

// DefaultChannelModeTypes returns the types assumed until the server
// advertises its own.
func DefaultChannelModeTypes() ChannelModeTypes {
	return ChannelModeTypes{
		List:     Modes{BanMask, ExceptMask, InviteMask},
		Param:    Modes{Key},
		SetParam: Modes{UserLimit, Forward},
		Flag:     Modes{InviteOnly, Moderated, NoOutside, OpOnlyTopic, RegisteredOnly, Secret},
		Member:   slices.Clone(ChannelUserModes),
		Prefixes: "~&@%+",
	}
}

// SetChanModes replaces the A, B, C and D types with those of a CHANMODES
// value such as "beI,k,l,imnpst". Types beyond D are ignored.
func (types *ChannelModeTypes) SetChanModes(value string) {
	groups := strings.Split(value, ",")
	group := func(i int) (result Modes) {
		if i < len(groups) {
			for _, mode := range groups[i] {
				result = append(result, Mode(mode))
			}
		}
		return
	}
	types.List = group(0)
	types.Param = group(1)
	types.SetParam = group(2)
	types.Flag = group(3)
}

// SetPrefix replaces the member modes with those of a PREFIX value such as
// "(qaohv)~&@%+". An empty value means the server has no member modes.
func (types *ChannelModeTypes) SetPrefix(value string) error {
	if value == "" {
		types.Member = nil
		types.Prefixes = ""
		return nil
	}
	if !strings.HasPrefix(value, "(") {
		return errInvalidPrefix
	}
	letters, prefixes, found := strings.Cut(value[1:], ")")
	if !found || len(letters) != len(prefixes) {
		return errInvalidPrefix
	}
	var member Modes
	for _, mode := range letters {
		member = append(member, Mode(mode))
	}
	types.Member = member
	types.Prefixes = prefixes
	return nil
}

// SplitPrefixes takes a NAMES entry and returns the membership prefixes on it,
// then the name.
func (types *ChannelModeTypes) SplitPrefixes(target string) (prefixes string, name string) {
	i := 0
	for i < len(target) && strings.IndexByte(types.Prefixes, target[i]) != -1 {
		i++
	}
	return target[:i], target[i:]
}

// PrefixModes converts membership prefixes (e.g. "@+") into the modes they
// stand for, in descending order of precedence.
func (types *ChannelModeTypes) PrefixModes(prefixes string) (result Modes) {
	for i, mode := range types.Member {
		if strings.IndexByte(prefixes, types.Prefixes[i]) != -1 {
			result = append(result, mode)
		}
	}
	return
}

// ParseChannelModeChanges returns the valid changes, and the list of unknown chars.
// Arguments are consumed positionally from params[1:] according to the mode
// types. A mode that is of no known type takes no argument and is reported
// as unknown; a typed mode we don't track is still returned as a change.
func (types *ChannelModeTypes) ParseChannelModeChanges(params ...string) (changes ModeChanges, unknown []rune) {
	op := List

	if 0 < len(params) {
		modeArg := params[0]
		skipArgs := 1
		nextArg := func() (arg string, ok bool) {
			if len(params) > skipArgs {
				arg = params[skipArgs]
				skipArgs++
				return arg, true
			}
			return "", false
		}

		for _, mode := range modeArg {
			if mode == '-' || mode == '+' {
				op = ModeOp(mode)
				continue
			}
			change := ModeChange{
				Mode: Mode(mode),
				Op:   op,
			}

			// put arg into modechange if needed
			typed := true
			switch {
			case slices.Contains(types.Member, change.Mode):
				arg, ok := nextArg()
				if !ok {
					continue
				}
				change.Arg = arg
			case slices.Contains(types.List, change.Mode):
				arg, ok := nextArg()
				if !ok {
					change.Op = List
				}
				change.Arg = arg
			case slices.Contains(types.Param, change.Mode):
				// servers send the key (or "*") when removing as well as when setting
				change.Arg, _ = nextArg()
			case slices.Contains(types.SetParam, change.Mode):
				// don't require value when removing
				if change.Op == Add {
					arg, ok := nextArg()
					if !ok {
						continue
					}
					change.Arg = arg
				}
			case slices.Contains(types.Flag, change.Mode):
			default:
				typed = false
			}

			if typed || KindOf(change.Mode) != KindUnknown {
				changes = append(changes, change)
			} else {
				unknown = append(unknown, mode)
			}
		}
	}

	return changes, unknown
}

// ModeSet holds a set of modes.
type ModeSet [2]uint32

// valid modes go from 65 ('A') to 122 ('z'), making at most 58 possible values;
// subtract 65 from the mode value and use that bit of the uint32 to represent it
const (
	minMode = 65  // 'A'
	maxMode = 122 // 'z'
)

// test whether `mode` is set
func (set *ModeSet) HasMode(mode Mode) bool {
	if set == nil || mode < minMode || mode > maxMode {
		return false
	}

	return utils.BitsetGet(set[:], uint(mode)-minMode)
}

// set `mode` to be on or off, return whether the value actually changed
func (set *ModeSet) SetMode(mode Mode, on bool) (applied bool) {
	if mode < minMode || mode > maxMode {
		return false
	}
	return utils.BitsetSet(set[:], uint(mode)-minMode, on)
}

// Union adds every mode of `other` to this set.
func (set *ModeSet) Union(other *ModeSet) {
	utils.BitsetUnion(set[:], other[:])
}

// return the modes in the set as a slice
func (set *ModeSet) AllModes() (result []Mode) {
	if set == nil {
		return
	}

	var i Mode
	for i = minMode; i <= maxMode; i++ {
		if set.HasMode(i) {
			result = append(result, i)
		}
	}
	return
}

// String returns the modes in this set.
func (set *ModeSet) String() (result string) {
	if set == nil {
		return
	}

	var buf strings.Builder
	for _, mode := range set.AllModes() {
		buf.WriteRune(rune(mode))
	}
	return buf.String()
}

// Names returns the descriptive names of the modes in this set, ordered by letter.
func (set *ModeSet) Names() (result []string) {
	for _, mode := range set.AllModes() {
		result = append(result, Name(mode))
	}
	return
}

// Prefixes returns the membership prefixes of the member modes in the set,
// from highest to lowest privilege (e.g. "@+").
func (set *ModeSet) Prefixes() (prefixes string) {
	if set == nil {
		return
	}

	for _, mode := range ChannelUserModes {
		if set.HasMode(mode) {
			prefixes += ChannelModePrefixes[mode]
		}
	}
	return prefixes
}
