// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

// Event is a normalized notification produced by the dispatcher.
// The concrete types are Welcome, Motd, NewUsers, NewMessage and Misc.
type Event interface {
	// Type is the kebab-case name used when the event is serialized.
	Type() string
	isEvent()
}

// Welcome reports that registration completed.
type Welcome struct {
	Text string
}

// Motd carries the whole message of the day accumulated so far.
type Motd struct {
	Text string
}

// NewUsers carries the full current roster of a channel after it changed.
type NewUsers struct {
	Channel string
	Users   []string
}

// NewMessage reports a chat line recorded in a channel.
type NewMessage struct {
	Channel string
	Message Message
}

// Misc passes through a primitive with no dedicated semantics.
type Misc struct {
	Source    string
	HasSource bool
	Name      string
	Args      []string
	Suffix    string
	HasSuffix bool
}

func (Welcome) Type() string    { return "welcome" }
func (Motd) Type() string       { return "motd" }
func (NewUsers) Type() string   { return "new-users" }
func (NewMessage) Type() string { return "new-message" }
func (Misc) Type() string       { return "misc" }

func (Welcome) isEvent()    {}
func (Motd) isEvent()       {}
func (NewUsers) isEvent()   {}
func (NewMessage) isEvent() {}
func (Misc) isEvent()       {}

// miscFromPrimitive builds the pass-through event for a primitive.
func miscFromPrimitive(p *Primitive) Misc {
	args := p.Params
	if args == nil {
		args = []string{}
	}
	return Misc{
		Source:    p.Source,
		HasSource: p.Source != "",
		Name:      CanonicalName(p.Command),
		Args:      args,
		Suffix:    p.Trailing,
		HasSuffix: p.HasTrailing,
	}
}
