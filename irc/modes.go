// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"github.com/ergochat/chansync/irc/modes"
)

// ApplyModeChange applies a single mode delta to the channel and reports
// whether any state actually changed. Every delta is idempotent:
// granting something already present, or revoking something absent, is a no-op.
func (channel *Channel) ApplyModeChange(change modes.ModeChange) (applied bool, kind modes.Kind) {
	kind = modes.KindOf(change.Mode)

	switch kind {
	case modes.KindPrivilege:
		if change.Arg == "" {
			return
		}
		member, ok := channel.members[channel.casemapping.Fold(change.Arg)]
		if !ok {
			return
		}
		switch change.Op {
		case modes.Add:
			applied = member.modes.SetMode(change.Mode, true)
		case modes.Remove:
			applied = member.modes.SetMode(change.Mode, false)
		}

	case modes.KindList:
		// a list mode with no mask is a query for the list
		if change.Arg == "" {
			return
		}
		list := channel.lists[change.Mode]
		switch change.Op {
		case modes.Add:
			applied = list.Add(change.Arg)
		case modes.Remove:
			applied = list.Remove(change.Arg)
		}

	case modes.KindToggle:
		// the key or limit value itself is not tracked
		switch change.Op {
		case modes.Add:
			applied = channel.flags.SetMode(change.Mode, true)
		case modes.Remove:
			applied = channel.flags.SetMode(change.Mode, false)
		}
	}

	return
}

// applyModeChanges applies a batch delta by delta; an unmodeled delta is
// returned in `skipped` and never prevents the rest from being applied.
func (channel *Channel) applyModeChanges(changes modes.ModeChanges) (privilegesChanged bool, applied, skipped modes.ModeChanges) {
	for _, change := range changes {
		changed, kind := channel.ApplyModeChange(change)
		if kind == modes.KindUnknown {
			skipped = append(skipped, change)
			continue
		}
		if changed {
			applied = append(applied, change)
			if kind == modes.KindPrivilege {
				privilegesChanged = true
			}
		}
	}
	return
}
