// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2018 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2017-2018 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"strings"

	"github.com/ergochat/chansync/irc/logger"
	"github.com/ergochat/chansync/irc/modes"
)

// emitNewUsers queues one NewUsers per changed channel, or passes the
// primitive through if nothing changed.
func emitNewUsers(session *Session, msg *Primitive, eb *EventBuffer, changed []string) {
	if len(changed) == 0 {
		eb.Add(miscFromPrimitive(msg))
		return
	}
	for _, channelKey := range changed {
		eb.Add(session.newUsers(session.channels[channelKey]))
	}
}

// 001 <nick> :<text>
func welcomeHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	var nick string
	if len(msg.Params) != 0 {
		nick = msg.Params[0]
	}
	text := msg.LastParam()
	session.recordWelcome(nick, text)
	session.logger.Info("session", "registered as", session.nick)
	eb.Add(Welcome{Text: text})
}

// 005 <nick> <token>{ <token>} :are supported by this server
func rplISupportHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	// the trailing param is the human-readable text
	session.noteISupport(msg.Params[1:])
	eb.Add(miscFromPrimitive(msg))
}

// 375 / 372 <nick> :<text>
func motdHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	session.appendMotdFragment(msg.LastParam())
}

// 376 <nick> :End of /MOTD command
func endOfMotdHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	eb.Add(Motd{Text: session.finishMotd()})
}

// 353 <nick> [<symbol>] <channel> :<names>
// the symbol is omitted by some older servers, so the channel is taken
// from just before the names
func namReplyHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	params := msg.AllParams()
	channelName := params[len(params)-2]
	names := params[len(params)-1]
	session.joinMembers(channelName, names)
	session.getChannel(channelName).namesPending = true
}

// 366 <nick> <channel> :End of /NAMES list
func endOfNamesHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	channel := session.getChannel(msg.Param(1))
	if channel == nil {
		// a NAMES query for a channel we know nothing about
		eb.Add(miscFromPrimitive(msg))
		return
	}
	channel.namesPending = false
	eb.Add(session.newUsers(channel))
}

// 332 <nick> <channel> :<topic>
// 331 <nick> <channel> :No topic is set
func rplTopicHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	var topic string
	if msg.Command == RPL_TOPIC {
		topic = msg.LastParam()
	}
	session.setTopic(msg.Param(1), topic)
	eb.Add(miscFromPrimitive(msg))
}

// TOPIC <channel> [:<topic>]
func topicHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	var topic string
	if msg.ParamCount() > 1 {
		topic = msg.Param(1)
	}
	session.setTopic(msg.Param(0), topic)
	eb.Add(miscFromPrimitive(msg))
}

// 324 <nick> <channel> <modestring> [<args>...]
func rplChannelModeIsHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	params := msg.AllParams()
	channel := session.ensureChannel(params[1])
	session.applyModes(channel, params[2:])
	eb.Add(miscFromPrimitive(msg))
}

// 367 <nick> <channel> <mask> [<setter> <time>]
// 348 <nick> <channel> <mask> [<setter> <time>]
func rplListEntryHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	mode := modes.BanMask
	if msg.Command == RPL_EXCEPTLIST {
		mode = modes.ExceptMask
	}
	channel := session.ensureChannel(msg.Param(1))
	channel.ApplyModeChange(modes.ModeChange{Mode: mode, Op: modes.Add, Arg: msg.Param(2)})
	eb.Add(miscFromPrimitive(msg))
}

// MODE <target> <modestring> [<args>...]
func modeHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	params := msg.AllParams()
	if !isChannelName(params[0]) {
		// user modes aren't tracked
		eb.Add(miscFromPrimitive(msg))
		return
	}
	channel := session.ensureChannel(params[0])
	if session.applyModes(channel, params[1:]) {
		eb.Add(session.newUsers(channel))
	} else {
		eb.Add(miscFromPrimitive(msg))
	}
}

// applyModes parses and applies a mode string with its arguments, logging
// anything it had to skip. It reports whether any member's roles changed.
func (session *Session) applyModes(channel *Channel, params []string) (privilegesChanged bool) {
	changes, unknown := session.modeTypes.ParseChannelModeChanges(params...)
	for _, mode := range unknown {
		session.logger.Debug("modes", errUnknownMode.Error(), channel.name, string(mode))
	}
	privilegesChanged, applied, skipped := channel.applyModeChanges(changes)
	for _, change := range skipped {
		session.logger.Debug("modes", "mode not tracked", channel.name, string(change.Op)+string(change.Mode))
	}
	if len(applied) != 0 && session.logger.IsLogging(logger.LogDebug, "modes") {
		session.logger.Debug("modes", "applied", channel.name, strings.Join(applied.Strings(), " "))
	}
	return
}

// JOIN <channel>{,<channel>} [<account> :<realname>]
func joinHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	if msg.Source == "" {
		session.logger.Debug("dispatch", errInvalidSource.Error(), msg.Command)
		eb.Add(miscFromPrimitive(msg))
		return
	}
	nick := SenderNick(msg.Source)
	var changed []string
	for _, channelName := range strings.Split(msg.Param(0), ",") {
		if channelName == "" {
			continue
		}
		channel := session.ensureChannel(channelName)
		if session.addMember(channel, nick, nil) {
			changed = append(changed, channel.nameCasefolded)
		}
	}
	emitNewUsers(session, msg, eb, changed)
}

// PART <channel>{,<channel>} [:<reason>]
func partHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	nick := SenderNick(msg.Source)
	var changed []string
	for _, channelName := range strings.Split(msg.Param(0), ",") {
		if session.partMember(channelName, nick) {
			changed = append(changed, session.fold(channelName))
		}
	}
	emitNewUsers(session, msg, eb, changed)
}

// KICK <channel> <user> [:<comment>]
func kickHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	var changed []string
	if session.partMember(msg.Param(0), msg.Param(1)) {
		changed = append(changed, session.fold(msg.Param(0)))
	}
	emitNewUsers(session, msg, eb, changed)
}

// QUIT [:<reason>]
func quitHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	if msg.Source == "" {
		eb.Add(miscFromPrimitive(msg))
		return
	}
	emitNewUsers(session, msg, eb, session.removeMember(SenderNick(msg.Source)))
}

// NICK <nickname>
func nickHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	if msg.Source == "" {
		eb.Add(miscFromPrimitive(msg))
		return
	}
	oldNick := SenderNick(msg.Source)
	newNick := msg.Param(0)
	emitNewUsers(session, msg, eb, session.renameMember(oldNick, newNick))
}

// PRIVMSG / NOTICE <target> :<text>
func messageHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	target := msg.Param(0)
	if !isChannelName(target) {
		if msg.Command == "NOTICE" && isAuthNotice(session, target) {
			session.noteAuthenticating()
		}
		eb.Add(miscFromPrimitive(msg))
		return
	}

	message, err := session.recordMessage(target, SenderNick(msg.Source), msg.LastParam(), msg.Time)
	if err != nil {
		session.logger.Warning("dispatch", err.Error(), target, msg.Command)
		return
	}
	eb.Add(NewMessage{
		Channel: session.getChannel(target).name,
		Message: message,
	})
}

// auth notices are addressed to AUTH, or to * before we have a nick
func isAuthNotice(session *Session, target string) bool {
	return target == "AUTH" || (target == "*" && session.phase < PhaseConnected)
}

// AUTHENTICATE <data>
func authenticateHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	session.noteAuthenticating()
	eb.Add(miscFromPrimitive(msg))
}

// ERROR :<reason>
// the server is closing the link
func errorHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	session.noteIdle()
	session.logger.Info("session", "server closed the link", msg.LastParam())
	eb.Add(miscFromPrimitive(msg))
}

// AWAY [:<message>] (away-notify)
func awayHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	if msg.Source != "" {
		status := StatusOnline
		if msg.LastParam() != "" {
			status = StatusAway
		}
		session.setStatus(SenderNick(msg.Source), status)
	}
	eb.Add(miscFromPrimitive(msg))
}

// 301 <nick> <target> :<message>
func rplAwayHandler(session *Session, msg *Primitive, eb *EventBuffer) {
	session.setStatus(msg.Param(1), StatusAway)
	eb.Add(miscFromPrimitive(msg))
}
