// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

// Command is the state-affecting handling of one inbound command or numeric.
type Command struct {
	handler func(session *Session, msg *Primitive, eb *EventBuffer)
	// counts the trailing parameter; below this the primitive is passed through
	minParams int
}

// Run runs this command against the session, queueing its events on eb.
func (cmd *Command) Run(session *Session, msg *Primitive, eb *EventBuffer) {
	if msg.ParamCount() < cmd.minParams {
		session.logger.Debug("dispatch", "not enough parameters, passing through", msg.Command)
		eb.Add(miscFromPrimitive(msg))
		return
	}
	cmd.handler(session, msg, eb)
}

// dispatch routes a primitive to its handler, or passes it through as Misc.
// Called with stateMutex held.
func (session *Session) dispatch(msg *Primitive, eb *EventBuffer) {
	cmd, ok := Commands[msg.Command]
	if !ok {
		eb.Add(miscFromPrimitive(msg))
		return
	}
	cmd.Run(session, msg, eb)
}

// Commands holds the handling of every primitive with state semantics.
var Commands map[string]Command

func init() {
	Commands = map[string]Command{
		RPL_WELCOME: {
			handler:   welcomeHandler,
			minParams: 1,
		},
		RPL_ISUPPORT: {
			handler:   rplISupportHandler,
			minParams: 2,
		},
		RPL_MOTDSTART: {
			handler:   motdHandler,
			minParams: 1,
		},
		RPL_MOTD: {
			handler:   motdHandler,
			minParams: 1,
		},
		RPL_ENDOFMOTD: {
			handler: endOfMotdHandler,
		},
		RPL_NAMREPLY: {
			handler:   namReplyHandler,
			minParams: 3,
		},
		RPL_ENDOFNAMES: {
			handler:   endOfNamesHandler,
			minParams: 2,
		},
		RPL_TOPIC: {
			handler:   rplTopicHandler,
			minParams: 3,
		},
		RPL_NOTOPIC: {
			handler:   rplTopicHandler,
			minParams: 2,
		},
		RPL_CHANNELMODEIS: {
			handler:   rplChannelModeIsHandler,
			minParams: 3,
		},
		RPL_BANLIST: {
			handler:   rplListEntryHandler,
			minParams: 3,
		},
		RPL_EXCEPTLIST: {
			handler:   rplListEntryHandler,
			minParams: 3,
		},
		RPL_AWAY: {
			handler:   rplAwayHandler,
			minParams: 2,
		},
		"AUTHENTICATE": {
			handler: authenticateHandler,
		},
		"AWAY": {
			handler: awayHandler,
		},
		"ERROR": {
			handler: errorHandler,
		},
		"JOIN": {
			handler:   joinHandler,
			minParams: 1,
		},
		"KICK": {
			handler:   kickHandler,
			minParams: 2,
		},
		"MODE": {
			handler:   modeHandler,
			minParams: 2,
		},
		"NICK": {
			handler:   nickHandler,
			minParams: 1,
		},
		"NOTICE": {
			handler:   messageHandler,
			minParams: 2,
		},
		"PART": {
			handler:   partHandler,
			minParams: 1,
		},
		"PRIVMSG": {
			handler:   messageHandler,
			minParams: 2,
		},
		"QUIT": {
			handler: quitHandler,
		},
		"TOPIC": {
			handler:   topicHandler,
			minParams: 1,
		},
	}
}
