// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"strings"
	"sync"
	"time"

	"github.com/ergochat/chansync/irc/logger"
	"github.com/ergochat/chansync/irc/modes"
)

// Session is the synchronized state of one connection attempt: registration
// phase, MOTD, and every channel we have heard about.
type Session struct {
	// only one Dispatch at a time; held while the sink runs
	dispatchMutex sync.Mutex
	// guards everything below; GetState takes it for reading
	stateMutex sync.RWMutex

	phase       Phase
	welcome     string
	nick        string
	motd        strings.Builder
	channels    map[string]*Channel
	members     MembershipIndex
	casemapping Casemapping
	// argument and prefix classification of channel modes, from RPL_ISUPPORT
	modeTypes modes.ChannelModeTypes

	sink   EventSink
	logger *logger.Manager
	now    func() time.Time
}

// NewSession returns an empty session that reports events to sink.
// config and log may be nil.
func NewSession(config *Config, sink EventSink, log *logger.Manager) *Session {
	if sink == nil {
		sink = discardSink{}
	}
	session := &Session{
		channels:  make(map[string]*Channel),
		members:   NewMembershipIndex(),
		modeTypes: modes.DefaultChannelModeTypes(),
		sink:      sink,
		logger:    log,
		now:       time.Now,
	}
	if config != nil {
		session.casemapping = config.Casemapping
	}
	return session
}

// Dispatch applies one inbound primitive and delivers the resulting events
// to the sink before returning.
func (session *Session) Dispatch(primitive Primitive) {
	session.dispatchMutex.Lock()
	defer session.dispatchMutex.Unlock()

	var eb EventBuffer
	session.apply(&primitive, &eb)
	eb.Send(session.sink)
}

// DispatchLine parses a raw protocol line and dispatches it.
func (session *Session) DispatchLine(line string) error {
	primitive, err := ParsePrimitive(line)
	if err != nil {
		return err
	}
	session.Dispatch(primitive)
	return nil
}

func (session *Session) apply(primitive *Primitive, eb *EventBuffer) {
	session.stateMutex.Lock()
	defer session.stateMutex.Unlock()

	session.dispatch(primitive, eb)
}

func (session *Session) fold(name string) string {
	return session.casemapping.Fold(name)
}

func (session *Session) isSelf(nick string) bool {
	return session.nick != "" && session.fold(nick) == session.fold(session.nick)
}

func (session *Session) recordWelcome(nick, text string) {
	session.welcome = text
	if nick != "" {
		session.nick = nick
	}
	session.phase = PhaseConnected
}

func (session *Session) appendMotdFragment(text string) {
	session.motd.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		session.motd.WriteByte('\n')
	}
}

func (session *Session) finishMotd() string {
	return session.motd.String()
}

// noteAuthenticating records that the server is authenticating us.
// It never moves a registered session backwards.
func (session *Session) noteAuthenticating() {
	if session.phase < PhaseConnected {
		session.phase = PhaseAuthenticating
	}
}

func (session *Session) noteIdle() {
	session.phase = PhaseIdle
}

// noteISupport records the mode classification tokens of an RPL_ISUPPORT
// line (CHANMODES and PREFIX); a negated token restores the default.
func (session *Session) noteISupport(tokens []string) {
	defaults := modes.DefaultChannelModeTypes()
	for _, token := range tokens {
		name, value, _ := strings.Cut(token, "=")
		switch name {
		case "CHANMODES":
			session.modeTypes.SetChanModes(value)
		case "-CHANMODES":
			session.modeTypes.List = defaults.List
			session.modeTypes.Param = defaults.Param
			session.modeTypes.SetParam = defaults.SetParam
			session.modeTypes.Flag = defaults.Flag
		case "PREFIX":
			if err := session.modeTypes.SetPrefix(value); err != nil {
				session.logger.Warning("session", err.Error(), value)
			}
		case "-PREFIX":
			session.modeTypes.Member = defaults.Member
			session.modeTypes.Prefixes = defaults.Prefixes
		}
	}
}

// ensureChannel returns the channel record for name, creating it on first reference.
func (session *Session) ensureChannel(name string) *Channel {
	key := session.fold(name)
	channel, ok := session.channels[key]
	if !ok {
		channel = NewChannel(name, session.casemapping)
		session.channels[key] = channel
	}
	return channel
}

func (session *Session) getChannel(name string) *Channel {
	return session.channels[session.fold(name)]
}

func (session *Session) setTopic(channelName, topic string) {
	session.ensureChannel(channelName).setTopic(topic)
}

// joinMembers adds each whitespace-separated name to the channel and returns
// how many were not already present. Names may carry membership prefixes
// (@alice) and may be full nick!user@host sources (userhost-in-names).
func (session *Session) joinMembers(channelName, namesText string) (added int) {
	channel := session.ensureChannel(channelName)
	for _, name := range strings.Fields(namesText) {
		prefixes, name := session.modeTypes.SplitPrefixes(name)
		nick := nickFromName(name)
		if nick == "" {
			continue
		}
		if session.addMember(channel, nick, session.modeTypes.PrefixModes(prefixes)) {
			added++
		}
	}
	return
}

func (session *Session) addMember(channel *Channel, nick string, roles modes.Modes) (added bool) {
	added = channel.addMember(nick, roles)
	if added {
		session.members.add(session.fold(nick), channel.nameCasefolded)
	}
	return
}

// partMember removes nick from one channel. When nick is our own, the
// whole roster is cleared, since we can no longer see it.
func (session *Session) partMember(channelName, nick string) (changed bool) {
	channel := session.getChannel(channelName)
	if channel == nil {
		return false
	}
	if session.isSelf(nick) {
		departed := channel.clearMembers()
		session.members.clearChannel(channel.nameCasefolded, departed)
		return len(departed) != 0
	}
	if channel.removeMember(nick) {
		session.members.remove(session.fold(nick), channel.nameCasefolded)
		return true
	}
	return false
}

// removeMember removes nick from every channel containing it and returns
// those channels' casefolded names, sorted.
func (session *Session) removeMember(nick string) (changed []string) {
	key := session.fold(nick)
	changed = session.members.Channels(key)
	for _, channelKey := range changed {
		session.channels[channelKey].removeMember(nick)
		session.members.remove(key, channelKey)
	}
	return
}

// renameMember renames oldNick to newNick in exactly the channels that
// contained oldNick, keeping their roles, and returns those channels.
func (session *Session) renameMember(oldNick, newNick string) (changed []string) {
	oldKey := session.fold(oldNick)
	newKey := session.fold(newNick)
	changed = session.members.Channels(oldKey)
	for _, channelKey := range changed {
		session.channels[channelKey].renameMember(oldNick, newNick)
	}
	session.members.rename(oldKey, newKey)
	if session.isSelf(oldNick) {
		session.nick = newNick
	}
	return
}

// setStatus updates nick's presence in every channel containing it.
func (session *Session) setStatus(nick string, status MemberStatus) {
	for _, channelKey := range session.members.Channels(session.fold(nick)) {
		session.channels[channelKey].setMemberStatus(nick, status)
	}
}

// recordMessage appends a chat line to an existing channel. A zero timestamp
// is replaced with the current time.
func (session *Session) recordMessage(channelName, author, text string, timestamp time.Time) (message Message, err error) {
	channel := session.getChannel(channelName)
	if channel == nil {
		return message, errNoSuchChannel
	}
	if timestamp.IsZero() {
		timestamp = session.now().UTC()
	}
	message = Message{
		Time:   timestamp,
		Author: author,
		Text:   text,
	}
	channel.addMessage(message)
	return message, nil
}

func (session *Session) newUsers(channel *Channel) NewUsers {
	return NewUsers{
		Channel: channel.name,
		Users:   channel.Nicks(),
	}
}

// Snapshot is a deep copy of a Session's state.
type Snapshot struct {
	Phase    Phase                   `json:"phase"`
	Nick     string                  `json:"nick"`
	Welcome  string                  `json:"welcome"`
	Motd     string                  `json:"motd"`
	Channels map[string]ChannelState `json:"channels"`
	// Membership maps each casefolded nick to the casefolded channels containing it.
	Membership map[string][]string `json:"membership"`
}

// GetState returns a copy of the current state. It never observes a
// partially applied primitive.
func (session *Session) GetState() (result Snapshot) {
	session.stateMutex.RLock()
	defer session.stateMutex.RUnlock()

	result.Phase = session.phase
	result.Nick = session.nick
	result.Welcome = session.welcome
	result.Motd = session.motd.String()
	result.Channels = make(map[string]ChannelState, len(session.channels))
	for _, channel := range session.channels {
		result.Channels[channel.name] = channel.snapshot()
	}
	result.Membership = session.members.copy()
	return
}

// Phase returns the current registration phase.
func (session *Session) Phase() Phase {
	session.stateMutex.RLock()
	defer session.stateMutex.RUnlock()
	return session.phase
}

