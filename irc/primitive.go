// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"strings"
	"time"

	"github.com/ergochat/irc-go/ircmsg"

	"github.com/ergochat/chansync/irc/utils"
)

const (
	// UnknownSender is the author of a chat line that arrived without a source.
	UnknownSender = "Unknown"
)

// Primitive is one parsed inbound protocol message.
type Primitive struct {
	// Source is the optional nick!user@host or server name, verbatim.
	Source string
	// Command is the upper-case command name or three-digit numeric.
	Command string
	// Params are the middle parameters, in order.
	Params []string
	// Trailing is the final free-text parameter, if HasTrailing.
	Trailing    string
	HasTrailing bool
	// Time is the server-time of the message, or zero if the server didn't send one.
	Time time.Time
}

// NewPrimitive builds a primitive from already-split fields. The final
// parameter, if any, becomes the trailing suffix.
func NewPrimitive(source, command string, params ...string) (result Primitive) {
	result.Source = source
	result.Command = strings.ToUpper(command)
	if len(params) != 0 {
		result.Params = params[:len(params)-1]
		result.Trailing = params[len(params)-1]
		result.HasTrailing = true
	}
	return
}

// ParsePrimitive parses a raw protocol line, including IRCv3 tags.
func ParsePrimitive(line string) (result Primitive, err error) {
	msg, err := ircmsg.ParseLine(line)
	if err != nil {
		return
	}

	result.Source = msg.Source
	result.Command = strings.ToUpper(msg.Command)
	result.Params = msg.Params
	if hasTrailingParam(line) && len(msg.Params) != 0 {
		last := len(msg.Params) - 1
		result.Params = msg.Params[:last]
		result.Trailing = msg.Params[last]
		result.HasTrailing = true
	}
	if present, value := msg.GetTag("time"); present {
		if serverTime, timeErr := utils.ParseTimestamp(value); timeErr == nil {
			result.Time = serverTime
		}
	}
	return
}

// hasTrailingParam reports whether the line's final parameter was sent with
// the ':' trailing marker, which ircmsg doesn't expose.
func hasTrailingParam(line string) bool {
	line = strings.TrimLeft(line, " ")
	if strings.HasPrefix(line, "@") {
		line = skipField(line)
	}
	if strings.HasPrefix(line, ":") {
		line = skipField(line)
	}
	return strings.Contains(line, " :")
}

func skipField(line string) string {
	space := strings.IndexByte(line, ' ')
	if space == -1 {
		return ""
	}
	return strings.TrimLeft(line[space:], " ")
}

// AllParams returns the middle params followed by the trailing param, if any.
func (p *Primitive) AllParams() (result []string) {
	result = make([]string, 0, len(p.Params)+1)
	result = append(result, p.Params...)
	if p.HasTrailing {
		result = append(result, p.Trailing)
	}
	return
}

// Param returns the i'th parameter counting the trailing one, or "".
func (p *Primitive) Param(i int) string {
	if i < len(p.Params) {
		return p.Params[i]
	}
	if i == len(p.Params) && p.HasTrailing {
		return p.Trailing
	}
	return ""
}

// ParamCount counts the parameters including the trailing one.
func (p *Primitive) ParamCount() int {
	if p.HasTrailing {
		return len(p.Params) + 1
	}
	return len(p.Params)
}

// LastParam returns the trailing param if present, otherwise the final middle param.
func (p *Primitive) LastParam() string {
	if p.HasTrailing {
		return p.Trailing
	}
	if len(p.Params) != 0 {
		return p.Params[len(p.Params)-1]
	}
	return ""
}

// SenderNick reduces a message source to the nickname that sent it.
func SenderNick(source string) string {
	if source == "" {
		return UnknownSender
	}
	nick, _, _ := strings.Cut(source, "!")
	return nick
}

// nickFromName reduces a userhost-in-names entry (nick!user@host) to its nick.
func nickFromName(name string) string {
	nuh, err := ircmsg.ParseNUH(name)
	if err != nil || nuh.Name == "" {
		return name
	}
	return nuh.Name
}
