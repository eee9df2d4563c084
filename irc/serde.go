// Copyright (c) 2022 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"encoding/json"
)

// serialized form shared by every event: {"type": "new-users", "args": [...]}
type eventJSON struct {
	Type string        `json:"type"`
	Args []interface{} `json:"args"`
}

func optionalString(value string, present bool) interface{} {
	if !present {
		return nil
	}
	return value
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (event Welcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{event.Type(), []interface{}{event.Text}})
}

func (event Motd) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{event.Type(), []interface{}{event.Text}})
}

func (event NewUsers) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{event.Type(), []interface{}{event.Channel, nonNil(event.Users)}})
}

func (event NewMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{event.Type(), []interface{}{event.Channel, event.Message}})
}

func (event Misc) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{event.Type(), []interface{}{
		optionalString(event.Source, event.HasSource),
		event.Name,
		nonNil(event.Args),
		optionalString(event.Suffix, event.HasSuffix),
	}})
}

// MarshalEvent serializes any event in its {"type", "args"} form.
func MarshalEvent(event Event) ([]byte, error) {
	return json.Marshal(event)
}
