// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package history

import (
	"encoding/json"
	"errors"
)

var errNotAnItem = errors.New("stored history entry is not a JSON object")

// Items are stored as JSON objects. A leading '{' identifies the encoding,
// leaving other first bytes free for later formats.

func MarshalItem(item *Item) (result []byte, err error) {
	return json.Marshal(item)
}

func UnmarshalItem(data []byte, result *Item) (err error) {
	if len(data) == 0 || data[0] != '{' {
		return errNotAnItem
	}
	return json.Unmarshal(data, result)
}
