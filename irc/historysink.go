// Copyright (c) 2018 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// released under the MIT license

package irc

import (
	"fmt"

	"github.com/ergochat/chansync/irc/history"
	"github.com/ergochat/chansync/irc/logger"
)

// HistorySink persists every NewMessage event into a history database,
// keyed by the casefolded channel name. Other events are ignored.
type HistorySink struct {
	db          history.Database
	casemapping Casemapping
	logger      *logger.Manager
}

// NewHistorySink returns a sink writing to db.
func NewHistorySink(db history.Database, casemapping Casemapping, log *logger.Manager) *HistorySink {
	return &HistorySink{
		db:          db,
		casemapping: casemapping,
		logger:      log,
	}
}

func (hs *HistorySink) Emit(event Event) {
	message, ok := event.(NewMessage)
	if !ok {
		return
	}
	item := history.Item{
		Channel: message.Channel,
		Time:    message.Message.Time,
		Nick:    message.Message.Author,
		Message: message.Message.Text,
	}
	err := hs.db.AddChannelItem(hs.casemapping.Fold(message.Channel), item)
	if err != nil {
		hs.logger.Error("history", fmt.Sprintf("could not store message for %s: %v", message.Channel, err))
	}
}

// Latest returns the most recent stored lines of a channel, oldest first.
func (hs *HistorySink) Latest(channel string, limit int) ([]history.Item, error) {
	return hs.db.Latest(hs.casemapping.Fold(channel), limit)
}
