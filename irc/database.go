// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"

	"github.com/ergochat/chansync/irc/bunt"
	"github.com/ergochat/chansync/irc/history"
	"github.com/ergochat/chansync/irc/logger"
	"github.com/ergochat/chansync/irc/mysql"
	"github.com/ergochat/chansync/irc/postgres"
)

// OpenHistoryDatabase opens the history backend named in the config.
// With history disabled, the result stores nothing.
func OpenHistoryDatabase(config *Config, log *logger.Manager) (history.Database, error) {
	if !config.History.Enabled {
		return history.NewNoopDatabase(), nil
	}

	switch config.History.Backend {
	case "memory":
		return history.NewMemoryDatabase(config.History.ChannelLength, config.History.ExpireTime), nil
	case "buntdb":
		return bunt.OpenHistory(config.History.Path, config.History.ExpireTime, log)
	case "mysql":
		db := mysql.NewMySQL(log, config.History.MySQL)
		if err := db.Open(); err != nil {
			db.Close()
			return nil, fmt.Errorf("Could not open MySQL history: %w", err)
		}
		return db, nil
	case "postgres":
		db, err := postgres.NewPostgreSQLDatabase(log, config.History.Postgres)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("Could not open PostgreSQL history: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownHistoryBackend, config.History.Backend)
	}
}
