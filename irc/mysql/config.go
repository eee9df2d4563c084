// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package mysql

import (
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
)

type Config struct {
	// these are intended to be written directly into the config file:
	Host            string
	Port            int
	SocketPath      string `yaml:"socket-path"`
	User            string
	Password        string
	HistoryDatabase string        `yaml:"history-database"`
	Timeout         time.Duration `yaml:"timeout"`

	// XXX these are copied from elsewhere in the config:
	ExpireTime time.Duration `yaml:"-"`
}

// DSN renders the config as a go-sql-driver connection string.
func (config *Config) DSN() string {
	dsn := gomysql.NewConfig()
	dsn.User = config.User
	dsn.Passwd = config.Password
	dsn.DBName = config.HistoryDatabase
	if config.SocketPath != "" {
		dsn.Net = "unix"
		dsn.Addr = config.SocketPath
	} else {
		port := config.Port
		if port == 0 {
			port = 3306
		}
		dsn.Net = "tcp"
		dsn.Addr = fmt.Sprintf("%s:%d", config.Host, port)
	}
	if config.Timeout != 0 {
		dsn.Timeout = config.Timeout
	}
	return dsn.FormatDSN()
}
