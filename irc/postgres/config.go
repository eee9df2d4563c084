// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package postgres

import (
	"fmt"
	"strings"
	"time"
)

const (
	// maximum length in bytes of any message target (channel name) in its
	// canonicalized (i.e., casefolded) state:
	MaxTargetLength = 64
)

type Config struct {
	// these are intended to be written directly into the config file:
	Host            string
	Port            int
	SocketPath      string `yaml:"socket-path"`
	User            string
	Password        string
	HistoryDatabase string `yaml:"history-database"`
	Timeout         time.Duration
	MaxConns        int           `yaml:"max-conns"`
	ConnMaxLifetime time.Duration `yaml:"conn-max-lifetime"`
	// PostgreSQL-specific configuration:
	ApplicationName string        `yaml:"application-name"` // shown in pg_stat_activity
	ConnectTimeout  time.Duration `yaml:"connect-timeout"`  // timeout for establishing connections
	// PostgreSQL SSL/TLS configuration:
	SSLMode     string `yaml:"ssl-mode"`      // disable, require, verify-ca, verify-full
	SSLCert     string `yaml:"ssl-cert"`      // client certificate path
	SSLKey      string `yaml:"ssl-key"`       // client key path
	SSLRootCert string `yaml:"ssl-root-cert"` // CA certificate path

	// XXX these are copied from elsewhere in the config:
	ExpireTime time.Duration `yaml:"-"`
}

// ConnString renders the config as a libpq keyword/value connection string.
func (config *Config) ConnString() string {
	var buf strings.Builder
	param := func(key, value string) {
		if value == "" {
			return
		}
		if buf.Len() != 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(quoteConnValue(value))
	}

	if config.SocketPath != "" {
		// PostgreSQL uses host parameter for Unix socket directory
		param("host", config.SocketPath)
	} else {
		port := config.Port
		if port == 0 {
			port = 5432 // Default PostgreSQL port
		}
		sslMode := config.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		param("host", config.Host)
		param("port", fmt.Sprintf("%d", port))
		param("sslmode", sslMode)
		param("sslcert", config.SSLCert)
		param("sslkey", config.SSLKey)
		param("sslrootcert", config.SSLRootCert)
	}
	param("user", config.User)
	param("password", config.Password)
	param("dbname", config.HistoryDatabase)
	param("application_name", config.ApplicationName)
	if config.ConnectTimeout != 0 {
		param("connect_timeout", fmt.Sprintf("%d", int(config.ConnectTimeout.Seconds())))
	}
	return buf.String()
}

// values containing spaces, quotes or backslashes must be single-quoted
func quoteConnValue(value string) string {
	if !strings.ContainsAny(value, ` '\`) {
		return value
	}
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}
