// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ergochat/chansync/irc/logger"
)

const testConfig = `
network:
    server: irc.example.com
    tls: true
    nick: fruitbot
    channels:
        - "#chansync"
        - "#chansync-dev"

casemapping: rfc1459

events:
    enabled: true
    filename: out.log.json

history:
    enabled: true
    backend: BuntDB
    path: history.db
    expire-time: 24h

logging:
    -
        method: stderr file
        filename: chansync.log
        type: "* -modes"
        level: debug
`

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte(testConfig), nil)
	if err != nil {
		t.Fatalf("unexpected error parsing config: %v", err)
	}

	if config.Network.Server != "irc.example.com" || config.Network.Nick != "fruitbot" {
		t.Errorf("unexpected network config %#v", config.Network)
	}
	if config.Network.Port != 6697 {
		t.Errorf("unexpected default TLS port %d", config.Network.Port)
	}
	if config.Network.Username != "fruitbot" || config.Network.Realname != "fruitbot" {
		t.Errorf("username and realname should default to the nick: %#v", config.Network)
	}
	if !reflect.DeepEqual(config.Network.Channels, []string{"#chansync", "#chansync-dev"}) {
		t.Errorf("unexpected channels %v", config.Network.Channels)
	}
	if config.Casemapping != CasemappingRFC1459 {
		t.Errorf("unexpected casemapping %s", config.Casemapping)
	}
	if config.History.Backend != "buntdb" || config.History.ExpireTime != 24*time.Hour {
		t.Errorf("unexpected history config %#v", config.History)
	}
	if config.History.ChannelLength != 2048 {
		t.Errorf("unexpected default channel-length %d", config.History.ChannelLength)
	}

	if len(config.Logging) != 1 {
		t.Fatalf("unexpected logging config %#v", config.Logging)
	}
	logConfig := config.Logging[0]
	if !(logConfig.MethodStderr && logConfig.MethodFile && !logConfig.MethodStdout) {
		t.Errorf("unexpected logging methods %#v", logConfig)
	}
	if logConfig.Level != logger.LogDebug {
		t.Errorf("unexpected logging level %v", logConfig.Level)
	}
	if !reflect.DeepEqual(logConfig.Types, []string{"*"}) || !reflect.DeepEqual(logConfig.ExcludedTypes, []string{"modes"}) {
		t.Errorf("unexpected logging types %v %v", logConfig.Types, logConfig.ExcludedTypes)
	}
}

func TestParseConfigRecordsOverrides(t *testing.T) {
	env := []string{
		"HOME=/home/fruitbot",
		"CHANSYNC__CASEMAPPING=ascii",
		"CHANSYNC__NETWORK__PORT=7000",
	}
	config, err := ParseConfig([]byte(testConfig), env)
	if err != nil {
		t.Fatalf("unexpected error parsing config: %v", err)
	}
	if !reflect.DeepEqual(config.Overrides, []string{"CHANSYNC__CASEMAPPING", "CHANSYNC__NETWORK__PORT"}) {
		t.Errorf("unexpected overrides %v", config.Overrides)
	}
	if config.Casemapping != CasemappingASCII || config.Network.Port != 7000 {
		t.Errorf("overrides not applied: %s %d", config.Casemapping, config.Network.Port)
	}

	config, err = ParseConfig([]byte(testConfig), nil)
	if err != nil {
		t.Fatalf("unexpected error parsing config: %v", err)
	}
	if config.Overrides != nil {
		t.Errorf("unexpected overrides %v", config.Overrides)
	}
}

func TestConfigDefaults(t *testing.T) {
	config, err := ParseConfig([]byte("network:\n    nick: fruitbot\nhistory:\n    enabled: true\n"), nil)
	if err != nil {
		t.Fatalf("unexpected error parsing config: %v", err)
	}
	if config.Network.Port != 6667 {
		t.Errorf("unexpected default port %d", config.Network.Port)
	}
	if config.Casemapping != CasemappingNone {
		t.Errorf("unexpected default casemapping %s", config.Casemapping)
	}
	if config.History.Backend != "memory" {
		t.Errorf("unexpected default history backend %s", config.History.Backend)
	}
	if err := config.ValidateNetwork(); !errors.Is(err, ErrNetworkServerMissing) {
		t.Errorf("unexpected network validation result %v", err)
	}
}

func TestConfigErrors(t *testing.T) {
	testCases := []struct {
		config string
		err    error
	}{
		{"casemapping: klingon\n", ErrUnknownCasemapping},
		{"events:\n    enabled: true\n", ErrEventLogFilenameMissing},
		{"history:\n    enabled: true\n    backend: carrier-pigeon\n", ErrUnknownHistoryBackend},
		{"history:\n    enabled: true\n    backend: buntdb\n", ErrHistoryPathMissing},
		{"history:\n    enabled: true\n    backend: mysql\n", ErrHistoryMySQLIncomplete},
		{"history:\n    enabled: true\n    backend: postgres\n", ErrHistoryPostgresMissing},
		{"logging:\n    - method: file\n      type: \"*\"\n      level: info\n", ErrLoggerFilenameMissing},
		{"logging:\n    - method: stderr\n      type: \"-\"\n      level: info\n", ErrLoggerExcludeEmpty},
		{"logging:\n    - method: stderr\n      type: \"-modes\"\n      level: info\n", ErrLoggerHasNoTypes},
	}

	for _, testCase := range testCases {
		_, err := ParseConfig([]byte(testCase.config), nil)
		if !errors.Is(err, testCase.err) {
			t.Errorf("expected %v parsing %q, got %v", testCase.err, testCase.config, err)
		}
	}

	if _, err := ParseConfig([]byte("logging:\n    - method: stderr\n      type: \"*\"\n      level: loud\n"), nil); err == nil {
		t.Errorf("accepted an invalid log level")
	}
}

func TestLoadConfig(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "chansync.yaml")
	if err := os.WriteFile(filename, []byte(testConfig), 0600); err != nil {
		t.Fatal(err)
	}
	config, err := LoadConfig(filename)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}
	if config.Filename != filename {
		t.Errorf("unexpected filename %s", config.Filename)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error loading a missing config")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	var config Config
	config.History.Enabled = true
	config.Network.Channels = []string{"#chansync"}
	config.Network.Server = "irc.example.com" // overwrite this
	env := []string{
		`USER=shivaram`,         // unrelated var
		`CHANSYNC_USER=fruit`,   // this should be ignored as well
		`CHANSYNC__NETWORK__SERVER=irc.example.net`,
		`CHANSYNC__NETWORK__PORT=6697`,
		`CHANSYNC__NETWORK__TLS=true`,
		`CHANSYNC__NETWORK__SASL={"account": "fruit", "password": "hunter2"}`,
		`CHANSYNC__CASEMAPPING=precis`,
		`CHANSYNC__HISTORY__MYSQL__HISTORY_DATABASE=chansync_history`,
		`CHANSYNC__HISTORY__POSTGRES__SSL_MODE=verify-full`,
	}
	for _, envPair := range env {
		_, _, err := mungeFromEnvironment(&config, envPair)
		if err != nil {
			t.Errorf("couldn't apply override `%s`: %v", envPair, err)
		}
	}

	if config.Network.Server != "irc.example.net" {
		t.Errorf("unexpected value of network.server: %s", config.Network.Server)
	}
	if config.Network.Port != 6697 || !config.Network.TLS {
		t.Errorf("unexpected port or tls: %d %v", config.Network.Port, config.Network.TLS)
	}
	if config.Network.SASL.Account != "fruit" || config.Network.SASL.Password != "hunter2" {
		t.Errorf("unexpected sasl: %#v", config.Network.SASL)
	}
	if config.CasemappingString != "precis" {
		t.Errorf("unexpected casemapping: %s", config.CasemappingString)
	}
	if config.History.MySQL.HistoryDatabase != "chansync_history" {
		t.Errorf("unexpected history database: %s", config.History.MySQL.HistoryDatabase)
	}
	if config.History.Postgres.SSLMode != "verify-full" {
		t.Errorf("unexpected postgres ssl-mode: %s", config.History.Postgres.SSLMode)
	}
	if !config.History.Enabled {
		t.Errorf("overwrote unrelated field")
	}
	if !reflect.DeepEqual(config.Network.Channels, []string{"#chansync"}) {
		t.Errorf("overwrote unrelated field: %#v", config.Network.Channels)
	}
}

func TestEnvironmentOverrideErrors(t *testing.T) {
	var config Config

	invalidEnvs := []string{
		`CHANSYNC__=asdf`,
		`CHANSYNC__NETWORK__=asdf`,
		`CHANSYNC__NETWORK____=asdf`,
		`CHANSYNC__NONEXISTENT_KEY=1`,
		`CHANSYNC__NETWORK__NONEXISTENT_KEY=1`,
		// invalid yaml:
		`CHANSYNC__NETWORK__NICK="`,
		// invalid type:
		`CHANSYNC__NETWORK__PORT=asdf`,
		// index into non-struct:
		`CHANSYNC__NETWORK__NAME__QUX=1`,
		// not settable from the config file:
		`CHANSYNC__FILENAME=other.yaml`,
	}

	for _, env := range invalidEnvs {
		success, _, err := mungeFromEnvironment(&config, env)
		if err == nil || success {
			t.Errorf("accepted invalid env override `%s`", env)
		}
	}
}

func TestParseConfigAppliesEnvironment(t *testing.T) {
	config, err := ParseConfig([]byte(testConfig), []string{"CHANSYNC__CASEMAPPING=ascii"})
	if err != nil {
		t.Fatalf("unexpected error parsing config: %v", err)
	}
	if config.Casemapping != CasemappingASCII {
		t.Errorf("environment override was not applied: %s", config.Casemapping)
	}

	if _, err := ParseConfig([]byte(testConfig), []string{"CHANSYNC__NETWORK__PORT=asdf"}); err == nil {
		t.Errorf("accepted invalid environment override")
	}
}
