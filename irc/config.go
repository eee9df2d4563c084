// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/ergochat/chansync/irc/logger"
	"github.com/ergochat/chansync/irc/mysql"
	"github.com/ergochat/chansync/irc/postgres"
)

// NetworkConfig describes the server `chansync connect` joins.
type NetworkConfig struct {
	Name     string
	Server   string
	Port     int
	TLS      bool `yaml:"tls"`
	Password string
	Nick     string
	Username string
	Realname string
	SASL     struct {
		Account  string
		Password string
	} `yaml:"sasl"`
	Channels []string
}

// EventsConfig controls the JSON event log.
type EventsConfig struct {
	Enabled  bool
	Filename string
}

// HistoryConfig controls where channel messages are persisted.
type HistoryConfig struct {
	Enabled bool
	// "memory", "buntdb", "mysql" or "postgres"
	Backend          string
	Path             string
	ChannelLength    int             `yaml:"channel-length"`
	ExpireTimeString string          `yaml:"expire-time"`
	ExpireTime       time.Duration   `yaml:"-"`
	MySQL            mysql.Config    `yaml:"mysql"`
	Postgres         postgres.Config `yaml:"postgres"`
}

// Config defines the overall configuration.
type Config struct {
	Network NetworkConfig

	CasemappingString string      `yaml:"casemapping"`
	Casemapping       Casemapping `yaml:"-"`

	Events EventsConfig

	History HistoryConfig

	Logging []logger.LoggingConfig

	Filename string `yaml:"-"`
	// names of the CHANSYNC__ variables that were applied, in order
	Overrides []string `yaml:"-"`
}

// LoadConfig loads the given YAML configuration file.
func LoadConfig(filename string) (config *Config, err error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err = ParseConfig(data, os.Environ())
	if err != nil {
		return nil, err
	}
	config.Filename = filename
	return config, nil
}

// ParseConfig parses YAML configuration data, applies CHANSYNC__ overrides
// from the environment, and validates the result.
func ParseConfig(data []byte, environment []string) (config *Config, err error) {
	config = new(Config)
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	for _, envPair := range environment {
		applied, name, envErr := mungeFromEnvironment(config, envPair)
		if envErr != nil {
			return nil, fmt.Errorf("Could not apply environment override %s: %w", name, envErr)
		}
		if applied {
			config.Overrides = append(config.Overrides, name)
		}
	}

	err = config.postprocess()
	if err != nil {
		return nil, err
	}
	return config, nil
}

func (config *Config) postprocess() (err error) {
	config.Casemapping, err = ParseCasemapping(config.CasemappingString)
	if err != nil {
		return err
	}

	if config.Network.Port == 0 {
		if config.Network.TLS {
			config.Network.Port = 6697
		} else {
			config.Network.Port = 6667
		}
	}
	if config.Network.Username == "" {
		config.Network.Username = config.Network.Nick
	}
	if config.Network.Realname == "" {
		config.Network.Realname = config.Network.Nick
	}

	if config.Events.Enabled && config.Events.Filename == "" {
		return ErrEventLogFilenameMissing
	}

	if config.History.Enabled {
		config.History.Backend = strings.ToLower(config.History.Backend)
		switch config.History.Backend {
		case "", "memory":
			config.History.Backend = "memory"
		case "buntdb":
			if config.History.Path == "" {
				return ErrHistoryPathMissing
			}
		case "mysql":
			if config.History.MySQL.HistoryDatabase == "" || (config.History.MySQL.Host == "" && config.History.MySQL.SocketPath == "") {
				return ErrHistoryMySQLIncomplete
			}
		case "postgres", "postgresql":
			config.History.Backend = "postgres"
			if config.History.Postgres.HistoryDatabase == "" {
				return ErrHistoryPostgresMissing
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownHistoryBackend, config.History.Backend)
		}
		if config.History.ChannelLength == 0 {
			config.History.ChannelLength = 2048
		}
		if config.History.ExpireTimeString != "" {
			config.History.ExpireTime, err = time.ParseDuration(config.History.ExpireTimeString)
			if err != nil {
				return fmt.Errorf("Could not parse history expire-time: %w", err)
			}
		}
		config.History.MySQL.ExpireTime = config.History.ExpireTime
		config.History.Postgres.ExpireTime = config.History.ExpireTime
	}

	var newLogConfigs []logger.LoggingConfig
	for _, logConfig := range config.Logging {
		// methods
		methods := make(map[string]bool)
		for _, method := range strings.Split(logConfig.Method, " ") {
			if len(method) > 0 {
				methods[strings.ToLower(method)] = true
			}
		}
		if methods["file"] && logConfig.Filename == "" {
			return ErrLoggerFilenameMissing
		}
		logConfig.MethodFile = methods["file"]
		logConfig.MethodStdout = methods["stdout"]
		logConfig.MethodStderr = methods["stderr"]

		// levels
		level, exists := logger.LogLevelNames[strings.ToLower(logConfig.LevelString)]
		if !exists {
			return fmt.Errorf("Could not translate log level [%s]", logConfig.LevelString)
		}
		logConfig.Level = level

		// types
		for _, typeStr := range strings.Split(logConfig.TypeString, " ") {
			if len(typeStr) == 0 {
				continue
			}
			if typeStr == "-" {
				return ErrLoggerExcludeEmpty
			}
			if typeStr[0] == '-' {
				typeStr = typeStr[1:]
				logConfig.ExcludedTypes = append(logConfig.ExcludedTypes, typeStr)
			} else {
				logConfig.Types = append(logConfig.Types, typeStr)
			}
		}
		if len(logConfig.Types) < 1 {
			return ErrLoggerHasNoTypes
		}

		newLogConfigs = append(newLogConfigs, logConfig)
	}
	config.Logging = newLogConfigs

	return nil
}

// ValidateNetwork checks the settings needed to connect to a server.
func (config *Config) ValidateNetwork() error {
	if config.Network.Server == "" {
		return ErrNetworkServerMissing
	}
	if config.Network.Nick == "" {
		return ErrNetworkNickMissing
	}
	return nil
}

type configPathError struct {
	name string
	desc string
}

func (ce *configPathError) Error() string {
	return fmt.Sprintf("Couldn't apply config override `%s`: %s", ce.name, ce.desc)
}

// mungeFromEnvironment applies an override such as
// CHANSYNC__NETWORK__SERVER=irc.example.com to the config. Path components
// are yaml keys, upper-cased, with `-` written as `_`; the value is parsed as YAML.
func mungeFromEnvironment(config *Config, envPair string) (applied bool, name string, err error) {
	equalIdx := strings.IndexByte(envPair, '=')
	if equalIdx == -1 {
		return false, "", nil
	}
	name, value := envPair[:equalIdx], envPair[equalIdx+1:]
	if !strings.HasPrefix(name, "CHANSYNC__") {
		return false, "", nil
	}
	configPath := strings.Split(strings.TrimPrefix(name, "CHANSYNC__"), "__")
	for i, pathComponent := range configPath {
		if pathComponent == "" {
			return false, name, &configPathError{name, "invalid"}
		}
		configPath[i] = strings.ToLower(strings.ReplaceAll(pathComponent, "_", "-"))
	}

	// walk the config struct, matching yaml keys
	v := reflect.ValueOf(config).Elem()
	for _, component := range configPath {
		if v.Kind() != reflect.Struct {
			return false, name, &configPathError{name, "index into non-struct"}
		}
		field, ok := findFieldByYAMLKey(v, component)
		if !ok {
			return false, name, &configPathError{name, "not found"}
		}
		v = field
	}

	err = yaml.Unmarshal([]byte(value), v.Addr().Interface())
	if err != nil {
		return false, name, err
	}
	return true, name, nil
}

func findFieldByYAMLKey(v reflect.Value, key string) (field reflect.Value, ok bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		structField := t.Field(i)
		if !structField.IsExported() {
			continue
		}
		yamlKey, _, _ := strings.Cut(structField.Tag.Get("yaml"), ",")
		if yamlKey == "-" {
			continue
		}
		if yamlKey == "" {
			// yaml.v2's default key is the lowercased field name
			yamlKey = strings.ToLower(structField.Name)
		}
		if yamlKey == key {
			return v.Field(i), true
		}
	}
	return
}
