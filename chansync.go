// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/okzk/sdnotify"

	"github.com/ergochat/chansync/irc"
	"github.com/ergochat/chansync/irc/eventlog"
	"github.com/ergochat/chansync/irc/logger"
	"github.com/ergochat/chansync/irc/upstream"
)

// set via linker flags, either by make or by goreleaser:
var commit = ""  // git hash
var version = "" // tagged version

// stdoutSink prints one JSON event per line
type stdoutSink struct {
	encoder *json.Encoder
}

func (s stdoutSink) Emit(event irc.Event) {
	s.encoder.Encode(event)
}

// readySink calls ready once, on the first Welcome; after that the
// session is registered and the service manager can consider us started.
func readySink(ready func() error, logman *logger.Manager) irc.SinkFunc {
	var once sync.Once
	return func(event irc.Event) {
		if _, ok := event.(irc.Welcome); !ok {
			return
		}
		once.Do(func() {
			if err := ready(); err != nil {
				logman.Warning("upstream", "could not notify readiness", err.Error())
			}
		})
	}
}

// sinks builds the configured event consumers; the returned function closes them.
func sinks(config *irc.Config, logman *logger.Manager, extra ...irc.EventSink) (result irc.MultiSink, closer func()) {
	var closers []io.Closer
	result = append(result, extra...)

	if config.Events.Enabled {
		writer, err := eventlog.Open(config.Events.Filename, logman)
		if err != nil {
			log.Fatal("Could not open event log: ", err.Error())
		}
		if err := writer.WriteStarted(time.Now()); err != nil {
			logman.Error("eventlog", "could not write started entry", err.Error())
		}
		result = append(result, writer)
		closers = append(closers, writer)
	}

	db, err := irc.OpenHistoryDatabase(config, logman)
	if err != nil {
		log.Fatal("Could not open history: ", err.Error())
	}
	closers = append(closers, db)
	result = append(result, irc.NewHistorySink(db, config.Casemapping, logman))

	closer = func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logman.Error("history", "error while closing", err.Error())
			}
		}
	}
	return
}

// implements `chansync replay`
func doReplay(config *irc.Config, logman *logger.Manager, input string, printState bool) {
	var reader io.Reader = os.Stdin
	if input != "" && input != "-" {
		file, err := os.Open(input)
		if err != nil {
			log.Fatal("Could not open input: ", err.Error())
		}
		defer file.Close()
		reader = file
	}

	out := stdoutSink{encoder: json.NewEncoder(os.Stdout)}
	sink, closer := sinks(config, logman, out)
	defer closer()

	session := irc.NewSession(config, sink, logman)
	scanner := bufio.NewScanner(reader)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := session.DispatchLine(line); err != nil {
			logman.Warning("dispatch", fmt.Sprintf("skipping line %d", lineNum), err.Error())
		}
	}
	if err := scanner.Err(); err != nil {
		logman.Error("dispatch", "could not read input", err.Error())
	}

	if printState {
		state, err := json.MarshalIndent(session.GetState(), "", "  ")
		if err != nil {
			log.Fatal("Could not serialize state: ", err.Error())
		}
		fmt.Println(string(state))
	}
}

// implements `chansync connect`
func doConnect(config *irc.Config, logman *logger.Manager) {
	if err := config.ValidateNetwork(); err != nil {
		log.Fatal("Network configuration is incomplete: ", err.Error())
	}

	sink, closer := sinks(config, logman, readySink(sdnotify.Ready, logman))
	defer closer()

	session := irc.NewSession(config, sink, logman)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logman.Info("upstream", fmt.Sprintf("%s starting", irc.Ver))
	err := upstream.NewClient(config.Network, session, logman).Run(ctx)
	if err != nil {
		logman.Error("upstream", err.Error())
	}
	if ctx.Err() != nil {
		sdnotify.Stopping()
		logman.Info("upstream", "stopping on signal")
	}
	logman.Info("session", "final phase", session.Phase().String())
}

// implements `chansync history`
func doHistory(config *irc.Config, logman *logger.Manager, channel string, limit int) {
	if !config.History.Enabled {
		log.Fatal("History is not enabled in the configuration")
	}
	db, err := irc.OpenHistoryDatabase(config, logman)
	if err != nil {
		log.Fatal("Could not open history: ", err.Error())
	}
	defer db.Close()

	items, err := irc.NewHistorySink(db, config.Casemapping, logman).Latest(channel, limit)
	if err != nil {
		log.Fatal("Could not read history: ", err.Error())
	}
	encoder := json.NewEncoder(os.Stdout)
	for _, item := range items {
		encoder.Encode(item)
	}
}

func main() {
	irc.SetVersionString(version, commit)
	usage := `chansync.
Usage:
	chansync replay [--conf <filename>] [--state] [<input>]
	chansync connect [--conf <filename>]
	chansync history <channel> [--conf <filename>] [--limit <n>]
	chansync -h | --help
	chansync --version
Options:
	--conf <filename>  Configuration file to use [default: chansync.yaml].
	--state            Print the final session state after replaying.
	--limit <n>        Number of history lines to show, 0 for all [default: 50].
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, irc.Ver)

	configfile := arguments["--conf"].(string)
	config, err := irc.LoadConfig(configfile)
	if err != nil {
		log.Fatal("Config file did not load successfully: ", err.Error())
	}

	logman, err := logger.NewManager(config.Logging)
	if err != nil {
		log.Fatal("Logger did not load successfully:", err.Error())
	}
	defer logman.Close()
	for _, name := range config.Overrides {
		logman.Info("config", "applied environment override", name)
	}

	if arguments["replay"].(bool) {
		input, _ := arguments["<input>"].(string)
		doReplay(config, logman, input, arguments["--state"].(bool))
	} else if arguments["connect"].(bool) {
		doConnect(config, logman)
	} else if arguments["history"].(bool) {
		limit, err := strconv.Atoi(arguments["--limit"].(string))
		if err != nil || limit < 0 {
			log.Fatal("Invalid --limit: ", arguments["--limit"])
		}
		doHistory(config, logman, arguments["<channel>"].(string), limit)
	}
}
