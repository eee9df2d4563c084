// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

// Package upstream connects to a live IRC server and feeds every inbound
// message to a Session.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lrstanley/girc"

	"github.com/ergochat/chansync/irc"
	"github.com/ergochat/chansync/irc/logger"
)

var (
	errConnectionClosed = errors.New("Connection closed by server")
)

// Dispatcher is the part of a Session the transport needs.
type Dispatcher interface {
	Dispatch(irc.Primitive)
}

// Client is a single connection to the configured network.
type Client struct {
	network    irc.NetworkConfig
	dispatcher Dispatcher
	logger     *logger.Manager
}

// NewClient returns a client that will dispatch into dispatcher once Run is called.
func NewClient(network irc.NetworkConfig, dispatcher Dispatcher, log *logger.Manager) *Client {
	return &Client{
		network:    network,
		dispatcher: dispatcher,
		logger:     log,
	}
}

// GircConfig translates the network section of our config into girc's.
func GircConfig(network irc.NetworkConfig) girc.Config {
	config := girc.Config{
		Server:     network.Server,
		Port:       network.Port,
		ServerPass: network.Password,
		Nick:       network.Nick,
		User:       network.Username,
		Name:       network.Realname,
		SSL:        network.TLS,
	}
	if network.SASL.Account != "" {
		config.SASL = &girc.SASLPlain{
			User: network.SASL.Account,
			Pass: network.SASL.Password,
		}
	}
	return config
}

// PrimitiveFromEvent converts a girc event into a primitive. girc's own
// synthetic events (connection state, STS) have no protocol equivalent and
// are rejected.
func PrimitiveFromEvent(event girc.Event) (result irc.Primitive, ok bool) {
	if strings.HasPrefix(event.Command, "CLIENT_") || strings.HasPrefix(event.Command, "STS_") {
		return
	}
	var source string
	if event.Source != nil {
		source = event.Source.String()
	}
	result = irc.NewPrimitive(source, event.Command, event.Params...)
	result.Time = event.Timestamp
	return result, true
}

// Run connects and dispatches inbound messages until ctx is cancelled
// or the connection ends.
func (client *Client) Run(ctx context.Context) (err error) {
	gc := girc.New(GircConfig(client.network))

	gc.Handlers.Add(girc.ALL_EVENTS, func(c *girc.Client, e girc.Event) {
		primitive, ok := PrimitiveFromEvent(e)
		if !ok {
			return
		}
		client.dispatcher.Dispatch(primitive)
	})
	gc.Handlers.Add(girc.CONNECTED, func(c *girc.Client, e girc.Event) {
		client.logger.Info("upstream", "connected to", client.network.Server)
		if len(client.network.Channels) != 0 {
			c.Cmd.Join(client.network.Channels...)
		}
	})

	client.logger.Info("upstream", fmt.Sprintf("connecting to %s:%d as %s", client.network.Server, client.network.Port, client.network.Nick))

	done := make(chan error, 1)
	go func() {
		done <- gc.Connect()
	}()

	select {
	case <-ctx.Done():
		gc.Close()
		<-done
		return nil
	case err = <-done:
		if err == nil {
			err = errConnectionClosed
		}
		client.logger.Warning("upstream", "connection ended", err.Error())
		return err
	}
}
