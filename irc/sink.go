// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

// EventSink receives the events produced by a Session, in order.
// Emit is called synchronously from Dispatch; a slow sink slows dispatch.
type EventSink interface {
	Emit(Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(event Event) {
	f(event)
}

// MultiSink delivers each event to every sink in turn.
type MultiSink []EventSink

func (sinks MultiSink) Emit(event Event) {
	for _, sink := range sinks {
		sink.Emit(event)
	}
}

type discardSink struct{}

func (discardSink) Emit(Event) {}

// EventBuffer collects the events of one dispatch so they can be delivered
// after the state lock is released.
type EventBuffer struct {
	events []Event
}

// Add queues an event.
func (eb *EventBuffer) Add(event Event) {
	eb.events = append(eb.events, event)
}

// Len is the number of queued events.
func (eb *EventBuffer) Len() int {
	return len(eb.events)
}

// Send delivers the queued events to sink in the order they were added.
func (eb *EventBuffer) Send(sink EventSink) {
	events := eb.events
	eb.events = nil
	for _, event := range events {
		sink.Emit(event)
	}
}
