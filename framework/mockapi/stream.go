package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/sylph-test/sylph/framework"

	"github.com/launchdarkly/eventsource"
)

type eventSourceDebugLogger struct {
	logger framework.Logger
}

func (l eventSourceDebugLogger) Println(args ...interface{}) {
	l.logger.Printf("%s", fmt.Sprintln(args...))
}

func (l eventSourceDebugLogger) Printf(format string, args ...interface{}) {
	l.logger.Printf(format, args...)
}

// StreamEndpoint is a mock endpoint that serves a server-sent-events stream. Tests that
// exercise the API driver's streaming support publish events here and assert on what the
// driver receives.
type StreamEndpoint struct {
	endpoint *Endpoint
	streams  *eventsource.Server
	channel  string
	history  []streamEvent
	logger   framework.Logger
	lock     sync.Mutex
}

type streamEvent struct {
	id   string
	name string
	data interface{}
}

func (e streamEvent) Id() string    { return e.id } //nolint:stylecheck // eventsource.Event defines this name
func (e streamEvent) Event() string { return e.name }

func (e streamEvent) Data() string {
	if s, ok := e.data.(string); ok {
		return s
	}
	bytes, _ := json.Marshal(e.data)
	return string(bytes)
}

// NewStreamEndpoint adds an SSE endpoint to the mock server. Only GET requests are accepted.
func (s *Server) NewStreamEndpoint(logger framework.Logger, options ...EndpointOption) *StreamEndpoint {
	if logger == nil {
		logger = s.logger
	}
	streams := eventsource.NewServer()
	streams.ReplayAll = true
	streams.Logger = eventSourceDebugLogger{logger}

	se := &StreamEndpoint{
		streams: streams,
		channel: "events",
		logger:  logger,
	}
	streams.Register(se.channel, se)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		streams.Handler(se.channel)(w, r)
		logger.Printf("End of stream request")
	})
	se.endpoint = s.NewEndpoint(handler, logger, options...)
	return se
}

// URL returns the URL that a streaming client should connect to.
func (se *StreamEndpoint) URL() string { return se.endpoint.BaseURL() }

// Endpoint returns the underlying mock endpoint, for inspecting incoming connections.
func (se *StreamEndpoint) Endpoint() *Endpoint { return se.endpoint }

// Publish sends an event to every connected client, and retains it so that clients who
// connect later will receive it on replay. If data is a string it is sent verbatim,
// otherwise it is serialized to JSON.
func (se *StreamEndpoint) Publish(id, name string, data interface{}) {
	event := streamEvent{id: id, name: name, data: data}
	se.lock.Lock()
	se.history = append(se.history, event)
	se.lock.Unlock()
	se.logger.Printf("Publishing stream event: %s %s", name, event.Data())
	se.streams.Publish([]string{se.channel}, event)
}

// Replay implements eventsource.Repository, so that clients connecting after events were
// published still see the full stream.
func (se *StreamEndpoint) Replay(channel, id string) chan eventsource.Event {
	se.lock.Lock()
	events := make([]eventsource.Event, 0, len(se.history))
	for _, e := range se.history {
		events = append(events, e)
	}
	se.lock.Unlock()

	eventsCh := make(chan eventsource.Event, len(events))
	for _, e := range events {
		eventsCh <- e
	}
	close(eventsCh)
	return eventsCh
}

// Close shuts down the SSE server and the endpoint, dropping any open connections.
func (se *StreamEndpoint) Close() {
	se.streams.Close()
	se.endpoint.Close()
}
