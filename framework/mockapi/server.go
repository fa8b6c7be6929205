package mockapi

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sylph-test/sylph/framework"

	"github.com/gorilla/mux"
)

const serverShutdownTimeout = time.Second * 10

// Server is an in-process HTTP server that hosts mock endpoints for API tests. Each test
// creates the endpoints it needs, points the API driver at their URLs, and closes them
// (normally via sylphtest.(*T).Defer) when the test scope exits.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	baseURL    string
	endpoints  *endpointManager
	logger     framework.Logger
}

// NewServer starts a mock API server on an ephemeral localhost port.
func NewServer(logger framework.Logger) (*Server, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("cannot listen for mock endpoints: %w", err)
	}
	baseURL := fmt.Sprintf("http://%s", listener.Addr())
	endpoints := newEndpointManager(baseURL, logger)

	router := mux.NewRouter()
	router.PathPrefix(endpointPathPrefix).HandlerFunc(endpoints.serveHTTP)

	s := &Server{
		httpServer: &http.Server{Handler: router, ReadHeaderTimeout: serverShutdownTimeout},
		listener:   listener,
		baseURL:    baseURL,
		endpoints:  endpoints,
		logger:     logger,
	}
	go func() {
		_ = s.httpServer.Serve(listener)
	}()
	logger.Printf("Mock API server listening at %s", baseURL)
	return s, nil
}

// BaseURL returns the root URL of the mock server.
func (s *Server) BaseURL() string { return s.baseURL }

// NewEndpoint adds a mock endpoint with the given handler. If logger is nil, the server's
// own logger is used.
func (s *Server) NewEndpoint(handler http.Handler, logger framework.Logger, options ...EndpointOption) *Endpoint {
	return s.endpoints.newEndpoint(handler, logger, options...)
}

// Close shuts down the server and closes every remaining endpoint, cancelling any active
// request contexts.
func (s *Server) Close() error {
	s.endpoints.closeAll()
	return s.httpServer.Close()
}
