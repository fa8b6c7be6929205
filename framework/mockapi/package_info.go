// Package mockapi provides an in-process stub backend for API tests. A Server can host any
// number of mock endpoints, each with its own handler and a queue of incoming request
// information that tests can inspect, plus server-sent-event endpoints for tests that
// exercise streaming behavior.
package mockapi
