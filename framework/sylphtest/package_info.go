// Package sylphtest contains a test runner framework that is similar to Go's testing package,
// but is run as regular Go application code rather than Go tests. It adds richer capabilities
// for configuration, logging, and result reporting, and its cleanup mechanism is what
// guarantees that every session's driver is torn down exactly once no matter how the test
// body exits.
package sylphtest
