// Package driver defines the common surface of the platform adapters and the factory
// that picks one based on the session configuration. The adapters themselves live in
// subpackages so that a test project only links the automation stack it actually uses.
package driver

import (
	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/session"
)

// Driver is the minimal behavior every platform adapter provides. The concrete adapter
// types expose the platform-specific operations; tests that only need setup and teardown
// can stay on this interface.
type Driver interface {
	// Platform identifies which adapter this is.
	Platform() session.Platform

	// Capabilities reports what optional behaviors the adapter supports, so that a test
	// can skip itself when a capability it needs is missing.
	Capabilities() framework.Capabilities

	// Close releases every resource the adapter owns. It is safe to call more than once.
	Close() error
}

// Screenshotter is implemented by adapters that can capture an image of the current
// application state. The wrappers use it to save a screenshot when a UI test fails.
type Screenshotter interface {
	Screenshot(filePath string) error
}

// Factory constructs a Driver for a session. ForSession selects among the built-in
// adapter factories; a test project can substitute its own when it needs a custom stack.
type Factory func(s *session.Session) (Driver, error)
