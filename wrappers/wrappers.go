// Package wrappers ties a test scope to a driver. Constructing a wrapper at the top of
// a test gives it a driver appropriate to the session's platform, a logger prefixed with
// the test name, and guaranteed teardown: the driver is closed when the test scope ends,
// with a failure screenshot saved first when a UI test fails.
package wrappers

import (
	"fmt"

	"github.com/sylph-test/sylph/driver"
	"github.com/sylph-test/sylph/driver/api"
	"github.com/sylph-test/sylph/driver/appium"
	pwdriver "github.com/sylph-test/sylph/driver/playwright"
	"github.com/sylph-test/sylph/driver/webdriver"
	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/framework/sylphtest"
	"github.com/sylph-test/sylph/session"
)

// Base carries what every wrapper shares. Test code normally reaches it through an
// embedding wrapper such as APITest.
type Base struct {
	T       *sylphtest.T
	Session *session.Session
	Log     framework.Logger
}

func newBase(t *sylphtest.T) Base {
	s, _ := t.Context().(*session.Session)
	if s == nil {
		t.Errorf("test was run without a session in its context")
		t.FailNow()
	}
	return Base{
		T:       t,
		Session: s,
		Log:     framework.LoggerWithPrefix(t.DebugLogger(), fmt.Sprintf("[%s] ", t.ID())),
	}
}

func (b *Base) Config() *session.Config { return b.Session.Config() }

func (b *Base) requirePlatform(platform session.Platform) {
	if b.Config().Platform() != platform {
		b.T.Errorf("test requires platform %q but the session is configured for %q",
			platform, b.Config().Platform())
		b.T.FailNow()
	}
}

// deferTeardown guarantees the driver is closed exactly once when the test scope ends,
// whether it passed, failed, or was skipped. A failing test gets a screenshot first if
// the driver can take one.
func (b *Base) deferTeardown(d driver.Driver) {
	b.T.Defer(func() {
		if b.T.Failed() {
			if shooter, ok := d.(driver.Screenshotter); ok {
				path := b.Session.ScreenshotPath(b.T.ID().String())
				if err := shooter.Screenshot(path); err != nil {
					b.Log.Printf("Could not save failure screenshot: %s", err)
				} else {
					b.Log.Printf("Saved failure screenshot to %s", path)
				}
			}
		}
		if err := d.Close(); err != nil {
			b.Log.Printf("Driver teardown reported an error: %s", err)
		}
	})
}

func (b *Base) failDriverError(err error) {
	b.T.Errorf("could not construct driver: %s", err)
	b.T.FailNow()
}

// APITest is the wrapper for API tests.
type APITest struct {
	Base
	Driver *api.Driver
}

func NewAPITest(t *sylphtest.T) *APITest {
	b := newBase(t)
	b.requirePlatform(session.PlatformAPI)
	d := api.NewDriver(b.Config(), b.Log)
	b.deferTeardown(d)
	return &APITest{Base: b, Driver: d}
}

// WebTest is the wrapper for browser tests over WebDriver.
type WebTest struct {
	Base
	Driver *webdriver.Driver
}

func NewWebTest(t *sylphtest.T) *WebTest {
	b := newBase(t)
	b.requirePlatform(session.PlatformWebSelenium)
	d, err := webdriver.NewDriver(b.Config(), b.Log)
	if err != nil {
		b.failDriverError(err)
	}
	b.deferTeardown(d)
	return &WebTest{Base: b, Driver: d}
}

// MobileTest is the wrapper for native mobile tests through Appium.
type MobileTest struct {
	Base
	Driver *appium.Driver
}

func NewMobileTest(t *sylphtest.T) *MobileTest {
	b := newBase(t)
	b.requirePlatform(session.PlatformMobile)
	d, err := appium.NewDriver(b.Config(), b.Log)
	if err != nil {
		b.failDriverError(err)
	}
	b.deferTeardown(d)
	return &MobileTest{Base: b, Driver: d}
}

// PlaywrightTest is the wrapper for browser tests through Playwright.
type PlaywrightTest struct {
	Base
	Driver *pwdriver.Driver
}

func NewPlaywrightTest(t *sylphtest.T) *PlaywrightTest {
	b := newBase(t)
	b.requirePlatform(session.PlatformWebPlaywright)
	d, err := pwdriver.NewDriver(b.Config(), b.Log)
	if err != nil {
		b.failDriverError(err)
	}
	b.deferTeardown(d)
	return &PlaywrightTest{Base: b, Driver: d}
}

// CustomTest is the wrapper for projects that bring their own driver adapter. The
// factory runs against the current session and the resulting driver gets the same
// teardown guarantees as the built-in wrappers.
type CustomTest struct {
	Base
	Driver driver.Driver
}

func NewCustomTest(t *sylphtest.T, factory driver.Factory) *CustomTest {
	b := newBase(t)
	d, err := factory(b.Session)
	if err != nil {
		b.failDriverError(err)
	}
	b.deferTeardown(d)
	return &CustomTest{Base: b, Driver: d}
}
