package driver

import (
	"fmt"

	"github.com/sylph-test/sylph/driver/api"
	"github.com/sylph-test/sylph/driver/appium"
	"github.com/sylph-test/sylph/driver/playwright"
	"github.com/sylph-test/sylph/driver/webdriver"
	"github.com/sylph-test/sylph/session"
)

// ForSession constructs the driver adapter that the session's platform tag selects.
func ForSession(s *session.Session) (Driver, error) {
	switch s.Config().Platform() {
	case session.PlatformAPI:
		return api.NewDriver(s.Config(), s.Logger()), nil
	case session.PlatformMobile:
		return appium.NewDriver(s.Config(), s.Logger())
	case session.PlatformWebSelenium:
		return webdriver.NewDriver(s.Config(), s.Logger())
	case session.PlatformWebPlaywright:
		return playwright.NewDriver(s.Config(), s.Logger())
	default:
		// Normalize rejects unknown tags at load time, so this is only reachable if a
		// config was constructed by hand and never normalized.
		return nil, fmt.Errorf("no driver adapter for platform %q", s.Config().Platform())
	}
}
