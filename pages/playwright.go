package pages

import (
	"fmt"

	pwdriver "github.com/sylph-test/sylph/driver/playwright"
	"github.com/sylph-test/sylph/framework"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightPage is the base for page objects driving a browser through Playwright. The
// driver records console errors, uncaught page errors, and failed network responses;
// this base surfaces them so a test can assert the page loaded cleanly.
type PlaywrightPage struct {
	Page
	driver *pwdriver.Driver
}

func NewPlaywrightPage(name string, driver *pwdriver.Driver, logger framework.Logger) *PlaywrightPage {
	return &PlaywrightPage{
		Page:   newPage(name, logger),
		driver: driver,
	}
}

// Browser exposes the underlying Playwright page for locators and interactions.
func (pp *PlaywrightPage) Browser() playwright.Page { return pp.driver.Page() }

func (pp *PlaywrightPage) Driver() *pwdriver.Driver { return pp.driver }

func (pp *PlaywrightPage) ConsoleErrors() []string { return pp.driver.ConsoleErrors() }

func (pp *PlaywrightPage) PageErrors() []string { return pp.driver.PageErrors() }

func (pp *PlaywrightPage) TrafficErrors() []pwdriver.FailedResponse {
	return pp.driver.TrafficErrors()
}

// RequireCleanLoad returns an error describing any diagnostics recorded since the last
// navigation, or nil if the page produced none.
func (pp *PlaywrightPage) RequireCleanLoad() error {
	consoleErrors := pp.ConsoleErrors()
	pageErrors := pp.PageErrors()
	trafficErrors := pp.TrafficErrors()
	if len(consoleErrors) == 0 && len(pageErrors) == 0 && len(trafficErrors) == 0 {
		return nil
	}
	return fmt.Errorf("page %q loaded with %d console error(s), %d page error(s), %d failed response(s)",
		pp.Name(), len(consoleErrors), len(pageErrors), len(trafficErrors))
}
