// Package playwright is the driver adapter for browser testing with Playwright. Besides
// driving the browser it records console output, page errors, and failed network
// responses, which the page objects surface as test diagnostics.
package playwright

import (
	"fmt"
	"os"
	"sync"

	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/session"

	"github.com/playwright-community/playwright-go"
)

// Driver owns one Playwright browser, context, and page for the duration of a test.
type Driver struct {
	config  *session.Config
	logger  framework.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	consoleErrors []string
	pageErrors    []string
	trafficErrors []FailedResponse
	lock          sync.Mutex
}

// FailedResponse records a network response with an error status observed while the page
// was loaded.
type FailedResponse struct {
	URL    string
	Status int
}

// NewDriver starts Playwright and launches a Chromium page. Firefox and WebKit can be
// selected with the browser capability.
func NewDriver(config *session.Config, logger framework.Logger) (*Driver, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start Playwright: %w", err)
	}

	browserType := pw.Chromium
	switch config.Browser() {
	case "firefox":
		browserType = pw.Firefox
	case "webkit", "safari":
		browserType = pw.WebKit
	}
	logger.Printf("Launching %s (headless: %t)", browserType.Name(), config.IsHeadless())

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(config.IsHeadless()),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	context, err := browser.NewContext()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	page, err := context.NewPage()
	if err != nil {
		_ = context.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not open page: %w", err)
	}

	d := &Driver{
		config:  config,
		logger:  logger,
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
	}
	d.attachListeners()
	return d, nil
}

func (d *Driver) attachListeners() {
	d.page.OnConsole(func(message playwright.ConsoleMessage) {
		if message.Type() != "error" {
			return
		}
		d.lock.Lock()
		d.consoleErrors = append(d.consoleErrors, message.Text())
		d.lock.Unlock()
	})
	d.page.OnPageError(func(err error) {
		d.lock.Lock()
		d.pageErrors = append(d.pageErrors, err.Error())
		d.lock.Unlock()
	})
	d.page.OnResponse(func(response playwright.Response) {
		if response.Status() < 400 {
			return
		}
		d.lock.Lock()
		d.trafficErrors = append(d.trafficErrors, FailedResponse{
			URL:    response.URL(),
			Status: response.Status(),
		})
		d.lock.Unlock()
	})
}

func (d *Driver) Platform() session.Platform { return session.PlatformWebPlaywright }

func (d *Driver) Capabilities() framework.Capabilities {
	return framework.Capabilities{
		framework.CapabilityScreenshots,
		framework.CapabilityJavaScript,
		framework.CapabilityHeadless,
	}
}

// Page exposes the underlying Playwright page for page objects and custom interactions.
func (d *Driver) Page() playwright.Page { return d.page }

// Navigate loads a URL and waits for the load event.
func (d *Driver) Navigate(url string) error {
	d.logger.Printf("Navigating to %s", url)
	_, err := d.page.Goto(url)
	return err
}

// Screenshot saves a PNG of the current page.
func (d *Driver) Screenshot(filePath string) error {
	d.logger.Printf("Saving screenshot to %s", filePath)
	_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(filePath),
	})
	if err != nil {
		// Screenshot can fail after the page is gone; make sure we don't leave a
		// zero-byte file behind in the results.
		_ = os.Remove(filePath)
	}
	return err
}

// ConsoleErrors returns the error-level console output recorded so far.
func (d *Driver) ConsoleErrors() []string {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]string(nil), d.consoleErrors...)
}

// PageErrors returns the uncaught page errors recorded so far.
func (d *Driver) PageErrors() []string {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]string(nil), d.pageErrors...)
}

// TrafficErrors returns the 4xx and 5xx network responses recorded so far.
func (d *Driver) TrafficErrors() []FailedResponse {
	d.lock.Lock()
	defer d.lock.Unlock()
	return append([]FailedResponse(nil), d.trafficErrors...)
}

// ClearDiagnostics discards the recorded console errors, page errors, and traffic
// errors, typically between navigations.
func (d *Driver) ClearDiagnostics() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.consoleErrors = nil
	d.pageErrors = nil
	d.trafficErrors = nil
}

// Close tears down the page, context, browser, and the Playwright process, in order.
func (d *Driver) Close() error {
	var firstErr error
	record := func(err error) {
		if firstErr == nil && err != nil {
			firstErr = err
		}
	}
	if d.page != nil {
		record(d.page.Close())
		d.page = nil
	}
	if d.context != nil {
		record(d.context.Close())
		d.context = nil
	}
	if d.browser != nil {
		record(d.browser.Close())
		d.browser = nil
	}
	if d.pw != nil {
		record(d.pw.Stop())
		d.pw = nil
	}
	return firstErr
}
