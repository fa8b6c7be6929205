// Package webdriver is the driver adapter for browser testing over the WebDriver
// protocol. It runs a local ChromeDriver for workstation use, or connects to a remote
// Selenium server when the config's exec target has one.
package webdriver

import (
	"fmt"
	"runtime"

	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/session"

	"github.com/sclevine/agouti"
)

// Driver owns one browser page for the duration of a test. Local execution also owns the
// ChromeDriver process.
type Driver struct {
	config    *session.Config
	logger    framework.Logger
	webDriver *agouti.WebDriver
	page      *agouti.Page
}

// NewDriver starts a browser according to the session config. Remote execution supports
// whatever browsers the Selenium server offers; local execution supports Chrome only.
func NewDriver(config *session.Config, logger framework.Logger) (*Driver, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	d := &Driver{config: config, logger: logger}

	if config.IsRemoteTarget() {
		caps := agouti.NewCapabilities().Browser(config.Browser())
		logger.Printf("Connecting to remote WebDriver at %s (browser: %s)",
			config.ExecTarget.Server, config.Browser())
		page, err := agouti.NewPage(config.ExecTarget.Server, agouti.Desired(caps))
		if err != nil {
			return nil, fmt.Errorf("could not open remote browser session: %w", err)
		}
		d.page = page
		return d, nil
	}

	if !config.IsChrome() {
		return nil, fmt.Errorf("local execution supports chrome only, not %q; set a remote server to use other browsers",
			config.Browser())
	}

	args := []string{"--window-size=1280,1024"}
	if config.IsHeadless() {
		args = append(args, "--headless")
	}
	if runtime.GOOS == "linux" {
		// required for running inside containers and CI images
		args = append(args, "--no-sandbox", "--disable-dev-shm-usage")
	}
	logger.Printf("Starting local ChromeDriver (args: %v)", args)

	d.webDriver = agouti.ChromeDriver(agouti.ChromeOptions("args", args))
	if err := d.webDriver.Start(); err != nil {
		return nil, fmt.Errorf("could not start ChromeDriver: %w", err)
	}
	page, err := d.webDriver.NewPage()
	if err != nil {
		_ = d.webDriver.Stop()
		return nil, fmt.Errorf("could not open browser session: %w", err)
	}
	d.page = page
	return d, nil
}

func (d *Driver) Platform() session.Platform { return session.PlatformWebSelenium }

func (d *Driver) Capabilities() framework.Capabilities {
	return framework.Capabilities{framework.CapabilityScreenshots, framework.CapabilityJavaScript}
}

// Page exposes the underlying browser page for page objects and custom interactions.
func (d *Driver) Page() *agouti.Page { return d.page }

// Navigate loads a URL in the browser.
func (d *Driver) Navigate(url string) error {
	d.logger.Printf("Navigating to %s", url)
	return d.page.Navigate(url)
}

// Screenshot saves a PNG of the current browser window.
func (d *Driver) Screenshot(filePath string) error {
	d.logger.Printf("Saving screenshot to %s", filePath)
	return d.page.Screenshot(filePath)
}

// Close destroys the browser session and, for local execution, stops ChromeDriver.
func (d *Driver) Close() error {
	var err error
	if d.page != nil {
		err = d.page.Destroy()
		d.page = nil
	}
	if d.webDriver != nil {
		if stopErr := d.webDriver.Stop(); err == nil {
			err = stopErr
		}
		d.webDriver = nil
	}
	return err
}
