// Package appium is the driver adapter for native mobile testing through an Appium
// server. It speaks the WebDriver protocol via agouti, plus the Appium touch extension
// for gestures.
package appium

import (
	"fmt"
	"time"

	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/session"

	"github.com/sclevine/agouti"
)

// Driver owns one Appium session for the duration of a test.
type Driver struct {
	config *session.Config
	logger framework.Logger
	page   *agouti.Page
}

// NewDriver opens a session against the Appium server named in the config's exec target,
// passing the desired capabilities through unchanged.
func NewDriver(config *session.Config, logger framework.Logger) (*Driver, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	if !config.IsRemoteTarget() {
		return nil, fmt.Errorf("mobile testing requires an Appium server in the exec target")
	}

	caps := agouti.NewCapabilities()
	for name, value := range config.DesiredCaps {
		caps[name] = value
	}
	logger.Printf("Connecting to Appium at %s (device: %s, platform: %s)",
		config.ExecTarget.Server, config.Cap(session.CapDeviceName), config.MobilePlatform())

	page, err := agouti.NewPage(config.ExecTarget.Server, agouti.Desired(caps))
	if err != nil {
		return nil, fmt.Errorf("could not open Appium session: %w", err)
	}
	return &Driver{config: config, logger: logger, page: page}, nil
}

func (d *Driver) Platform() session.Platform { return session.PlatformMobile }

func (d *Driver) Capabilities() framework.Capabilities {
	return framework.Capabilities{framework.CapabilityScreenshots, framework.CapabilitySwipe}
}

// Page exposes the underlying session for page objects and custom interactions.
func (d *Driver) Page() *agouti.Page { return d.page }

// Screenshot saves a PNG of the current device screen.
func (d *Driver) Screenshot(filePath string) error {
	d.logger.Printf("Saving screenshot to %s", filePath)
	return d.page.Screenshot(filePath)
}

// WindowSize returns the device screen dimensions in points.
func (d *Driver) WindowSize() (width, height int, err error) {
	var rect struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if err := d.page.Session().Send("GET", "window/rect", nil, &rect); err != nil {
		return 0, 0, fmt.Errorf("could not read window size: %w", err)
	}
	return rect.Width, rect.Height, nil
}

// Swipe performs a press-move-release touch gesture between two points.
func (d *Driver) Swipe(fromX, fromY, toX, toY int, duration time.Duration) error {
	d.logger.Printf("Swiping from (%d,%d) to (%d,%d)", fromX, fromY, toX, toY)
	body := map[string]interface{}{
		"actions": []interface{}{
			map[string]interface{}{"action": "press", "options": map[string]interface{}{"x": fromX, "y": fromY}},
			map[string]interface{}{"action": "wait", "options": map[string]interface{}{"ms": duration.Milliseconds()}},
			map[string]interface{}{"action": "moveTo", "options": map[string]interface{}{"x": toX, "y": toY}},
			map[string]interface{}{"action": "release", "options": map[string]interface{}{}},
		},
	}
	if err := d.page.Session().Send("POST", "touch/perform", body, nil); err != nil {
		return fmt.Errorf("swipe failed: %w", err)
	}
	return nil
}

// Close destroys the Appium session.
func (d *Driver) Close() error {
	if d.page == nil {
		return nil
	}
	err := d.page.Destroy()
	d.page = nil
	return err
}
