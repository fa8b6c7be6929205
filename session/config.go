package session

import (
	"fmt"
	"strings"

	"github.com/sylph-test/sylph/framework/opt"
)

// Platform identifies which kind of system is under test, and therefore which driver
// adapter a session will construct.
type Platform string

const (
	PlatformAPI           Platform = "api"
	PlatformMobile        Platform = "mobile"
	PlatformWebSelenium   Platform = "web-selenium"
	PlatformWebPlaywright Platform = "web-playwright"

	// platformWebAlias is accepted in config files for backward compatibility with
	// configurations that predate the Playwright adapter.
	platformWebAlias Platform = "web"
)

// Test environment names used in the test_env config property.
const (
	DevEnv     = "dev"
	StagingEnv = "staging"
	ProdEnv    = "production"
)

// Desired-capability names that sylph itself reads. Anything else in the desired_caps
// map is passed through to the underlying driver untouched.
const (
	CapBrowser         = "browser"
	CapPlatform        = "platform"
	CapVersion         = "version"
	CapHeadless        = "is_headless"
	CapDeviceName      = "deviceName"
	CapPlatformName    = "platformName"
	CapPlatformVersion = "platformVersion"
	CapApp             = "app"
	CapAutomationName  = "automationName"
	CapWdaLocalPort    = "wdaLocalPort"
)

// Config describes everything a session needs to know about the system under test. It is
// normally loaded from a config/session_config.json or .yaml file by ConfigLoader, then
// adjusted by environment variable overrides.
type Config struct {
	TestContext  TestContextConfig      `json:"test_context" yaml:"test_context"`
	DesiredCaps  map[string]interface{} `json:"desired_caps" yaml:"desired_caps"`
	ExecTarget   ExecTargetConfig       `json:"exec_target" yaml:"exec_target"`
	Integrations IntegrationsConfig     `json:"tool_integration,omitempty" yaml:"tool_integration,omitempty"`
}

type TestContextConfig struct {
	Platform Platform `json:"sut_type" yaml:"sut_type"`
	TestEnv  string   `json:"test_env" yaml:"test_env"`
}

type ExecTargetConfig struct {
	// Server is the URL of a remote execution target: an Appium server, a Selenium grid
	// hub, or the base URL of the API under test. Empty means local execution.
	Server     string `json:"server" yaml:"server"`
	RealDevice *bool  `json:"realDevice,omitempty" yaml:"realDevice,omitempty"`
	IsGridHub  bool   `json:"isGridHub,omitempty" yaml:"isGridHub,omitempty"`
}

// IntegrationsConfig carries credentials for external test-management tools. Sylph does
// not talk to these itself; the values are exposed for reporting hooks in test projects.
type IntegrationsConfig struct {
	JiraUsername        string `json:"jira_username,omitempty" yaml:"jira_username,omitempty"`
	JiraPassword        string `json:"jira_password,omitempty" yaml:"jira_password,omitempty"`
	TestRailReport      bool   `json:"testrail_report,omitempty" yaml:"testrail_report,omitempty"`
	TestRailUsername    string `json:"testrail_username,omitempty" yaml:"testrail_username,omitempty"`
	TestRailPassword    string `json:"testrail_password,omitempty" yaml:"testrail_password,omitempty"`
	TestRailHost        string `json:"testrail_host,omitempty" yaml:"testrail_host,omitempty"`
	TestRailSuiteName   string `json:"testrail_test_suite_name,omitempty" yaml:"testrail_test_suite_name,omitempty"`
	TestRailProjectName string `json:"testrail_project_name,omitempty" yaml:"testrail_project_name,omitempty"`
}

// Normalize canonicalizes the platform tag and applies platform-specific fixups. It
// returns an error for an unknown platform, because every other part of sylph relies on
// the tag selecting exactly one driver adapter.
func (c *Config) Normalize() error {
	c.TestContext.Platform = Platform(strings.ToLower(strings.TrimSpace(string(c.TestContext.Platform))))
	if c.TestContext.Platform == platformWebAlias {
		c.TestContext.Platform = PlatformWebSelenium
	}
	switch c.TestContext.Platform {
	case PlatformAPI, PlatformMobile, PlatformWebSelenium, PlatformWebPlaywright:
	default:
		return fmt.Errorf("unsupported system under test: %q", c.TestContext.Platform)
	}

	// Selenium grid doesn't handle the mobile platformName capability correctly, so
	// remove it when executing against a grid hub.
	if c.ExecTarget.IsGridHub && c.IsMobile() {
		delete(c.DesiredCaps, CapPlatformName)
	}
	return nil
}

func (c *Config) Platform() Platform    { return c.TestContext.Platform }
func (c *Config) Environment() string   { return c.TestContext.TestEnv }
func (c *Config) IsAPI() bool           { return c.TestContext.Platform == PlatformAPI }
func (c *Config) IsMobile() bool        { return c.TestContext.Platform == PlatformMobile }
func (c *Config) IsWebSelenium() bool   { return c.TestContext.Platform == PlatformWebSelenium }
func (c *Config) IsWebPlaywright() bool { return c.TestContext.Platform == PlatformWebPlaywright }

// Cap returns a desired capability as a string, or "" if it is absent or null.
func (c *Config) Cap(name string) string {
	v, ok := c.DesiredCaps[name]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func (c *Config) Browser() string { return strings.ToLower(c.Cap(CapBrowser)) }
func (c *Config) IsChrome() bool  { return c.Browser() == "chrome" }
func (c *Config) IsFirefox() bool { return c.Browser() == "firefox" }

func (c *Config) MobilePlatform() string { return strings.ToLower(c.Cap(CapPlatformName)) }
func (c *Config) IsAndroid() bool        { return c.MobilePlatform() == "android" }
func (c *Config) IsIOS() bool            { return c.MobilePlatform() == "ios" }

// IsRealDevice reports whether the mobile target is real hardware rather than an
// emulator or simulator. It is false when the config does not say.
func (c *Config) IsRealDevice() bool {
	return opt.FromPtr(c.ExecTarget.RealDevice).OrElse(false)
}

// IsRemoteTarget reports whether execution happens against a remote server (Appium,
// Selenium grid, or remote browser endpoint) rather than a local driver process.
func (c *Config) IsRemoteTarget() bool { return c.ExecTarget.Server != "" }

// IsHeadless interprets the is_headless capability, accepting the usual boolean spellings.
func (c *Config) IsHeadless() bool {
	v, ok := c.DesiredCaps[CapHeadless]
	if !ok || v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(fmt.Sprintf("%v", v)) {
	case "true", "1", "y", "yes":
		return true
	}
	return false
}
