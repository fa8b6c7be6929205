package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sylph-test/sylph/framework"

	"gopkg.in/yaml.v3"
)

const (
	configDirName      = "config"
	configFileNameJSON = "session_config.json"
	configFileNameYAML = "session_config.yaml"
)

// Environment variables that override config file properties. An override is applied only
// when the variable is set and non-empty.
const (
	EnvSUTType         = "SUT_TYPE"
	EnvTestEnv         = "TEST_ENV"
	EnvServer          = "SERVER"
	EnvBrowser         = "BROWSER"
	EnvPlatform        = "PLATFORM"
	EnvVersion         = "VERSION"
	EnvHeadless        = "HEADLESS"
	EnvDeviceName      = "DEVICE_NAME"
	EnvPlatformName    = "PLATFORM_NAME"
	EnvPlatformVersion = "PLATFORM_VERSION"
	EnvApp             = "APP"
	EnvAutomationName  = "AUTOMATION_NAME"
	EnvWdaLocalPort    = "WDA_LOCAL_PORT"
	EnvRealDevice      = "REAL_DEVICE"
)

// ConfigLoader reads the session configuration for a test project. The project is expected
// to keep a session_config.json or session_config.yaml file in its config directory; when
// neither exists, a default configuration is synthesized from the SUT_TYPE environment
// variable so that simple projects can run with no config file at all.
type ConfigLoader struct {
	projectPath string
	logger      framework.Logger
}

func NewConfigLoader(projectPath string, logger framework.Logger) *ConfigLoader {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &ConfigLoader{projectPath: projectPath, logger: logger}
}

// Load produces the fully resolved session configuration: file contents (or a platform
// template), then environment overrides, then normalization.
func (l *ConfigLoader) Load() (*Config, error) {
	config, err := l.readConfigFile()
	if err != nil {
		return nil, err
	}
	if config == nil {
		platform := Platform(strings.ToLower(os.Getenv(EnvSUTType)))
		if platform == "" {
			platform = PlatformAPI
		}
		l.logger.Printf("No session config file found, using %q template", platform)
		config = templateFor(platform)
	}
	l.applyEnvOverrides(config)
	if err := config.Normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *ConfigLoader) readConfigFile() (*Config, error) {
	jsonPath := filepath.Join(l.projectPath, configDirName, configFileNameJSON)
	if data, err := os.ReadFile(jsonPath); err == nil {
		l.logger.Printf("Loading session config from %s", jsonPath)
		return parseConfigJSON(data)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	yamlPath := filepath.Join(l.projectPath, configDirName, configFileNameYAML)
	if data, err := os.ReadFile(yamlPath); err == nil {
		l.logger.Printf("Loading session config from %s", yamlPath)
		return parseConfigYAML(data)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return nil, nil
}

// Parsing is strict: a misspelled property name in a config file should fail loudly
// instead of being silently ignored.

func parseConfigJSON(data []byte) (*Config, error) {
	var config Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("error in session config file: %w", err)
	}
	return &config, nil
}

func parseConfigYAML(data []byte) (*Config, error) {
	var config Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("error in session config file: %w", err)
	}
	return &config, nil
}

func (l *ConfigLoader) applyEnvOverrides(config *Config) {
	l.override(EnvSUTType, func(v string) { config.TestContext.Platform = Platform(v) })
	l.override(EnvTestEnv, func(v string) { config.TestContext.TestEnv = v })
	l.override(EnvServer, func(v string) { config.ExecTarget.Server = v })
	l.override(EnvRealDevice, func(v string) {
		b := isTruthy(v)
		config.ExecTarget.RealDevice = &b
	})

	capOverrides := map[string]string{
		EnvBrowser:         CapBrowser,
		EnvPlatform:        CapPlatform,
		EnvVersion:         CapVersion,
		EnvHeadless:        CapHeadless,
		EnvDeviceName:      CapDeviceName,
		EnvPlatformName:    CapPlatformName,
		EnvPlatformVersion: CapPlatformVersion,
		EnvApp:             CapApp,
		EnvAutomationName:  CapAutomationName,
		EnvWdaLocalPort:    CapWdaLocalPort,
	}
	for envVar, capName := range capOverrides {
		capName := capName
		l.override(envVar, func(v string) {
			if config.DesiredCaps == nil {
				config.DesiredCaps = make(map[string]interface{})
			}
			config.DesiredCaps[capName] = v
		})
	}
}

func (l *ConfigLoader) override(envVar string, apply func(string)) {
	if value := os.Getenv(envVar); value != "" {
		l.logger.Printf("Environment override found for %s", envVar)
		apply(value)
	}
}

func isTruthy(value string) bool {
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	switch strings.ToLower(value) {
	case "y", "yes":
		return true
	}
	return false
}

// templateFor returns the default configuration for a platform, used when a project has
// no config file. The values match what a developer workstation setup most commonly needs.
func templateFor(platform Platform) *Config {
	config := &Config{
		TestContext: TestContextConfig{Platform: platform, TestEnv: DevEnv},
		DesiredCaps: map[string]interface{}{},
	}
	switch platform {
	case PlatformWebSelenium, platformWebAlias, PlatformWebPlaywright:
		config.DesiredCaps[CapBrowser] = "chrome"
		config.DesiredCaps[CapHeadless] = true
	case PlatformMobile:
		config.DesiredCaps[CapPlatformName] = "Android"
		config.DesiredCaps[CapDeviceName] = "emulator-5554"
		config.DesiredCaps[CapAutomationName] = "UiAutomator2"
		config.ExecTarget.Server = "http://localhost:4723/wd/hub"
	}
	return config
}
