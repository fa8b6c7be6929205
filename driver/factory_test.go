package driver

import (
	"testing"

	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionWithConfig(t *testing.T, config *session.Config) *session.Session {
	t.Helper()
	s, err := session.New(t.TempDir(), session.WithConfig(config),
		session.WithLogger(framework.NullLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestForSessionBuildsAPIDriver(t *testing.T) {
	s := sessionWithConfig(t, &session.Config{
		TestContext: session.TestContextConfig{Platform: session.PlatformAPI, TestEnv: session.DevEnv},
	})

	d, err := ForSession(s)
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	assert.Equal(t, session.PlatformAPI, d.Platform())
	assert.True(t, d.Capabilities().Has(framework.CapabilityStreaming))
}

func TestForSessionMobileRequiresAppiumServer(t *testing.T) {
	s := sessionWithConfig(t, &session.Config{
		TestContext: session.TestContextConfig{Platform: session.PlatformMobile, TestEnv: session.DevEnv},
		DesiredCaps: map[string]interface{}{session.CapPlatformName: "Android"},
	})

	_, err := ForSession(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Appium")
}

func TestForSessionLocalWebRequiresChrome(t *testing.T) {
	s := sessionWithConfig(t, &session.Config{
		TestContext: session.TestContextConfig{Platform: session.PlatformWebSelenium, TestEnv: session.DevEnv},
		DesiredCaps: map[string]interface{}{session.CapBrowser: "firefox"},
	})

	_, err := ForSession(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome")
}
