package wrappers

import (
	"os"
	"testing"

	"github.com/sylph-test/sylph/driver"
	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/framework/sylphtest"
	"github.com/sylph-test/sylph/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	platform    session.Platform
	closes      int
	screenshots []string
}

func (d *fakeDriver) Platform() session.Platform { return d.platform }

func (d *fakeDriver) Capabilities() framework.Capabilities {
	return framework.Capabilities{framework.CapabilityScreenshots}
}

func (d *fakeDriver) Close() error {
	d.closes++
	return nil
}

func (d *fakeDriver) Screenshot(filePath string) error {
	d.screenshots = append(d.screenshots, filePath)
	return nil
}

func newTestSession(t *testing.T, platform session.Platform) *session.Session {
	t.Helper()
	s, err := session.New(t.TempDir(),
		session.WithConfig(&session.Config{
			TestContext: session.TestContextConfig{Platform: platform, TestEnv: session.DevEnv},
		}),
		session.WithLogger(framework.NullLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func runSuite(s *session.Session, action func(*sylphtest.T)) sylphtest.Results {
	return sylphtest.Run(sylphtest.TestConfiguration{
		TestLogger: sylphtest.NullTestLogger(),
		Context:    s,
	}, action)
}

func TestAPITestProvidesDriverAndSession(t *testing.T) {
	s := newTestSession(t, session.PlatformAPI)

	results := runSuite(s, func(t *sylphtest.T) {
		t.Run("uses api wrapper", func(t *sylphtest.T) {
			at := NewAPITest(t)
			assert.Equal(t, session.PlatformAPI, at.Driver.Platform())
			assert.Same(t, s, at.Session)
			assert.True(t, at.Config().IsAPI())
		})
	})
	assert.True(t, results.OK(), "failures: %v", results.Failures)
}

func TestWrapperRejectsWrongPlatform(t *testing.T) {
	s := newTestSession(t, session.PlatformMobile)

	results := runSuite(s, func(t *sylphtest.T) {
		t.Run("api test on mobile session", func(t *sylphtest.T) {
			NewAPITest(t)
			t.Errorf("should not have reached this point")
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "requires platform")
}

func TestWrapperRequiresSessionInContext(t *testing.T) {
	results := sylphtest.Run(sylphtest.TestConfiguration{
		TestLogger: sylphtest.NullTestLogger(),
	}, func(t *sylphtest.T) {
		t.Run("no session", func(t *sylphtest.T) {
			NewAPITest(t)
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "without a session")
}

func TestCustomTestClosesDriverExactlyOnce(t *testing.T) {
	s := newTestSession(t, session.PlatformAPI)
	d := &fakeDriver{platform: session.PlatformAPI}
	factory := func(*session.Session) (driver.Driver, error) { return d, nil }

	results := runSuite(s, func(t *sylphtest.T) {
		t.Run("passing test", func(t *sylphtest.T) {
			ct := NewCustomTest(t, factory)
			assert.Same(t, driver.Driver(d), ct.Driver)
		})
	})
	assert.True(t, results.OK())
	assert.Equal(t, 1, d.closes)
	assert.Empty(t, d.screenshots, "passing tests do not take screenshots")
}

func TestCustomTestTakesScreenshotOnFailure(t *testing.T) {
	s := newTestSession(t, session.PlatformAPI)
	d := &fakeDriver{platform: session.PlatformAPI}
	factory := func(*session.Session) (driver.Driver, error) { return d, nil }

	results := runSuite(s, func(t *sylphtest.T) {
		t.Run("failing test", func(t *sylphtest.T) {
			NewCustomTest(t, factory)
			t.Errorf("deliberate failure")
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Equal(t, 1, d.closes, "driver must still be closed after a failure")
	require.Len(t, d.screenshots, 1)
	assert.Equal(t, s.ScreenshotPath("failing test"), d.screenshots[0])
}

func TestCustomTestTeardownRunsOnFailNow(t *testing.T) {
	s := newTestSession(t, session.PlatformAPI)
	d := &fakeDriver{platform: session.PlatformAPI}
	factory := func(*session.Session) (driver.Driver, error) { return d, nil }

	results := runSuite(s, func(t *sylphtest.T) {
		t.Run("terminating test", func(t *sylphtest.T) {
			NewCustomTest(t, factory)
			t.Errorf("fatal problem")
			t.FailNow()
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Equal(t, 1, d.closes)
}

func TestScreenshotPathsLandInResultsDir(t *testing.T) {
	s := newTestSession(t, session.PlatformAPI)
	d := &fakeDriver{platform: session.PlatformAPI}
	factory := func(*session.Session) (driver.Driver, error) { return d, nil }

	runSuite(s, func(t *sylphtest.T) {
		t.Run("outer", func(t *sylphtest.T) {
			t.Run("inner failure", func(t *sylphtest.T) {
				NewCustomTest(t, factory)
				t.Errorf("deliberate failure")
			})
		})
	})
	require.Len(t, d.screenshots, 1)
	rel, err := os.Stat(s.ResultsDir())
	require.NoError(t, err)
	assert.True(t, rel.IsDir())
	assert.Contains(t, d.screenshots[0], s.ResultsDir())
}
