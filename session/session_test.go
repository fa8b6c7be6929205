package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sylph-test/sylph/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiConfig() *Config {
	return &Config{TestContext: TestContextConfig{Platform: PlatformAPI, TestEnv: DevEnv}}
}

func TestSessionCreatesResultsDirAndLog(t *testing.T) {
	projectPath := t.TempDir()

	s, err := New(projectPath, WithConfig(apiConfig()))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Equal(t, filepath.Join(projectPath, ResultsDirName), s.ResultsDir())
	info, err := os.Stat(s.ResultsDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	s.Logger().Printf("hello from the test")
	_, err = os.Stat(filepath.Join(s.ResultsDir(), logFileName))
	assert.NoError(t, err)
}

func TestSessionIDsAreUnique(t *testing.T) {
	projectPath := t.TempDir()
	s1, err := New(projectPath, WithConfig(apiConfig()), WithLogger(framework.NullLogger()))
	require.NoError(t, err)
	defer func() { _ = s1.Close() }()
	s2, err := New(projectPath, WithConfig(apiConfig()), WithLogger(framework.NullLogger()))
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	assert.NotEqual(t, s1.ID(), s2.ID())
}

func TestSessionWithLoggerDoesNotCreateLogFile(t *testing.T) {
	projectPath := t.TempDir()
	logger := &framework.CapturingLogger{}

	s, err := New(projectPath, WithConfig(apiConfig()), WithLogger(logger))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = os.Stat(filepath.Join(s.ResultsDir(), logFileName))
	assert.True(t, os.IsNotExist(err))
	assert.NotEmpty(t, logger.Output(), "expected the session start message to be captured")
}

func TestSessionLoadsConfigFromProject(t *testing.T) {
	projectPath := t.TempDir()
	writeConfigFile(t, projectPath, configFileNameJSON,
		`{"test_context": {"sut_type": "web", "test_env": "staging"}, "desired_caps": {"browser": "chrome"}}`)

	s, err := New(projectPath, WithLogger(framework.NullLogger()))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.True(t, s.Config().IsWebSelenium())
	assert.Equal(t, StagingEnv, s.Config().Environment())
}

func TestSessionRejectsInvalidConfig(t *testing.T) {
	projectPath := t.TempDir()
	bad := &Config{TestContext: TestContextConfig{Platform: "desktop"}}
	_, err := New(projectPath, WithConfig(bad), WithLogger(framework.NullLogger()))
	assert.Error(t, err)
}

func TestSessionScreenshotPath(t *testing.T) {
	projectPath := t.TempDir()
	s, err := New(projectPath, WithConfig(apiConfig()), WithLogger(framework.NullLogger()))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	path := s.ScreenshotPath("login/shows error")
	assert.Equal(t, filepath.Join(s.ResultsDir(), "login_shows_error.png"), path)
}

func TestSessionWithResultsDir(t *testing.T) {
	projectPath := t.TempDir()
	resultsDir := filepath.Join(t.TempDir(), "custom-results")

	s, err := New(projectPath, WithConfig(apiConfig()), WithResultsDir(resultsDir),
		WithLogger(framework.NullLogger()))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Equal(t, resultsDir, s.ResultsDir())
	info, err := os.Stat(resultsDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
