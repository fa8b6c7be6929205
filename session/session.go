package session

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/framework/helpers"

	"github.com/google/uuid"
)

const (
	// ResultsDirName is the directory under the project path where a session writes its
	// log file and failure screenshots.
	ResultsDirName = "test_results"

	logFileName = "results.log"
)

// Session is the shared context for one test run. It owns the resolved configuration, a
// unique run ID, the results directory, and a logger that writes both to stdout and to
// the results log file. A session does not own a driver; driver construction is done per
// test by the wrappers package, using the session's configuration.
type Session struct {
	id          uuid.UUID
	config      *Config
	projectPath string
	resultsDir  string
	logFile     *os.File
	logger      framework.Logger
}

type sessionOptions struct {
	logger     framework.Logger
	config     *Config
	resultsDir string
}

type SessionOption helpers.ConfigOption[sessionOptions]

type sessionOptionLogger struct{ logger framework.Logger }

func (o sessionOptionLogger) Configure(opts *sessionOptions) error {
	opts.logger = o.logger
	return nil
}

// WithLogger replaces the session's default stdout-plus-file logger. When set, the
// session does not create a results log file.
func WithLogger(logger framework.Logger) SessionOption { return sessionOptionLogger{logger} }

type sessionOptionConfig struct{ config *Config }

func (o sessionOptionConfig) Configure(opts *sessionOptions) error {
	opts.config = o.config
	return nil
}

// WithConfig supplies the configuration directly instead of loading it from the
// project's config file.
func WithConfig(config *Config) SessionOption { return sessionOptionConfig{config} }

type sessionOptionResultsDir struct{ dir string }

func (o sessionOptionResultsDir) Configure(opts *sessionOptions) error {
	opts.resultsDir = o.dir
	return nil
}

// WithResultsDir overrides where log output and screenshots are written.
func WithResultsDir(dir string) SessionOption { return sessionOptionResultsDir{dir} }

// New creates a session for the test project rooted at projectPath. It resolves the
// configuration, creates the results directory, and opens the results log.
func New(projectPath string, options ...SessionOption) (*Session, error) {
	var opts sessionOptions
	if err := helpers.ApplyOptions(&opts, options...); err != nil {
		return nil, err
	}

	s := &Session{
		id:          uuid.New(),
		projectPath: projectPath,
		resultsDir:  opts.resultsDir,
	}
	if s.resultsDir == "" {
		s.resultsDir = filepath.Join(projectPath, ResultsDirName)
	}
	if err := os.MkdirAll(s.resultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create results directory: %w", err)
	}

	s.logger = opts.logger
	if s.logger == nil {
		file, err := os.OpenFile(filepath.Join(s.resultsDir, logFileName),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open results log: %w", err)
		}
		s.logFile = file
		s.logger = log.New(io.MultiWriter(os.Stdout, file), "", log.LstdFlags)
	}

	s.config = opts.config
	if s.config == nil {
		config, err := NewConfigLoader(projectPath, s.logger).Load()
		if err != nil {
			if s.logFile != nil {
				_ = s.logFile.Close()
			}
			return nil, err
		}
		s.config = config
	} else if err := s.config.Normalize(); err != nil {
		if s.logFile != nil {
			_ = s.logFile.Close()
		}
		return nil, err
	}

	s.logger.Printf("Test session %s started (platform: %s, environment: %s)",
		s.id, s.config.Platform(), s.config.Environment())
	return s, nil
}

func (s *Session) ID() uuid.UUID            { return s.id }
func (s *Session) Config() *Config          { return s.config }
func (s *Session) Logger() framework.Logger { return s.logger }
func (s *Session) ProjectPath() string      { return s.projectPath }
func (s *Session) ResultsDir() string       { return s.resultsDir }

// ScreenshotPath returns where a failure screenshot for the named test should be written.
// The name is sanitized so that subtest paths produce valid file names.
func (s *Session) ScreenshotPath(testName string) string {
	sanitized := make([]rune, 0, len(testName))
	for _, ch := range testName {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9',
			ch == '-', ch == '_', ch == '.':
			sanitized = append(sanitized, ch)
		default:
			sanitized = append(sanitized, '_')
		}
	}
	return filepath.Join(s.resultsDir, string(sanitized)+".png")
}

// Close ends the session, releasing the results log file. It does not remove any results.
func (s *Session) Close() error {
	s.logger.Printf("Test session %s finished", s.id)
	if s.logFile != nil {
		return s.logFile.Close()
	}
	return nil
}
