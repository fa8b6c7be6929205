// Package runner is the entry point glue for a test project: it parses command line
// options, creates the session, wires up test logging and filtering, runs the suite,
// and reports the results.
package runner

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/framework/sylphtest"
	"github.com/sylph-test/sylph/session"
)

// allCapabilities is every capability any built-in adapter can report, used to explain
// which tests will be skipped on the current platform.
var allCapabilities = []string{
	framework.CapabilityScreenshots,
	framework.CapabilitySwipe,
	framework.CapabilityJavaScript,
	framework.CapabilityStreaming,
	framework.CapabilityHeadless,
}

// Main parses os.Args, runs the suite, and exits the process with a non-zero status if
// the run could not be performed or any test failed. A test project's main function is
// normally just a call to Main.
func Main(suite func(*sylphtest.T)) {
	var params Params
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	results, err := Run(params, suite)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !results.OK() {
		os.Exit(1)
	}
}

// Run creates a session for the project and runs the suite under it.
func Run(params Params, suite func(*sylphtest.T)) (*sylphtest.Results, error) {
	if params.SkipFile != "" {
		if err := loadSuppressions(&params); err != nil {
			return nil, err
		}
	}

	s, err := session.New(params.ProjectPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()

	capabilities := capabilitiesForPlatform(s.Config())

	var testLogger sylphtest.TestLogger
	consoleLogger := sylphtest.ConsoleTestLogger{
		DebugOutputOnFailure: params.Debug || params.DebugAll,
		DebugOutputOnSuccess: params.DebugAll,
	}
	if params.JUnitFile == "" {
		testLogger = consoleLogger
	} else {
		suiteName := fmt.Sprintf("sylph (%s, %s)", s.Config().Platform(), s.Config().Environment())
		testLogger = &sylphtest.MultiTestLogger{Loggers: []sylphtest.TestLogger{
			consoleLogger,
			sylphtest.NewJUnitTestLogger(params.JUnitFile, suiteName, params.Filters),
		}}
	}

	sylphtest.PrintFilterDescription(params.Filters, allCapabilities, capabilities)

	results := sylphtest.Run(sylphtest.TestConfiguration{
		Filter:       params.Filters.AsFilter(),
		TestLogger:   testLogger,
		Context:      s,
		Capabilities: capabilities,
	}, suite)

	fmt.Println()
	logErr := testLogger.EndLog(results)
	if logErr != nil {
		return nil, fmt.Errorf("error writing log: %v", logErr)
	}

	if params.RecordFailures != "" {
		f, err := os.Create(params.RecordFailures)
		if err != nil {
			return nil, fmt.Errorf("cannot create suppression file: %v", err)
		}
		for _, test := range results.Failures {
			fmt.Fprintln(f, test.TestID)
		}
		_ = f.Close()
	}

	return &results, nil
}

// capabilitiesForPlatform mirrors what the platform's driver adapter reports, without
// paying the cost of constructing a driver before any test has asked for one.
func capabilitiesForPlatform(config *session.Config) []string {
	switch {
	case config.IsMobile():
		return []string{framework.CapabilityScreenshots, framework.CapabilitySwipe}
	case config.IsWebSelenium():
		return []string{framework.CapabilityScreenshots, framework.CapabilityJavaScript}
	case config.IsWebPlaywright():
		return []string{framework.CapabilityScreenshots, framework.CapabilityJavaScript,
			framework.CapabilityHeadless}
	default:
		return []string{framework.CapabilityStreaming}
	}
}

func loadSuppressions(params *Params) error {
	file, err := os.Open(params.SkipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %v", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines
		if strings.TrimSpace(line) == "" {
			continue
		}
		escaped := regexp.QuoteMeta(line)
		if err := params.Filters.MustNotMatch.Set(escaped); err != nil {
			return fmt.Errorf("cannot parse suppression: %v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %v", err)
	}
	return nil
}
