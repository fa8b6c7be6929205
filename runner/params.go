package runner

import (
	"flag"
	"fmt"
	"os"

	"github.com/sylph-test/sylph/framework/sylphtest"
)

// Params are the command line options for a suite entry point.
type Params struct {
	ProjectPath    string
	Filters        sylphtest.RegexFilters
	Debug          bool
	DebugAll       bool
	JUnitFile      string
	SkipFile       string
	RecordFailures string
}

// Read populates the params from command line arguments, printing usage and returning
// false if they are invalid. args should be os.Args (the first element is skipped).
func (p *Params) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&p.ProjectPath, "project", ".", "path to the test project root")
	fs.Var(&p.Filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&p.Filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&p.Debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&p.DebugAll, "debug-all", false, "enable debug logging for all tests")
	fs.StringVar(&p.JUnitFile, "junit", "", "write JUnit XML output to the specified path")
	fs.StringVar(&p.SkipFile, "skip-file", "", "skip any tests whose names appear in this file")
	fs.StringVar(&p.RecordFailures, "record-failures", "",
		"write the names of failed tests to this file, suitable for use with -skip-file")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if p.ProjectPath == "" {
		fmt.Fprintln(os.Stderr, "-project must not be empty")
		fs.Usage()
		return false
	}
	return true
}
