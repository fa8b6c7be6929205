package sylphtest

import (
	"fmt"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID TestID
	Errors []error
}

// Failed returns true if any errors were reported in this test scope.
func (r TestResult) Failed() bool {
	return len(r.Errors) > 0
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// TestID is a hierarchical test name: each element is the name of a test scope, with
// subtest names appended to their parents'.
type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}

// TestFailure is a single reported error tagged with the test that reported it.
type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// FailureErrors flattens the failed scopes into one TestFailure per reported error.
func (r Results) FailureErrors() []TestFailure {
	var ret []TestFailure
	for _, test := range r.Failures {
		for _, err := range test.Errors {
			ret = append(ret, TestFailure{ID: test.TestID, Err: err})
		}
	}
	return ret
}
