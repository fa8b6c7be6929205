// Package pages provides the base behavior for page objects: polling for elements,
// waiting on conditions, and platform-specific interaction helpers. A test project
// defines a type per screen, embeds the base for its platform, and adds locators and
// screen-specific operations.
package pages

import (
	"fmt"
	"time"

	"github.com/sylph-test/sylph/framework"
)

const (
	// DefaultElementWait is how long IsElementAvailable polls before giving up.
	DefaultElementWait = time.Second * 30

	// DefaultConditionWait is how long WaitForCondition polls before giving up.
	DefaultConditionWait = time.Second * 10

	pollInterval = time.Second
)

// sleepFor sleeps one poll interval, shortened so a wait never overshoots its deadline.
func sleepFor(remaining time.Duration) {
	if remaining < pollInterval {
		time.Sleep(remaining)
		return
	}
	time.Sleep(pollInterval)
}

// Element is the minimal surface a page object needs from a UI element. Both agouti
// selections and adapters over other element types satisfy it.
type Element interface {
	Visible() (bool, error)
	Enabled() (bool, error)
}

// TimeoutError is returned when a condition was not met within its wait time.
type TimeoutError struct {
	Condition string
	Wait      time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("condition %q was not met within %s", e.Condition, e.Wait)
}

// LoadError is returned when a page's load indicator element did not appear.
type LoadError struct {
	PageName string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("page %q did not finish loading", e.PageName)
}

// Page is the platform-independent core of a page object.
type Page struct {
	name        string
	logger      framework.Logger
	elementWait time.Duration
}

func newPage(name string, logger framework.Logger) Page {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return Page{name: name, logger: logger, elementWait: DefaultElementWait}
}

// SetElementWait changes how long load validation and element searches wait before
// giving up. Pages on slow environments raise it; most pages keep the default.
func (p *Page) SetElementWait(wait time.Duration) { p.elementWait = wait }

// ElementWait returns the page's element wait.
func (p *Page) ElementWait() time.Duration { return p.elementWait }

// Name returns the page's display name, used in log output and errors.
func (p *Page) Name() string { return p.name }

func (p *Page) Logger() framework.Logger { return p.logger }

// IsElementAvailable repeatedly evaluates the locator until the element is both visible
// and enabled, or the wait expires. Locator errors count as "not there yet" rather than
// failing, because elements commonly do not exist until the UI settles.
func (p *Page) IsElementAvailable(name string, locate func() Element, wait time.Duration) bool {
	if name == "" {
		name = p.name
	}
	deadline := time.Now().Add(wait)
	beginning := time.Now()
	for {
		if e := locate(); e != nil {
			visible, err1 := e.Visible()
			enabled, err2 := e.Enabled()
			if err1 == nil && err2 == nil && visible && enabled {
				p.logger.Printf("Found %s", name)
				return true
			}
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			p.logger.Printf("%s not found", name)
			return false
		}
		sleepFor(remaining)
		p.logger.Printf("Waiting for: %s | Elapsed seconds: %d", name,
			int(time.Since(beginning).Seconds()))
	}
}

// WaitForCondition repeatedly evaluates the condition until it is true or the wait
// expires, in which case it returns a TimeoutError. Condition errors count as false.
func (p *Page) WaitForCondition(name string, condition func() (bool, error), wait time.Duration) error {
	deadline := time.Now().Add(wait)
	beginning := time.Now()
	for {
		if ok, err := condition(); err == nil && ok {
			return nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			p.logger.Printf("Condition was not met: Elapsed seconds: %d",
				int(time.Since(beginning).Seconds()))
			return &TimeoutError{Condition: name, Wait: wait}
		}
		sleepFor(remaining)
		p.logger.Printf("Waiting for %s | Elapsed seconds: %d", name,
			int(time.Since(beginning).Seconds()))
	}
}

// ValidateLoaded is the page-load check: the load indicator element must become
// available within the element wait. The platform constructors run it automatically
// when given a load indicator; pages that need a custom wait can construct without one,
// adjust the wait, and call it directly.
func (p *Page) ValidateLoaded(locate func() Element) error {
	p.logger.Printf("%s is loading...", p.name)
	if !p.IsElementAvailable(p.name, locate, p.elementWait) {
		return &LoadError{PageName: p.name}
	}
	p.logger.Printf("%s is available", p.name)
	return nil
}
