package pages

import (
	"github.com/sylph-test/sylph/framework"

	"github.com/sclevine/agouti"
)

// WebPage is the base for page objects driving a browser over WebDriver.
type WebPage struct {
	Page
	browser *agouti.Page
}

// NewWebPage creates the base for a web page object. If loadIndicator is non-nil, the
// page is validated by waiting for that element and a LoadError is returned when it does
// not appear.
func NewWebPage(name string, browser *agouti.Page, logger framework.Logger,
	loadIndicator func() Element) (*WebPage, error) {
	wp := &WebPage{
		Page:    newPage(name, logger),
		browser: browser,
	}
	if loadIndicator != nil {
		if err := wp.ValidateLoaded(loadIndicator); err != nil {
			return nil, err
		}
	}
	return wp, nil
}

// Browser exposes the underlying agouti page for locators and interactions.
func (wp *WebPage) Browser() *agouti.Page { return wp.browser }

// Find returns an element locator for a CSS selector, for use with IsElementAvailable
// and TryFindElement.
func (wp *WebPage) Find(selector string) func() Element {
	return func() Element { return wp.browser.Find(selector) }
}
