// Package framework contains the low-level support code that is shared by every
// part of sylph: the Logger abstraction with output capturing for test scopes,
// and the capability lists reported by driver adapters.
//
// The general model is:
//
// 1. A session owns exactly one driver adapter at a time; the adapter wraps a
// third-party automation client (HTTP, Appium, Selenium, Playwright) and
// reports which capabilities it supports.
//
// 2. There is a general notion of a test scope which is similar to Go's
// testing.T, allowing pieces of test logic to be associated with a test
// identifier and to accumulate success/failure results; see the sylphtest
// subpackage.
//
// 3. Tests that exercise the API driver can stand up in-process stub endpoints;
// see the mockapi subpackage.
package framework
