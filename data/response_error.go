package data

import (
	"fmt"
	"strings"
)

// ResponseError is the standard error payload shape for an API under test. The API
// driver parses error responses into this type so that tests can assert on the code and
// message rather than on raw bytes.
type ResponseError struct {
	Object     `json:"-" yaml:"-"`
	StatusCode int    `json:"-" yaml:"-"`
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	RawBody    string `json:"-" yaml:"-"`
}

// ParseResponseError interprets an HTTP error response body. A JSON body with the
// standard shape populates Code and Message; anything else is preserved verbatim in
// RawBody, because APIs under test frequently return HTML or plain text for errors.
func ParseResponseError(statusCode int, body []byte) *ResponseError {
	respErr, err := Decode[ResponseError](body, SourceAPIRequest)
	if err != nil {
		respErr = ResponseError{RawBody: string(body)}
		respErr.SetSource(SourceAPIRequest)
	}
	respErr.StatusCode = statusCode
	return &respErr
}

func (e *ResponseError) Error() string {
	parts := []string{fmt.Sprintf("request failed with status %d", e.StatusCode)}
	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("code %q", e.Code))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.RawBody != "" {
		parts = append(parts, e.RawBody)
	}
	return strings.Join(parts, ": ")
}
