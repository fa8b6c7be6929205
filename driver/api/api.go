// Package api is the driver adapter for testing HTTP APIs. It wraps a standard HTTP
// client with request-building options, response capture, and server-sent-events
// streaming support.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sylph-test/sylph/data"
	"github.com/sylph-test/sylph/framework"
	"github.com/sylph-test/sylph/framework/helpers"
	"github.com/sylph-test/sylph/session"

	"github.com/launchdarkly/eventsource"
)

const defaultRequestTimeout = time.Second * 30

// Driver sends requests to the API under test. The base URL comes from the session
// config's exec target; request URLs that are not absolute are resolved against it.
//
// The driver remembers the last request and response, so a test step can perform a call
// and a later step can assert on the outcome without threading return values through.
type Driver struct {
	baseURL    string
	httpClient *http.Client
	logger     framework.Logger

	lastMethod   string
	lastURL      string
	lastResponse *Response
	lastError    *data.ResponseError
	lock         sync.Mutex
}

// Response captures everything a test might assert about an HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Elapsed    time.Duration
}

// JSON deserializes the response body into target, rejecting unknown fields.
func (r *Response) JSON(target interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(r.Body))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

// IsError reports whether the response has a 4xx or 5xx status.
func (r *Response) IsError() bool { return r.StatusCode >= 400 }

func NewDriver(config *session.Config, logger framework.Logger) *Driver {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Driver{
		baseURL:    strings.TrimSuffix(config.ExecTarget.Server, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     logger,
	}
}

func (d *Driver) Platform() session.Platform { return session.PlatformAPI }

func (d *Driver) Capabilities() framework.Capabilities {
	return framework.Capabilities{framework.CapabilityStreaming}
}

func (d *Driver) Close() error {
	d.httpClient.CloseIdleConnections()
	return nil
}

// BaseURL returns the resolved base URL of the API under test.
func (d *Driver) BaseURL() string { return d.baseURL }

type requestParams struct {
	headers     http.Header
	queryParams url.Values
	body        []byte
	contentType string
}

type RequestOption helpers.ConfigOption[requestParams]

type requestOptionJSONBody struct{ value interface{} }

func (o requestOptionJSONBody) Configure(p *requestParams) error {
	bodyData, err := json.Marshal(o.value)
	if err != nil {
		return err
	}
	p.body = bodyData
	p.contentType = "application/json"
	return nil
}

// JSONBody serializes value as the request body with an application/json content type.
func JSONBody(value interface{}) RequestOption { return requestOptionJSONBody{value} }

type requestOptionRawBody struct {
	contentType string
	body        []byte
}

func (o requestOptionRawBody) Configure(p *requestParams) error {
	p.body = o.body
	p.contentType = o.contentType
	return nil
}

// RawBody sets the request body verbatim.
func RawBody(contentType string, body []byte) RequestOption {
	return requestOptionRawBody{contentType, body}
}

type requestOptionHeader struct{ name, value string }

func (o requestOptionHeader) Configure(p *requestParams) error {
	if p.headers == nil {
		p.headers = make(http.Header)
	}
	p.headers.Add(o.name, o.value)
	return nil
}

// Header adds a request header.
func Header(name, value string) RequestOption { return requestOptionHeader{name, value} }

// BearerToken adds an Authorization header with a bearer token.
func BearerToken(token string) RequestOption {
	return requestOptionHeader{"Authorization", "Bearer " + token}
}

type requestOptionQueryParam struct{ name, value string }

func (o requestOptionQueryParam) Configure(p *requestParams) error {
	if p.queryParams == nil {
		p.queryParams = make(url.Values)
	}
	p.queryParams.Add(o.name, o.value)
	return nil
}

// QueryParam adds a query string parameter.
func QueryParam(name, value string) RequestOption { return requestOptionQueryParam{name, value} }

// Do sends a request and captures the response. Error statuses do not make Do fail; the
// response is returned either way and the parsed error payload is remembered as
// LastError. Do returns a non-nil error only when the request could not be performed.
func (d *Driver) Do(ctx context.Context, method, requestURL string, options ...RequestOption) (*Response, error) {
	req, err := d.buildRequest(ctx, method, requestURL, options)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.recordFailure(method, req.URL.String())
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body := new(bytes.Buffer)
	if _, err := body.ReadFrom(resp.Body); err != nil {
		d.recordFailure(method, req.URL.String())
		return nil, err
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body.Bytes(),
		Elapsed:    time.Since(started),
	}
	d.logger.Printf("%s %s -> %d (%s, %d bytes)", method, req.URL, response.StatusCode,
		response.Elapsed.Round(time.Millisecond), len(response.Body))

	d.lock.Lock()
	d.lastMethod = method
	d.lastURL = req.URL.String()
	d.lastResponse = response
	if response.IsError() {
		d.lastError = data.ParseResponseError(response.StatusCode, response.Body)
	} else {
		d.lastError = nil
	}
	d.lock.Unlock()

	return response, nil
}

func (d *Driver) Get(ctx context.Context, url string, options ...RequestOption) (*Response, error) {
	return d.Do(ctx, http.MethodGet, url, options...)
}

func (d *Driver) Post(ctx context.Context, url string, options ...RequestOption) (*Response, error) {
	return d.Do(ctx, http.MethodPost, url, options...)
}

func (d *Driver) Put(ctx context.Context, url string, options ...RequestOption) (*Response, error) {
	return d.Do(ctx, http.MethodPut, url, options...)
}

func (d *Driver) Patch(ctx context.Context, url string, options ...RequestOption) (*Response, error) {
	return d.Do(ctx, http.MethodPatch, url, options...)
}

func (d *Driver) Delete(ctx context.Context, url string, options ...RequestOption) (*Response, error) {
	return d.Do(ctx, http.MethodDelete, url, options...)
}

// OpenStream opens a server-sent-events stream. The caller reads events from the
// returned stream's Events channel and must close it when done.
func (d *Driver) OpenStream(ctx context.Context, requestURL string, options ...RequestOption) (*eventsource.Stream, error) {
	req, err := d.buildRequest(ctx, http.MethodGet, requestURL, options)
	if err != nil {
		return nil, err
	}
	d.logger.Printf("Opening event stream to %s", req.URL)
	return eventsource.SubscribeWithRequest("", req)
}

func (d *Driver) buildRequest(ctx context.Context, method, requestURL string, options []RequestOption) (*http.Request, error) {
	var params requestParams
	if err := helpers.ApplyOptions(&params, options...); err != nil {
		return nil, err
	}

	resolved, err := d.resolveURL(requestURL)
	if err != nil {
		return nil, err
	}
	if len(params.queryParams) > 0 {
		separator := "?"
		if strings.Contains(resolved, "?") {
			separator = "&"
		}
		resolved += separator + params.queryParams.Encode()
	}

	var bodyReader *bytes.Reader
	if params.body != nil {
		bodyReader = bytes.NewReader(params.body)
	} else {
		bodyReader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, resolved, bodyReader)
	if err != nil {
		return nil, err
	}
	for name, values := range params.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	if params.contentType != "" {
		req.Header.Set("Content-Type", params.contentType)
	}
	return req, nil
}

func (d *Driver) resolveURL(requestURL string) (string, error) {
	if strings.HasPrefix(requestURL, "http://") || strings.HasPrefix(requestURL, "https://") {
		return requestURL, nil
	}
	if d.baseURL == "" {
		return "", fmt.Errorf("request URL %q is relative but the config has no server", requestURL)
	}
	if !strings.HasPrefix(requestURL, "/") {
		requestURL = "/" + requestURL
	}
	return d.baseURL + requestURL, nil
}

func (d *Driver) recordFailure(method, url string) {
	d.lock.Lock()
	d.lastMethod = method
	d.lastURL = url
	d.lastResponse = nil
	d.lastError = nil
	d.lock.Unlock()
}

// LastResponse returns the response from the most recent request, or nil if there was
// none or the request failed outright.
func (d *Driver) LastResponse() *Response {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.lastResponse
}

// LastError returns the parsed error payload from the most recent request, or nil if the
// request succeeded.
func (d *Driver) LastError() *data.ResponseError {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.lastError
}

// LastRequest returns the method and URL of the most recent request.
func (d *Driver) LastRequest() (method, url string) {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.lastMethod, d.lastURL
}
