// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Default client configuration values
const (
	DefaultPort            = 8181
	DefaultTimeout         = 5 * time.Second
	DefaultUseHTTPS        = false
	DefaultPrettyPrintLogs = false
)

// Default RESTCONF media types
const (
	MediaTypeJSON         = "application/json"
	MediaTypeYangDataJSON = "application/yang.data+json"
	MediaTypeXML          = "application/xml"
)

// Security limits for body logging
const (
	MaxBodySizeForLogging = 1 * 1024 * 1024 // 1MB
	MaxSensitiveFields    = 1000
)

// Logging placeholders
const (
	BodyTooLargeMessage     = "[BODY TOO LARGE FOR LOGGING]"
	BodyTooManySensitiveMsg = "[BODY CONTAINS TOO MANY SENSITIVE FIELDS]"
)

// redactionRule pairs a pattern with its replacement
type redactionRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// defaultRedactionRules hide credentials in logged JSON and XML bodies
var defaultRedactionRules = []redactionRule{
	{regexp.MustCompile(`"password"\s*:\s*"[^"]*"`), `"password":"[REDACTED]"`},
	{regexp.MustCompile(`"secret"\s*:\s*"[^"]*"`), `"secret":"[REDACTED]"`},
	{regexp.MustCompile(`"key"\s*:\s*"[^"]*"`), `"key":"[REDACTED]"`},
	{regexp.MustCompile(`"token"\s*:\s*"[^"]*"`), `"token":"[REDACTED]"`},
	{regexp.MustCompile(`"auth"\s*:\s*"[^"]*"`), `"auth":"[REDACTED]"`},
	{regexp.MustCompile(`(<password[^>]*>)[^<]*(</password>)`), `${1}[REDACTED]${2}`},
}

var sensitiveMarkers = []string{`"password"`, `"secret"`, `"key"`, `"token"`, `"auth"`, `<password`}

// Client is the HTTP transport to a controller's RESTCONF endpoint.
//
// It adds basic authentication and the default JSON headers to every request
// and returns responses untouched; interpretation is left to Classify. A
// Client holds no per-request state and may be shared between goroutines.
type Client struct {
	// Connection parameters
	Host     string
	Port     int
	username string // unexported for security
	password string // unexported for security

	// UseHTTPS selects https instead of http for the base URL
	UseHTTPS bool

	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool

	// Timeout bounds connection setup (dial and TLS handshake)
	Timeout time.Duration

	// BaseURL is derived from Host, Port and UseHTTPS
	BaseURL string

	httpClient *http.Client
	headers    http.Header

	// Logging configuration
	logger          Logger
	prettyPrintLogs bool
	redactionRules  []redactionRule
}

// NewClient creates a RESTCONF transport for host.
//
// Example:
//
//	client, err := bvc.NewClient("172.22.18.70",
//	    bvc.Username("admin"),
//	    bvc.Password("admin"),
//	    bvc.Timeout(10*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := client.Get(ctx, "/restconf/streams")
//
// Returns an error if the configuration is invalid. No connection is made.
func NewClient(host string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		Host:            host,
		Port:            DefaultPort,
		UseHTTPS:        DefaultUseHTTPS,
		Timeout:         DefaultTimeout,
		logger:          NoOpLogger{},
		prettyPrintLogs: DefaultPrettyPrintLogs,
		redactionRules:  defaultRedactionRules,
		headers: http.Header{
			"Content-Type": []string{MediaTypeJSON},
			"Accept":       []string{MediaTypeJSON},
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	scheme := "http"
	if client.UseHTTPS {
		scheme = "https"
	}
	client.BaseURL = scheme + "://" + net.JoinHostPort(client.Host, strconv.Itoa(client.Port))

	if client.httpClient == nil {
		client.httpClient = client.newHTTPClient()
	}

	client.logger.Info(context.Background(), "RESTCONF client created",
		"base_url", client.BaseURL,
		"timeout", client.Timeout)

	return client, nil
}

// newHTTPClient builds the transport. Timeout bounds connection setup only;
// a slow answer on an open connection is bounded by the caller's context.
func (c *Client) newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: c.Timeout,
		}).DialContext,
		TLSHandshakeTimeout: c.Timeout,
	}
	if c.UseHTTPS && c.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for lab controllers
	}
	return &http.Client{Transport: transport}
}

// HasCredentials reports whether both username and password are set
func (c *Client) HasCredentials() bool {
	return c.username != "" && c.password != ""
}

// Do sends one request and reads the whole response.
//
// path is appended to BaseURL. body may be nil. On transport failure the
// returned response is nil and the error describes the failure; any HTTP
// status, including 4xx and 5xx, is a response and not an error.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, mods ...func(*Req)) (*HTTPResponse, error) {
	req := Req{Header: http.Header{}, Query: url.Values{}}
	for _, mod := range mods {
		mod(&req)
	}

	target := c.BaseURL + ensureLeadingSlash(path)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	for key, values := range c.headers {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	for key, values := range req.Header {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	if c.username != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	c.logger.Debug(ctx, "RESTCONF request",
		"method", method,
		"path", path,
		"body", c.prepareBodyForLogging(body))

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error(ctx, "RESTCONF request failed",
			"method", method,
			"path", path,
			"error", err.Error())
		return nil, err
	}
	defer httpResp.Body.Close() //nolint:errcheck // body fully read below

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.logger.Error(ctx, "Reading RESTCONF response failed",
			"method", method,
			"path", path,
			"error", err.Error())
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &HTTPResponse{
		StatusCode: httpResp.StatusCode,
		Reason:     reasonPhrase(httpResp),
		Header:     httpResp.Header,
		Body:       respBody,
	}

	c.logger.Debug(ctx, "RESTCONF response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"body", c.prepareBodyForLogging(respBody))

	return resp, nil
}

// Get sends a GET request
func (c *Client) Get(ctx context.Context, path string, mods ...func(*Req)) (*HTTPResponse, error) {
	return c.Do(ctx, http.MethodGet, path, nil, mods...)
}

// Post sends a POST request with body
func (c *Client) Post(ctx context.Context, path string, body []byte, mods ...func(*Req)) (*HTTPResponse, error) {
	return c.Do(ctx, http.MethodPost, path, body, mods...)
}

// Put sends a PUT request with body
func (c *Client) Put(ctx context.Context, path string, body []byte, mods ...func(*Req)) (*HTTPResponse, error) {
	return c.Do(ctx, http.MethodPut, path, body, mods...)
}

// Delete sends a DELETE request
func (c *Client) Delete(ctx context.Context, path string, mods ...func(*Req)) (*HTTPResponse, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, mods...)
}

// Logger returns the configured logger
func (c *Client) Logger() Logger {
	return c.logger
}

func ensureLeadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// reasonPhrase strips the numeric code from "404 Not Found"
func reasonPhrase(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

// prepareBodyForLogging redacts credentials and optionally pretty-prints a
// request or response body for Debug logs.
//
// Bodies over MaxBodySizeForLogging, or with more than MaxSensitiveFields
// credential markers, are replaced by a placeholder before any regex runs.
func (c *Client) prepareBodyForLogging(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > MaxBodySizeForLogging {
		return BodyTooLargeMessage
	}

	text := string(body)
	count := 0
	for _, marker := range sensitiveMarkers {
		count += strings.Count(text, marker)
	}
	if count > MaxSensitiveFields {
		c.logger.Warn(context.Background(), "Too many sensitive fields detected",
			"count", count,
			"max", MaxSensitiveFields)
		return BodyTooManySensitiveMsg
	}

	redacted := c.redactSensitiveData(text)

	if c.prettyPrintLogs && json.Valid([]byte(redacted)) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(redacted), "", "  "); err == nil {
			return buf.String()
		}
	}
	return redacted
}

// redactSensitiveData applies every redaction rule in order
func (c *Client) redactSensitiveData(text string) string {
	for _, rule := range c.redactionRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	return text
}

// validateConfig checks the client configuration.
//
// Host, username and password are required; the controller rejects
// anonymous RESTCONF requests.
func (c *Client) validateConfig() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("controller address cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}
	if c.username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if c.password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if c.UseHTTPS && c.InsecureSkipVerify {
		c.logger.Warn(context.Background(), "InsecureSkipVerify enabled - TLS certificate verification disabled",
			"host", c.Host,
			"recommendation", "Use only in lab environments")
	}
	if !c.UseHTTPS {
		c.logger.Debug(context.Background(), "Using plain HTTP, basic-auth credentials are not encrypted",
			"host", c.Host)
	}
	return nil
}
