// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import (
	"net/http"
	"time"
)

// Client configuration options using the functional options pattern

// Username sets the RESTCONF basic-auth username
func Username(username string) func(*Client) {
	return func(c *Client) {
		c.username = username
	}
}

// Password sets the RESTCONF basic-auth password
func Password(password string) func(*Client) {
	return func(c *Client) {
		c.password = password
	}
}

// Port sets the RESTCONF port (default: 8181)
func Port(port int) func(*Client) {
	return func(c *Client) {
		c.Port = port
	}
}

// Timeout sets the connect timeout (default: 5s)
func Timeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.Timeout = duration
	}
}

// HTTPS switches the base URL to https (default: false)
func HTTPS(enabled bool) func(*Client) {
	return func(c *Client) {
		c.UseHTTPS = enabled
	}
}

// InsecureSkipVerify disables certificate verification for HTTPS.
//
// WARNING: only for lab controllers with self-signed certificates.
func InsecureSkipVerify(skip bool) func(*Client) {
	return func(c *Client) {
		c.InsecureSkipVerify = skip
	}
}

// WithHTTPClient replaces the HTTP client built from Timeout and the TLS
// options. Used by tests to reach an in-process server.
func WithHTTPClient(hc *http.Client) func(*Client) {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger configures a logger for the client.
//
// By default the client uses NoOpLogger. Request and response bodies are
// logged at Debug level after credentials have been redacted.
//
// Example:
//
//	ctrl, _ := bvc.NewController("172.22.18.70",
//	    bvc.Username("admin"),
//	    bvc.Password("admin"),
//	    bvc.WithLogger(bvc.NewDefaultLogger(bvc.LogLevelInfo)))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs indents JSON bodies in Debug logs (default: false)
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}

// Request modifiers for individual calls

// Header overrides a request header for a single call.
//
// Example:
//
//	client.Put(ctx, path, body,
//	    bvc.Header("Content-Type", bvc.MediaTypeYangDataJSON))
func Header(key, value string) func(*Req) {
	return func(req *Req) {
		req.Header.Set(key, value)
	}
}

// Query adds a query parameter to a single call
func Query(key, value string) func(*Req) {
	return func(req *Req) {
		req.Query.Add(key, value)
	}
}
