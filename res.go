// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"
)

// Status is the outcome kind of a controller call
type Status int

const (
	// StatusInvalid is the zero value. The call was rejected before a
	// request was sent or its response could not be parsed; the
	// accompanying error says why.
	StatusInvalid Status = iota

	// StatusOK means the call succeeded and the expected data was present
	StatusOK

	// StatusDataNotFound means the response was well formed but the
	// expected key path was absent
	StatusDataNotFound

	// StatusNodeConnected means the node is connected to the controller
	StatusNodeConnected

	// StatusNodeDisconnected means the node is known but not connected
	StatusNodeDisconnected

	// StatusNodeNotFound means the controller does not know the node
	StatusNodeNotFound

	// StatusNodeConfigured means the node exists in the config datastore
	StatusNodeConfigured

	// StatusConnectionError means no HTTP response was received
	StatusConnectionError

	// StatusInternalServerError means a success status arrived without the
	// body the operation needs
	StatusInternalServerError

	// StatusHTTPError means the controller answered with a status above 204
	StatusHTTPError
)

var statusNames = [...]string{
	StatusInvalid:             "INVALID",
	StatusOK:                  "OK",
	StatusDataNotFound:        "DATA_NOT_FOUND",
	StatusNodeConnected:       "NODE_CONNECTED",
	StatusNodeDisconnected:    "NODE_DISCONNECTED",
	StatusNodeNotFound:        "NODE_NOT_FOUND",
	StatusNodeConfigured:      "NODE_CONFIGURED",
	StatusConnectionError:     "CONN_ERROR",
	StatusInternalServerError: "CTRL_INTERNAL_ERROR",
	StatusHTTPError:           "HTTP_ERROR",
}

// String returns the wire-style name of the status
func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(s))
}

// HTTPResponse is the part of an HTTP response the classifier looks at.
type HTTPResponse struct {
	// StatusCode is the numeric HTTP status
	StatusCode int

	// Reason is the status text, e.g. "Not Found"
	Reason string

	// Header holds the response headers
	Header http.Header

	// Body is the complete response body
	Body []byte
}

// Res is the outcome of one controller call.
//
// Every public operation returns a Res; failures such as a refused connection
// or an HTTP 500 are reported through Status rather than as an error.
//
// Example:
//
//	res, err := ctrl.AllNodesInConfig(ctx)
//	if err != nil {
//	    log.Fatal(err) // malformed JSON from the controller
//	}
//	if !res.OK() {
//	    log.Fatal(res.Message())
//	}
//	for _, id := range res.Value {
//	    fmt.Println(id)
//	}
type Res[T any] struct {
	// Operation names the call that produced the outcome
	Operation string

	// Status is the outcome kind
	Status Status

	// Value is the projected payload. Zero unless Status is StatusOK,
	// StatusNodeConfigured or one of the connection states.
	Value T

	// Raw is the whole parsed response body, when there was one
	Raw gjson.Result

	// Response is the failed response for StatusHTTPError
	Response *HTTPResponse

	// Cause is the transport error for StatusConnectionError
	Cause error
}

// OK reports whether the status is StatusOK
func (r Res[T]) OK() bool {
	return r.Status == StatusOK
}

// Message returns the human-readable description of the outcome
func (r Res[T]) Message() string {
	switch r.Status {
	case StatusInvalid:
		return "Call did not complete"
	case StatusOK:
		return "Success"
	case StatusDataNotFound:
		return "Requested data not found"
	case StatusNodeConnected:
		return "Node is connected"
	case StatusNodeDisconnected:
		return "Node is disconnected"
	case StatusNodeNotFound:
		return "Node not found"
	case StatusNodeConfigured:
		return "Node is configured"
	case StatusConnectionError:
		return "Server connection error"
	case StatusInternalServerError:
		return "Internal server error"
	case StatusHTTPError:
		msg := "HTTP error"
		if r.Response != nil {
			msg += " " + strconv.Itoa(r.Response.StatusCode)
			if r.Response.Reason != "" {
				msg += " - " + r.Response.Reason
			}
		}
		return msg
	default:
		return r.Status.String()
	}
}

// GetValue queries the raw response body with a gjson path.
//
// Example:
//
//	res, err := ctrl.NodeInfo(ctx, "vRouter")
//	if err != nil {
//	    return err
//	}
//	connected := res.GetValue("node.0.netconf-node-inventory:connected").Bool()
func (r Res[T]) GetValue(path string) gjson.Result {
	if !r.Raw.Exists() {
		return gjson.Result{}
	}
	return r.Raw.Get(path)
}

// Err converts a failed outcome into an *Error.
//
// It returns nil for StatusOK, StatusNodeConfigured, StatusNodeConnected and
// StatusNodeDisconnected, which are all answers to the question asked. The
// zero Res returned next to an error is StatusInvalid and converts to an
// error as well.
func (r Res[T]) Err() error {
	switch r.Status {
	case StatusOK, StatusNodeConfigured, StatusNodeConnected, StatusNodeDisconnected:
		return nil
	}
	e := &Error{Operation: r.Operation, Status: r.Status, Message: r.Message()}
	switch {
	case r.Cause != nil:
		e.InternalMsg = r.Cause.Error()
	case r.Response != nil && len(r.Response.Body) > 0:
		e.InternalMsg = truncateBody(r.Response.Body)
	}
	return e
}

// maxErrorBody bounds the response body copied into Error.InternalMsg
const maxErrorBody = 512

func truncateBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "...[TRUNCATED]"
	}
	return string(body)
}
