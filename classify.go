// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Classify turns a raw HTTP result into exactly one outcome.
//
//   - resp == nil: StatusConnectionError, nothing is parsed
//   - status > 204: StatusHTTPError carrying resp
//   - status < 204 with an empty body: StatusInternalServerError
//   - otherwise the body is parsed and onSuccess is called once with it
//
// A body that is not valid JSON on a success status is returned as an error
// instead of an outcome. onSuccess decides between StatusOK and
// StatusDataNotFound, usually through Extract, Found or NotFound.
func Classify[T any](op string, resp *HTTPResponse, onSuccess func(gjson.Result) Res[T]) (Res[T], error) {
	if !hasSuccessShape(resp) {
		return classifyFailure[T](op, resp), nil
	}

	var body gjson.Result
	if len(bytes.TrimSpace(resp.Body)) > 0 {
		if !gjson.ValidBytes(resp.Body) {
			err := fmt.Errorf("%s: malformed JSON in HTTP %d response", op, resp.StatusCode)
			return Res[T]{Operation: op, Status: StatusInvalid, Cause: err}, err
		}
		body = gjson.ParseBytes(resp.Body)
	}

	res := onSuccess(body)
	res.Operation = op
	res.Raw = body
	return res, nil
}

// ClassifyWrite classifies the response to a PUT, DELETE or create POST.
//
// Any status from 200 to 204 is StatusOK whether or not a body came back.
// Below 200 the Classify rule applies: a body means success. Everything else
// takes the failure branches of Classify. A JSON body, if present, is kept
// in Raw.
func ClassifyWrite(op string, resp *HTTPResponse) Res[gjson.Result] {
	if resp == nil || resp.StatusCode > http.StatusNoContent ||
		(resp.StatusCode < http.StatusOK && !hasSuccessShape(resp)) {
		return classifyFailure[gjson.Result](op, resp)
	}
	res := Res[gjson.Result]{Operation: op, Status: StatusOK}
	if gjson.ValidBytes(resp.Body) {
		res.Raw = gjson.ParseBytes(resp.Body)
	}
	return res
}

// ClassifyConnStatus maps a 404 to StatusNodeNotFound and hands every other
// response to Classify.
func ClassifyConnStatus[T any](op string, resp *HTTPResponse, onSuccess func(gjson.Result) Res[T]) (Res[T], error) {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return Res[T]{Operation: op, Status: StatusNodeNotFound}, nil
	}
	return Classify(op, resp, onSuccess)
}

func hasSuccessShape(resp *HTTPResponse) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode == http.StatusNoContent {
		return true
	}
	return resp.StatusCode < http.StatusNoContent && len(bytes.TrimSpace(resp.Body)) > 0
}

func classifyFailure[T any](op string, resp *HTTPResponse) Res[T] {
	switch {
	case resp == nil:
		return Res[T]{Operation: op, Status: StatusConnectionError}
	case resp.StatusCode > http.StatusNoContent:
		return Res[T]{Operation: op, Status: StatusHTTPError, Response: resp}
	default:
		return Res[T]{Operation: op, Status: StatusInternalServerError}
	}
}

// Found returns a StatusOK outcome carrying v
func Found[T any](v T) Res[T] {
	return Res[T]{Status: StatusOK, Value: v}
}

// NotFound returns a StatusDataNotFound outcome
func NotFound[T any]() Res[T] {
	return Res[T]{Status: StatusDataNotFound}
}

// Extract returns a projection yielding the value at path, or
// StatusDataNotFound when path is absent.
func Extract(path string) func(gjson.Result) Res[gjson.Result] {
	return func(body gjson.Result) Res[gjson.Result] {
		v := body.Get(path)
		if !v.Exists() {
			return NotFound[gjson.Result]()
		}
		return Found(v)
	}
}

// WholeBody is the projection for calls whose payload is the entire body
func WholeBody(body gjson.Result) Res[gjson.Result] {
	return Found(body)
}

// Fetch sends a GET for path and classifies the response with onSuccess
func Fetch[T any](ctx context.Context, c *Client, op, path string, onSuccess func(gjson.Result) Res[T], mods ...func(*Req)) (Res[T], error) {
	return Submit(ctx, c, op, http.MethodGet, path, nil, onSuccess, mods...)
}

// Submit sends a request with any method and classifies the response with
// onSuccess. Used for RPC-style POSTs that answer with data.
func Submit[T any](ctx context.Context, c *Client, op, method, path string, body []byte, onSuccess func(gjson.Result) Res[T], mods ...func(*Req)) (Res[T], error) {
	resp, err := c.Do(ctx, method, path, body, mods...)
	res, perr := Classify(op, resp, onSuccess)
	if err != nil {
		res.Cause = err
	}
	if perr != nil {
		c.logger.Error(ctx, "Malformed controller response", "operation", op, "path", path, "error", perr.Error())
	}
	return res, perr
}

// Write sends a modifying request and classifies it with ClassifyWrite
func Write(ctx context.Context, c *Client, op, method, path string, body []byte, mods ...func(*Req)) Res[gjson.Result] {
	resp, err := c.Do(ctx, method, path, body, mods...)
	res := ClassifyWrite(op, resp)
	res.Cause = err
	return res
}
