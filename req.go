// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import (
	"net/http"
	"net/url"
)

// Req carries per-call overrides applied through request modifiers.
//
// Example:
//
//	// add a node with an XML body
//	client.Post(ctx, path, doc,
//	    bvc.Header("Content-Type", bvc.MediaTypeXML),
//	    bvc.Header("Accept", bvc.MediaTypeXML))
type Req struct {
	// Header values replace the client defaults key by key
	Header http.Header

	// Query is appended to the URL
	Query url.Values
}
