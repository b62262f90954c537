// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package fakectl is an in-process RESTCONF controller for tests.
//
// Routes are registered per method and path with a canned status and body.
// Every request that passes basic authentication is recorded. Unknown paths
// answer 404 with the controller's data-missing error document.
package fakectl

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Default credentials accepted by the server
const (
	Username = "admin"
	Password = "admin"
)

// DataMissing is the body the controller sends for an unknown path
const DataMissing = `{"errors":{"error":[{"error-type":"application","error-tag":"data-missing","error-message":"Request could not be completed because the relevant data model content does not exist "}]}}`

// Request is one recorded request
type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type response struct {
	status      int
	contentType string
	body        []byte
}

// Server is a fake controller listening on a loopback port
type Server struct {
	e   *echo.Echo
	srv *httptest.Server

	mu       sync.Mutex
	routes   map[string]response
	requests []Request
}

// New starts a server and stops it when the test ends
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{routes: map[string]response{}}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.BasicAuth(func(user, pass string, _ echo.Context) (bool, error) {
		return user == Username && pass == Password, nil
	}))
	e.Any("/*", s.handle)
	s.e = e

	s.srv = httptest.NewServer(e)
	t.Cleanup(s.Close)
	return s
}

// Handle registers a JSON response for method and path
func (s *Server) Handle(method, path string, status int, body string) {
	s.HandleWithType(method, path, status, echo.MIMEApplicationJSON, body)
}

// HandleWithType registers a response with an explicit content type
func (s *Server) HandleWithType(method, path string, status int, contentType, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = response{status: status, contentType: contentType, body: []byte(body)}
}

func (s *Server) handle(c echo.Context) error {
	r := c.Request()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	resp, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		return c.Blob(http.StatusNotFound, echo.MIMEApplicationJSON, []byte(DataMissing))
	}
	if len(resp.body) == 0 {
		return c.NoContent(resp.status)
	}
	return c.Blob(resp.status, resp.contentType, resp.body)
}

// Requests returns a copy of the recorded requests
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, ok is false if none arrived
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// URL returns the base URL, e.g. "http://127.0.0.1:40123"
func (s *Server) URL() string {
	return s.srv.URL
}

// Host returns the listening address without the port
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.srv.Listener.Addr().String())
	return host
}

// Port returns the listening port
func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.srv.Listener.Addr().String())
	p, _ := strconv.Atoi(port)
	return p
}

// Close stops the server. Later requests fail with a connection error.
func (s *Server) Close() {
	s.srv.Close()
}
