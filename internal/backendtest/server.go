// Package backendtest runs an in-process stand-in for the recipe backend.
// Tests script a response per route and inspect the requests that arrived.
package backendtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Default backend routes.
const (
	PathIdentifyDish = "/images/identify-dish"
	PathAnalyze      = "/api/images/analyze"
	PathGenerate     = "/recipes/generate"
	PathHealth       = "/api/health"
)

// Response is a scripted answer for one route.
type Response struct {
	Status int
	Body   string
	Delay  time.Duration
}

// Request is what the server saw for one call.
type Request struct {
	Method      string
	Path        string
	Route       string // chi route pattern, "" for unrouted paths
	Header      http.Header
	ContentType string
	Body        []byte // raw body for non-multipart requests

	// Multipart uploads only.
	FormField    string
	Filename     string
	FileMIMEType string
	FileData     []byte
}

// Server is a scripted fake backend.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	requests  []Request
}

// New starts a fake backend and registers its shutdown with t.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{responses: make(map[string]Response)}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post(PathIdentifyDish, s.handle)
	r.Post(PathAnalyze, s.handle)
	r.Post(PathGenerate, s.handle)
	r.Get(PathHealth, s.handle)
	r.NotFound(s.handle)
	r.MethodNotAllowed(s.handle)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Respond scripts the answer for method+path.
func (s *Server) Respond(method, path string, status int, body string) {
	s.RespondWith(method, path, Response{Status: status, Body: body})
}

// RespondWith scripts a full Response for method+path.
func (s *Server) RespondWith(method, path string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = resp
}

// RespondJSON scripts a JSON-encoded answer for method+path.
func (s *Server) RespondJSON(method, path string, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic("backendtest: marshal scripted response: " + err.Error())
	}
	s.Respond(method, path, status, string(data))
}

// Requests returns every request received so far, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Count returns how many requests hit method+path.
func (s *Server) Count(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	rec := Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		Header:      r.Header.Clone(),
		ContentType: r.Header.Get("Content-Type"),
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		rec.Route = rctx.RoutePattern()
	}

	if mr, err := r.MultipartReader(); err == nil {
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			if part.FileName() != "" && rec.FormField == "" {
				rec.FormField = part.FormName()
				rec.Filename = part.FileName()
				rec.FileMIMEType = part.Header.Get("Content-Type")
				rec.FileData, _ = io.ReadAll(part)
			}
			part.Close()
		}
	} else {
		rec.Body, _ = io.ReadAll(r.Body)
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	resp, ok := s.responses[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		resp = Response{Status: http.StatusNotFound, Body: `{"detail":"Not Found"}`}
	}
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}
