// Package testserver is an in-memory stand-in for the inventory service,
// used by tests to exercise the client end to end.
package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"biokeeper/internal/client/zone"
	"biokeeper/internal/shared/models"
)

// Request is one call the server received.
type Request struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

type failure struct {
	status int
	body   string
}

type Server struct {
	URL string

	mu        sync.Mutex
	donors    *table[models.Donor]
	materials *table[models.BiologicalMaterial]
	conds     *table[models.StorageCondition]
	notes     *table[models.Notification]
	logs      *table[models.EventLog]
	users     *table[models.User]
	fails     map[string]failure
	requests  []Request

	handler http.Handler
}

// New returns a server that is not listening yet; use it as an http.Handler.
func New() *Server {
	s := &Server{
		donors:    newTable[models.Donor](),
		materials: newTable[models.BiologicalMaterial](),
		conds:     newTable[models.StorageCondition](),
		notes:     newTable[models.Notification](),
		logs:      newTable[models.EventLog](),
		users:     newTable[models.User](),
		fails:     map[string]failure{},
	}
	mux := chi.NewRouter()
	mux.Use(s.record, s.injectFailures)

	mux.Post("/api/user/login", s.handleLogin)
	mux.Get("/api/user/role/id/{id}", s.handleRole)
	mount(s, mux, userEntity)
	mount(s, mux, donorEntity)
	mount(s, mux, materialEntity)
	mount(s, mux, conditionEntity)
	mount(s, mux, notificationEntity)
	mount(s, mux, eventLogEntity)

	s.handler = mux
	return s
}

// Start serves s on a local port until the test ends.
func Start(tb testing.TB) *Server {
	tb.Helper()
	s := New()
	ts := httptest.NewServer(s)
	tb.Cleanup(ts.Close)
	s.URL = ts.URL
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.handler.ServeHTTP(w, r) }

// Fail makes every request matching method and path answer with status and
// body until Reset is called. An empty body sends no content.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[method+" "+path] = failure{status: status, body: body}
}

// Reset drops injected failures and recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails = map[string]failure{}
	s.requests = nil
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request for method, if any.
func (s *Server) LastRequest(method string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Method == method {
			return s.requests[i], true
		}
	}
	return Request{}, false
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      body,
			RequestID: r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.fails[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		if f.body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetails(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorBody{Details: msg})
}

func (s *Server) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body models.LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeDetails(w, http.StatusBadRequest, "invalid json")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users.all() {
		if strings.EqualFold(u.Login, body.Login) && u.Password == body.Password {
			writeJSON(w, http.StatusOK, u.UserID)
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, models.ErrorBody{Message: "Invalid login or password"})
}

func (s *Server) handleRole(w http.ResponseWriter, req *http.Request) {
	id, ok := idParam(w, req, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, found := s.users.get(id)
	if !found {
		writeDetails(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, string(u.AccessRights))
}

// canWrite reports whether actor may change data. Callers hold s.mu.
func (s *Server) canWrite(actor int64) bool {
	u, ok := s.users.get(actor)
	return ok && u.AccessRights == models.AccessFull
}

// canAudit reports whether actor may read the event log. Callers hold s.mu.
func (s *Server) canAudit(actor int64) bool {
	u, ok := s.users.get(actor)
	return ok && (u.AccessRights == models.AccessFull || u.AccessRights == models.AccessReadAll)
}

// scoreZone mirrors the service's classification of a reading.
func scoreZone(c models.StorageCondition, m models.BiologicalMaterial) models.StorageZone {
	got := zone.Reading{Temperature: c.Temperature, Humidity: c.Humidity, Oxygen: c.OxygenLevel}
	return zone.Determine(zone.Score(got, zone.Ideal(m)))
}
