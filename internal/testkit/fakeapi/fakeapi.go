// Package fakeapi runs an in-process activities API for tests. It keeps the
// same routes, status codes and detail texts as the real backend, with an
// in-memory activity table and token map.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// Activity is one row of the fake activity table.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// Request is what the server saw for one call.
type Request struct {
	Method        string
	Path          string
	Email         string
	Authorization string
	RequestID     string
}

type Server struct {
	*httptest.Server

	mu         sync.Mutex
	activities []*Activity
	teachers   map[string]string
	tokens     map[string]string
	requests   []Request
	nextToken  int
	override   map[string]response
}

type response struct {
	status int
	body   string
}

// New starts a server with the given activities and teacher credentials
// (username -> password). Close it with t.Cleanup(srv.Close).
func New(activities []Activity, teachers map[string]string) *Server {
	s := &Server{
		teachers: teachers,
		tokens:   make(map[string]string),
		override: make(map[string]response),
	}
	for _, a := range activities {
		a := a
		a.Participants = slices.Clone(a.Participants)
		s.activities = append(s.activities, &a)
	}

	r := mux.NewRouter()
	r.HandleFunc("/activities", s.listActivities).Methods(http.MethodGet)
	r.HandleFunc("/activities/{name}/signup", s.signup).Methods(http.MethodPost)
	r.HandleFunc("/activities/{name}/unregister", s.unregister).Methods(http.MethodDelete)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", s.logout).Methods(http.MethodPost)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	})

	s.Server = httptest.NewServer(s.record(r))
	return s
}

// Default starts a server with two activities and one teacher
// ("mrodriguez" / "art-teacher").
func Default() *Server {
	return New([]Activity{
		{Name: "Chess Club", Description: "Learn strategies and compete in chess tournaments", Schedule: "Fridays, 3:30 PM - 5:00 PM", MaxParticipants: 12, Participants: []string{"michael@mergington.edu", "daniel@mergington.edu"}},
		{Name: "Programming Class", Description: "Learn programming fundamentals and build software projects", Schedule: "Tuesdays and Thursdays, 3:30 PM - 4:30 PM", MaxParticipants: 20, Participants: []string{"emma@mergington.edu"}},
	}, map[string]string{"mrodriguez": "art-teacher"})
}

// Respond makes every later request to "METHOD /path" answer with status
// and the raw body.
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override[method+" "+path] = response{status: status, body: body}
}

// IssueToken registers a token for username as if it had logged in.
func (s *Server) IssueToken(token, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = username
}

// TokenValid reports whether token is currently accepted.
func (s *Server) TokenValid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[token]
	return ok
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Participants returns the participants of the named activity.
func (s *Server) Participants(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.find(name); a != nil {
		return slices.Clone(a.Participants)
	}
	return nil
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Email:         r.URL.Query().Get("email"),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		o, ok := s.override[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(o.status)
			_, _ = w.Write([]byte(o.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) find(name string) *Activity {
	for _, a := range s.activities {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// teacher resolves the bearer token or writes a 401.
func (s *Server) teacher(w http.ResponseWriter, r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Missing or invalid authorization token"})
		return "", false
	}
	s.mu.Lock()
	username, ok := s.tokens[token]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid or expired token"})
		return "", false
	}
	return username, true
}

func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	var b strings.Builder
	b.WriteString("{")
	for i, a := range s.activities {
		if i > 0 {
			b.WriteString(",")
		}
		name, _ := json.Marshal(a.Name)
		body, _ := json.Marshal(map[string]any{
			"description":      a.Description,
			"schedule":         a.Schedule,
			"max_participants": a.MaxParticipants,
			"participants":     a.Participants,
		})
		b.Write(name)
		b.WriteString(":")
		b.Write(body)
	}
	b.WriteString("}")
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(b.String()))
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.teacher(w, r); !ok {
		return
	}
	name, email := mux.Vars(r)["name"], r.URL.Query().Get("email")

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.find(name)
	if a == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Activity not found"})
		return
	}
	if slices.Contains(a.Participants, email) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Student is already signed up"})
		return
	}
	a.Participants = append(a.Participants, email)
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Signed up %s for %s", email, name)})
}

func (s *Server) unregister(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.teacher(w, r); !ok {
		return
	}
	name, email := mux.Vars(r)["name"], r.URL.Query().Get("email")

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.find(name)
	if a == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Activity not found"})
		return
	}
	i := slices.Index(a.Participants, email)
	if i < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Student is not signed up for this activity"})
		return
	}
	a.Participants = slices.Delete(a.Participants, i, i+1)
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Unregistered %s from %s", email, name)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "invalid body"}}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	want, ok := s.teachers[req.Username]
	if !ok || want != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid username or password"})
		return
	}
	s.nextToken++
	token := fmt.Sprintf("token-%d", s.nextToken)
	s.tokens[token] = req.Username
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "username": req.Username})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	username, ok := s.teacher(w, r)
	if !ok {
		return
	}
	_, token, _ := strings.Cut(r.Header.Get("Authorization"), " ")

	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out " + username})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
