package controller

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mergington/signup/internal/client/client"
	"github.com/mergington/signup/internal/client/models"
	"github.com/mergington/signup/internal/client/repositories/metadata"
	"github.com/mergington/signup/internal/client/session"
	"github.com/mergington/signup/internal/testkit/fakeapi"
)

// fakeTimers is a manual clock for message timers.
type fakeTimers struct {
	mu      sync.Mutex
	now     time.Duration
	pending []pendingTimer
}

type pendingTimer struct {
	at time.Duration
	fn func()
}

func (f *fakeTimers) AfterFunc(d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, pendingTimer{at: f.now + d, fn: fn})
}

// Advance moves the clock forward and runs the timers that became due.
func (f *fakeTimers) Advance(d time.Duration) {
	f.mu.Lock()
	f.now += d
	var due, rest []pendingTimer
	for _, p := range f.pending {
		if p.at <= f.now {
			due = append(due, p)
		} else {
			rest = append(rest, p)
		}
	}
	f.pending = rest
	f.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, p := range due {
		p.fn()
	}
}

type harness struct {
	ctrl   *Controller
	srv    *fakeapi.Server
	db     *sql.DB
	timers *fakeTimers
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "signup.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newHarness(t *testing.T, srv *fakeapi.Server) *harness {
	t.Helper()
	t.Cleanup(srv.Close)

	api, err := client.NewHTTPClient(srv.URL)
	require.NoError(t, err)

	db := openDB(t)
	timers := &fakeTimers{}
	ctrl := New(context.Background(), api, session.NewSQLStore(db), WithAfterFunc(timers.AfterFunc))

	return &harness{ctrl: ctrl, srv: srv, db: db, timers: timers}
}

func (h *harness) stored(t *testing.T) map[string]string {
	t.Helper()
	all, err := metadata.NewSQLiteRepository(h.db).List(context.Background())
	require.NoError(t, err)
	return all
}

// stubAPI is a scripted client.Client.
type stubAPI struct {
	mu    sync.Mutex
	calls []string

	list      func(ctx context.Context) (models.ActivityList, error)
	logoutErr error
}

func (s *stubAPI) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *stubAPI) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubAPI) ListActivities(ctx context.Context) (models.ActivityList, error) {
	s.record("list")
	if s.list != nil {
		return s.list(ctx)
	}
	return models.ActivityList{}, nil
}

func (s *stubAPI) Signup(ctx context.Context, token, activity, email string) (string, error) {
	s.record("signup")
	return "ok", nil
}

func (s *stubAPI) Unregister(ctx context.Context, token, activity, email string) (string, error) {
	s.record("unregister")
	return "ok", nil
}

func (s *stubAPI) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	s.record("login")
	return models.LoginResponse{Token: "t", Username: username}, nil
}

func (s *stubAPI) Logout(ctx context.Context, token string) error {
	s.record("logout")
	return s.logoutErr
}

// memStore is an in-memory session.Store.
type memStore struct {
	mu      sync.Mutex
	sess    models.AuthSession
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(context.Context) (models.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess, m.loadErr
}

func (m *memStore) Save(_ context.Context, s models.AuthSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sess = s
	return nil
}
