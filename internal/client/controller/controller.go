// Package controller holds the client controller: it owns the teacher
// session and the View, and turns user actions into API calls.
//
// Handlers never return errors. Local precondition failures, server
// rejections and network failures all end up as a status message in the
// View, and every swallowed error is logged.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mergington/signup/internal/client/client"
	"github.com/mergington/signup/internal/client/models"
	"github.com/mergington/signup/internal/client/session"
	"github.com/mergington/signup/internal/logging"
)

// DefaultMessageDelay is how long a status message stays visible.
const DefaultMessageDelay = 5 * time.Second

const (
	statusLoggedOut = "You must log in to register or unregister students."
	listFailed      = "Failed to load activities. Please try again later."
)

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func())

type Controller struct {
	api          client.Client
	store        session.Store
	log          logging.Logger
	messageDelay time.Duration
	afterFunc    AfterFunc

	mu      sync.Mutex
	session models.AuthSession
	view    View
	// messageSeq identifies the visible message; a hide timer only fires
	// for the message it was scheduled with.
	messageSeq uint64
	// fetchSeq numbers fetches as they start; appliedFetch is the newest
	// one whose response has been applied.
	fetchSeq     uint64
	appliedFetch uint64
}

type Option func(*Controller)

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithMessageDelay overrides DefaultMessageDelay.
func WithMessageDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.messageDelay = d
		}
	}
}

// WithAfterFunc replaces time.AfterFunc for message timers.
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Controller) { c.afterFunc = f }
}

// New builds a controller and restores the session from store. A store
// that cannot be read leaves the controller logged out.
func New(ctx context.Context, api client.Client, store session.Store, opts ...Option) *Controller {
	c := &Controller{
		api:          api,
		store:        store,
		log:          logging.Nop{},
		messageDelay: DefaultMessageDelay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view.Message.Hidden = true

	sess, err := store.Load(ctx)
	if err != nil {
		c.log.Error(ctx, "restore session", "err", err)
	}
	c.SetAuthState(ctx, sess.Token, sess.Username)
	return c
}

// View returns a snapshot of the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.clone()
}

// Session returns the current session.
func (c *Controller) Session() models.AuthSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetAuthState replaces the session, persists it and updates the auth
// affordances of the view in one step. An empty token logs out and drops
// the username.
func (c *Controller) SetAuthState(ctx context.Context, token, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess := models.AuthSession{Token: token, Username: username}
	if !sess.Authenticated() {
		sess = models.AuthSession{}
	}
	c.session = sess

	if err := c.store.Save(ctx, sess); err != nil {
		c.log.Error(ctx, "persist session", "err", err)
	}

	loggedIn := sess.Authenticated()
	if loggedIn {
		c.view.AuthStatus = "Logged in as " + sess.DisplayName() + "."
	} else {
		c.view.AuthStatus = statusLoggedOut
	}
	c.view.LogoutVisible = loggedIn
	c.view.LoginSubmitEnabled = !loggedIn
	c.view.SignupSubmitEnabled = loggedIn
}

// OpenLoginDialog opens the teacher login dialog.
func (c *Controller) OpenLoginDialog() {
	c.mu.Lock()
	c.view.LoginDialogOpen = true
	c.mu.Unlock()
}

// CloseLoginDialog closes the login dialog. Closing a closed dialog is a
// no-op.
func (c *Controller) CloseLoginDialog() {
	c.mu.Lock()
	c.view.LoginDialogOpen = false
	c.mu.Unlock()
}

// FetchActivities reloads the activity list and rebuilds the cards and
// the selector. If a newer fetch has already been applied when the response
// arrives, the response is dropped.
func (c *Controller) FetchActivities(ctx context.Context) {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.mu.Unlock()

	list, err := c.api.ListActivities(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.appliedFetch {
		c.log.Debug(ctx, "drop stale activities response", "seq", seq, "applied", c.appliedFetch)
		return
	}
	c.appliedFetch = seq
	c.view.Loaded = true

	if err != nil {
		c.view.Activities = nil
		c.view.ListError = listFailed
		c.log.Error(ctx, "fetch activities", "err", err)
		return
	}

	c.view.ListError = ""
	c.view.Activities = buildCards(list, c.session.Authenticated())
	c.view.ActivityOptions = buildOptions(list)
}

// HandleSignup registers email for activity on behalf of the logged-in
// teacher.
func (c *Controller) HandleSignup(ctx context.Context, activity, email string) {
	token := c.Session().Token
	if token == "" {
		c.showMessage("Only teachers can register students.", models.SeverityError)
		return
	}

	msg, err := c.api.Signup(ctx, token, activity, email)
	if err != nil {
		c.reportFailure(ctx, err, "An error occurred", "Failed to sign up. Please try again.", "sign up", "activity", activity)
		return
	}

	c.showMessage(msg, models.SeveritySuccess)
	c.FetchActivities(ctx)
}

// HandleUnregister removes email from activity on behalf of the logged-in
// teacher.
func (c *Controller) HandleUnregister(ctx context.Context, activity, email string) {
	token := c.Session().Token
	if token == "" {
		c.showMessage("Only teachers can unregister students.", models.SeverityError)
		return
	}

	msg, err := c.api.Unregister(ctx, token, activity, email)
	if err != nil {
		c.reportFailure(ctx, err, "An error occurred", "Failed to unregister. Please try again.", "unregister", "activity", activity)
		return
	}

	c.showMessage(msg, models.SeveritySuccess)
	c.FetchActivities(ctx)
}

// HandleLogin authenticates a teacher. The username is trimmed; the
// password is sent as typed.
func (c *Controller) HandleLogin(ctx context.Context, username, password string) {
	username = strings.TrimSpace(username)

	res, err := c.api.Login(ctx, username, password)
	if err != nil {
		c.reportFailure(ctx, err, "Login failed", "Login failed. Please try again.", "log in", "username", username)
		return
	}

	c.SetAuthState(ctx, res.Token, res.Username)
	c.showMessage("Teacher login successful.", models.SeveritySuccess)
	c.CloseLoginDialog()
	c.FetchActivities(ctx)
}

// HandleLogout ends the session. The server is told on a best-effort basis;
// local state is cleared whatever it answers.
func (c *Controller) HandleLogout(ctx context.Context) {
	token := c.Session().Token
	if token == "" {
		return
	}

	if err := c.api.Logout(ctx, token); err != nil {
		c.log.Warn(ctx, "log out", "err", err)
	}

	c.SetAuthState(ctx, "", "")
	c.CloseLoginDialog()
	c.FetchActivities(ctx)
}

// reportFailure shows the server's detail (or rejected) for API errors and
// failed for everything else, logging the latter.
func (c *Controller) reportFailure(ctx context.Context, err error, rejected, failed, action string, args ...any) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		c.log.Info(ctx, action+" rejected", append(args, "status", apiErr.StatusCode)...)
		c.showMessage(client.DetailOr(err, rejected), models.SeverityError)
		return
	}
	c.log.Error(ctx, action, append(args, "err", err)...)
	c.showMessage(failed, models.SeverityError)
}

func (c *Controller) showMessage(text string, severity models.Severity) {
	c.mu.Lock()
	c.messageSeq++
	seq := c.messageSeq
	c.view.Message = models.Message{Text: text, Severity: severity}
	c.mu.Unlock()

	c.afterFunc(c.messageDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.messageSeq == seq {
			c.view.Message.Hidden = true
		}
	})
}
