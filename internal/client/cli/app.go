package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/mergington/signup/internal/client/client"
	"github.com/mergington/signup/internal/client/config"
	"github.com/mergington/signup/internal/client/controller"
	"github.com/mergington/signup/internal/client/render"
	"github.com/mergington/signup/internal/client/session"
	"github.com/mergington/signup/internal/filex"
	"github.com/mergington/signup/internal/logging"
)

// App is the terminal front end over a controller.Controller.
type App struct {
	config *config.Config
	ctrl   *controller.Controller
	db     *sql.DB
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the session database, builds the API client and restores
// the saved session.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)
	return newApp(ctx, c, os.Stdin, os.Stdout, log)
}

func newApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer, log logging.Logger) (*App, error) {
	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	api, err := client.NewHTTPClient(c.ServerURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log.With("component", "api")),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctrl := controller.New(ctx, api, session.NewSQLStore(db),
		controller.WithLogger(log.With("component", "controller")),
		controller.WithMessageDelay(c.MessageDelay),
	)

	return &App{
		config: c,
		ctrl:   ctrl,
		db:     db,
		log:    log,
		reader: bufio.NewReader(in),
		out:    out,
	}, nil
}

// Run loads the activity list and runs the REPL until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.db.Close(); err != nil {
			a.log.Warn(ctx, "close database", "err", err)
		}
	}()

	fmt.Fprintln(a.out, "Mergington High School signup (type 'help' for commands)")
	_ = a.List(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.ctrl.Session().Authenticated()
}

func (a *App) getStatus() string {
	s := a.ctrl.Session()
	if !s.Authenticated() {
		return "guest"
	}
	return render.Escape(s.DisplayName())
}

// showStatus prints the auth line and any visible message.
func (a *App) showStatus() {
	if err := render.Status(a.out, a.ctrl.View()); err != nil {
		a.log.Warn(context.Background(), "render status", "err", err)
	}
}

// List reloads the activities and prints them.
func (a *App) List(ctx context.Context) error {
	a.ctrl.FetchActivities(ctx)
	if err := render.Activities(a.out, a.ctrl.View()); err != nil {
		return err
	}
	a.showStatus()
	return nil
}
