package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/authdialog/internal/client/bus"
	"github.com/dmitrijs2005/authdialog/internal/client/client"
	"github.com/dmitrijs2005/authdialog/internal/client/config"
	"github.com/dmitrijs2005/authdialog/internal/client/dialog"
	"github.com/dmitrijs2005/authdialog/internal/client/i18n"
	"github.com/dmitrijs2005/authdialog/internal/client/render"
	"github.com/dmitrijs2005/authdialog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authdialog/internal/client/services"
	"github.com/dmitrijs2005/authdialog/internal/client/storage"
	"github.com/dmitrijs2005/authdialog/internal/logging"
)

const viewWidth = 80

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	controller *services.AuthController
	dialog     *dialog.Dialog
	view       *TerminalView
	nav        *terminalNavigator
	reader     *bufio.Reader
	out        io.Writer
	detach     []func()
}

// NewApp opens the metadata store and wires the dialog for c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stderr, c.LogLevel, "text")
	if err != nil {
		return nil, err
	}

	tr, err := i18n.Load(c.Language)
	if err != nil {
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIURL, logger)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, c.StoreDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "dsn", c.StoreDSN, "error", err)
		return nil, err
	}

	app, err := newApp(c, logger, api, metadata.NewSQLiteRepository(db), tr, "", bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.db = db
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, api client.Client, store metadata.Repository, tr i18n.Translator, style string, in *bufio.Reader, out io.Writer) (*App, error) {
	r, err := render.New()
	if err != nil {
		return nil, err
	}
	view, err := NewTerminalView(r, tr, style, viewWidth)
	if err != nil {
		return nil, err
	}

	nav := newTerminalNavigator(out)
	b := bus.New(logger)
	ctrl := services.NewAuthController(b, api, store, tr, nav, logger, services.Options{
		Phones:         c.Phones,
		RequestTimeout: c.RequestTimeout,
	})
	dlg := dialog.New(b, tr, r, nav, logger, c.Phones)

	return &App{
		config:     c,
		logger:     logger,
		controller: ctrl,
		dialog:     dlg,
		view:       view,
		nav:        nav,
		reader:     in,
		out:        out,
		detach:     []func(){ctrl.Attach(), dlg.Attach()},
	}, nil
}

// Run completes a pending reset link, then serves the REPL until exit.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Sign-in dialog (type 'help' for commands)")

	if a.config.ResetFragment != "" {
		if a.controller.HandleFragment(ctx, a.config.ResetFragment) {
			a.printView()
		} else {
			a.logger.Warn(ctx, "ignoring unrecognised fragment", "fragment", a.config.ResetFragment)
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	for _, off := range a.detach {
		off()
	}
	a.detach = nil
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error(context.Background(), "closing metadata store", "error", err)
		}
		a.db = nil
	}
}

func (a *App) getStatus() string {
	v := a.dialog.View()
	s := "closed"
	if v.Open {
		s = v.State.String()
	}
	if v.Pending {
		s += " ..."
	}
	if loc := a.nav.Location(); loc != "" {
		s = loc + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}
