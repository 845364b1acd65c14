// Package server wires the dev API server: configuration, the in-memory user
// store seeded from config, and the fiber router serving the login API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gopkg.in/gomail.v2"

	"github.com/dmitrijs2005/authdialog/internal/logging"
	"github.com/dmitrijs2005/authdialog/internal/server/config"
	"github.com/dmitrijs2005/authdialog/internal/server/handlers"
	"github.com/dmitrijs2005/authdialog/internal/server/mail"
	"github.com/dmitrijs2005/authdialog/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	router      *fiber.App
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogLevel, "json")
	if err != nil {
		return nil, err
	}

	us := users.NewService(users.NewMemoryRepository(), newMailer(c), c, logger)
	if err := us.Seed(ctx, c.Users); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}

	return newApp(c, logger, us), nil
}

func newMailer(c *config.Config) mail.Sender {
	if c.SMTP.Host == "" {
		return mail.NewWriterSender(os.Stderr)
	}
	d := gomail.NewDialer(c.SMTP.Host, c.SMTP.Port, c.SMTP.Username, c.SMTP.Password)
	return mail.NewSMTPSender(d, c.SMTP.From)
}

func newApp(c *config.Config, logger logging.Logger, us *users.Service) *App {
	h := handlers.NewHandler(us, logger)

	router := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          h.ErrorHandler,
	})
	router.Use(recover.New())
	h.Register(router)

	return &App{config: c, logger: logger, userService: us, router: router}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves on the configured address until ctx is cancelled or a signal
// arrives.
func (app *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.ListenAddr)
	if err != nil {
		return err
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(ctx, cancelFunc)

	errc := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting API server", "address", ln.Addr().String(), "public_url", app.config.PublicURL)
		errc <- app.router.Listener(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Stopping API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.router.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errc
}
