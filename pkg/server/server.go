// Package server exposes a read-only debug HTTP API over a running world.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// Guard serializes access to a world that is ticking on another goroutine. View runs fn while
// no tick is in progress.
type Guard interface {
	View(fn func(w *ecs.World) error) error
}

type Server struct {
	app    *fiber.App
	guard  Guard
	logger zerolog.Logger
}

// Option configures a Server.
type Option func(s *Server)

// WithLogger sets the server logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithCORS allows cross-origin requests, e.g. from a browser-based inspector.
func WithCORS() Option {
	return func(s *Server) { s.app.Use(cors.New()) }
}

// New returns an HTTP server with the debug handlers.
func New(guard Guard, opts ...Option) (*Server, error) {
	if guard == nil {
		return nil, eris.New("server requires a non-nil world guard")
	}

	app := fiber.New(fiber.Config{
		Network:               "tcp", // Enable server listening on both ipv4 & ipv6 (default: ipv4 only)
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s := &Server{
		app:    app,
		guard:  guard,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()

	return s, nil
}

// Serve listens on address until the context is canceled, blocking the calling goroutine.
func (s *Server) Serve(ctx context.Context, address string) error {
	serverErr := make(chan error, 1)

	// Starts the server in a new goroutine
	go func() {
		s.logger.Info().Str("address", address).Msg("Starting debug HTTP server")
		if err := s.app.Listen(address); err != nil {
			serverErr <- eris.Wrap(err, "error starting http server")
		}
	}()

	// This function will block until the server is shutdown or the context is canceled.
	select {
	case err := <-serverErr:
		return eris.Wrap(err, "server encountered an error")
	case <-ctx.Done():
		if err := s.shutdown(); err != nil {
			return eris.Wrap(err, "error shutting down server")
		}
	}

	return nil
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) shutdown() error {
	s.logger.Info().Msg("Shutting down debug HTTP server")

	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return eris.Wrap(err, "error shutting down server")
	}

	s.logger.Info().Msg("Successfully shut down debug HTTP server")
	return nil
}

func (s *Server) setupRoutes() {
	// Route: /...
	s.app.Get("/health", s.getHealth)

	// Route: /fonts/...
	fonts := s.app.Group("/fonts")
	fonts.Get("/", s.listFonts)
	fonts.Get("/:key", s.getFont)
	fonts.Get("/:key/users", s.getFontUsers)

	// Route: /debug/...
	debug := s.app.Group("/debug")
	debug.Get("/components", s.getComponents)
	debug.Post("/search", s.postSearch)
}

// errorHandler renders errors as {"error": "..."} with the status of fiber errors, or 500.
func errorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return ctx.Status(code).JSON(fiber.Map{"error": err.Error()})
}
