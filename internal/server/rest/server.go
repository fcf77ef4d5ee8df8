// Package rest exposes the DrivenPass API over HTTP using a chi router.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/drivenpass/internal/logging"
	"github.com/dmitrijs2005/drivenpass/internal/server/metrics"
	"github.com/dmitrijs2005/drivenpass/internal/server/models"
	"github.com/dmitrijs2005/drivenpass/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
)

type UserService interface {
	CreateUser(ctx context.Context, email, password string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*services.SignInResult, error)
	Authenticate(ctx context.Context, token string) (int64, error)
	SignOut(ctx context.Context, token string) error
}

type CredentialService interface {
	Create(ctx context.Context, userID int64, in services.CredentialInput) (*models.Credential, error)
	Get(ctx context.Context, userID, id int64) (*models.Credential, error)
	List(ctx context.Context, userID int64) ([]*models.Credential, error)
	Delete(ctx context.Context, userID, id int64) error
}

type NetworkService interface {
	Create(ctx context.Context, userID int64, in services.NetworkInput) (*models.Network, error)
	Get(ctx context.Context, userID, id int64) (*models.Network, error)
	List(ctx context.Context, userID int64) ([]*models.Network, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Options carries the transport settings of a Server.
type Options struct {
	Address         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type Server struct {
	options     Options
	logger      logging.Logger
	metrics     *metrics.Metrics
	users       UserService
	credentials CredentialService
	networks    NetworkService
	validate    *validator.Validate
	router      chi.Router
}

func NewServer(opts Options, l logging.Logger, m *metrics.Metrics, us UserService, cs CredentialService, ns NetworkService) *Server {
	s := &Server{
		options:     opts,
		logger:      l.With("module", "rest_server"),
		metrics:     m,
		users:       us,
		credentials: cs,
		networks:    ns,
		validate:    newValidator(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.options.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{traceIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Post("/users", s.signUp)
	r.Post("/users/sign-in", s.signIn)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Post("/users/sign-out", s.signOut)

		r.Route("/credential", func(r chi.Router) {
			r.Post("/", s.createCredential)
			r.Get("/", s.listCredentials)
			r.Get("/{id}", s.getCredential)
			r.Delete("/{id}", s.deleteCredential)
		})

		r.Route("/network", func(r chi.Router) {
			r.Post("/", s.createNetwork)
			r.Get("/", s.listNetworks)
			r.Get("/{id}", s.getNetwork)
			r.Delete("/{id}", s.deleteNetwork)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NotFoundError", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowedError", "method not allowed")
	})

	return r
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.options.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// serveCtx also ends when Serve returns early, releasing the goroutine below
	serveCtx, stop := context.WithCancel(ctx)
	defer stop()

	shutdownErr := make(chan error, 1)
	go func() {
		<-serveCtx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		// ctx is already cancelled, so the grace period needs its own context
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.options.ShutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-shutdownErr
}
