package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/boxpack/internal/api"
	"github.com/eugenenazirov/boxpack/internal/config"
	"github.com/eugenenazirov/boxpack/internal/packer"
	"github.com/eugenenazirov/boxpack/internal/scenario"
	"github.com/eugenenazirov/boxpack/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	packer  packer.Packer
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if cfg.ScenarioFile != "" {
		sc, err := scenario.Load(cfg.ScenarioFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load initial scenario: %w", err)
		}
		if err := store.SetScenario(sc); err != nil {
			return nil, fmt.Errorf("failed to apply initial scenario: %w", err)
		}
		logger.Info("initial scenario loaded",
			zap.String("path", cfg.ScenarioFile),
			zap.Int("items", len(sc.Items)),
		)
	}

	finder, err := packer.FinderByName(cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to select placement strategy: %w", err)
	}
	solver := packer.New(packer.WithFinder(finder))

	handler := api.NewHandler(solver, store,
		api.WithMaxGridCells(cfg.MaxGridCells),
		api.WithRenderScale(cfg.RenderScale),
		api.WithHandlerLogger(logger),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		storage: store,
		packer:  solver,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// BuildRootHandler constructs the root HTTP handler. API requests are routed
// to apiHandler and the root path redirects to the rendered scenario.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/api/render.png", http.StatusFound)
	}))
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
