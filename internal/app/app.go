package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"shiftboard/internal/config"
	apierrors "shiftboard/internal/errors"
	"shiftboard/internal/infrastructure"
	customMiddleware "shiftboard/internal/middleware"
	"shiftboard/internal/preferences"
	"shiftboard/internal/render"
	"shiftboard/internal/services"
	"shiftboard/internal/source"
	handlers "shiftboard/internal/transport/http"
	ws "shiftboard/internal/websocket"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.Metrics
	ErrorHandler  *apierrors.ErrorHandler

	Source            source.Source
	ScheduleService   *services.ScheduleService
	PreferenceStore   preferences.Store
	PreferenceService *services.PreferenceService
	HealthService     *services.HealthService
	WebSocketHub      *ws.Hub
	Refresher         *services.Refresher
	Watcher           *source.Watcher

	html *render.HTML
}

// NewApplication loads configuration from configPath (searched for when empty),
// initializes the process logger and builds the application.
func NewApplication(configPath string) (*Application, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logCfg := cfg.Logging
	logCfg.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, paths, logger)
}

// New wires every component from cfg. Nothing is fetched or started until
// Start is called.
func New(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("source", cfg.Source.Kind),
		slog.String("base_dir", paths.BaseDir))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, config.AppVersion, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.NewMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := app.initializeServices(); err != nil {
		app.closeStores()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the schedule pipeline, preferences and push hub
func (a *Application) initializeServices() error {
	opts, err := a.Config.Parser.Options()
	if err != nil {
		return fmt.Errorf("invalid parser configuration: %w", err)
	}

	src, err := source.New(a.Config.Source, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create schedule source: %w", err)
	}
	a.Source = src

	a.WebSocketHub = ws.NewHub(a.Logger, a.Metrics)

	a.ScheduleService = services.NewScheduleService(src, opts, a.Logger,
		services.WithPublisher(a.WebSocketHub),
		services.WithMetrics(a.Metrics),
		services.WithTracer(a.OTelProviders.Tracer))

	store, err := a.openPreferenceStore()
	if err != nil {
		return err
	}
	a.PreferenceStore = store
	a.PreferenceService = services.NewPreferenceService(store, a.Metrics, a.Logger)

	a.HealthService = services.NewHealthService(config.AppVersion,
		a.ScheduleService, a.PreferenceService, a.WebSocketHub, a.Logger)

	if spec := a.Config.Refresh.Schedule; spec != "" {
		a.Refresher, err = services.NewRefresher(spec, a.ScheduleService, a.Config.Source.Timeout, a.Logger)
		if err != nil {
			return err
		}
	}

	if a.Config.Refresh.Watch {
		if path, ok := watchablePath(src); ok {
			a.Watcher, err = source.NewWatcher(path, a.Config.Refresh.Debounce, a.reloadFromWatcher, a.Logger)
			if err != nil {
				return fmt.Errorf("failed to create source watcher: %w", err)
			}
		}
	}

	a.html, err = render.NewHTML()
	if err != nil {
		return fmt.Errorf("failed to parse page templates: %w", err)
	}
	return nil
}

func (a *Application) openPreferenceStore() (preferences.Store, error) {
	switch a.Config.Preferences.Store {
	case config.StoreMemory:
		return preferences.NewMemoryStore(), nil
	case config.StoreSQLite:
		if a.Paths.PreferencesDB == "" {
			return nil, errors.New("sqlite preference store needs preferences.db_file")
		}
		store, err := preferences.NewSQLiteStore(a.Paths.PreferencesDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open preference store: %w", err)
		}
		a.Logger.Info("Preference store opened", slog.String("path", a.Paths.PreferencesDB))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown preference store %q", a.Config.Preferences.Store)
	}
}

// watchablePath returns the local file behind src, if there is one
func watchablePath(src source.Source) (string, bool) {
	if p, ok := src.(interface{ Path() string }); ok && p.Path() != "" {
		return p.Path(), true
	}
	return "", false
}

func (a *Application) reloadFromWatcher(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, a.Config.Source.Timeout)
	defer cancel()
	// outcomes are logged and published by the schedule service
	_, _ = a.ScheduleService.Reload(ctx)
}

// setupRouter builds the route tree. /ws and /metrics sit outside the full
// middleware group so the upgrade is not wrapped by Timeout.
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Handle("/ws", handlers.NewWebSocketHandler(a.WebSocketHub, a.Config.WebSocket,
		a.Config.Security.AllowedOrigins, a.Logger, a.ErrorHandler))

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.corsConfig()))
		}
		if rl := a.Config.Security.RateLimit; rl.Enabled {
			r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.ErrorHandler).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		a.setupAPIRoutes(r)
		a.setupPageRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures the JSON API
func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewRequestValidator()
	identity := handlers.NewClientIdentity(a.Config.Preferences.CookieName, a.Config.Preferences.CookieLifetime)

	scheduleHandler := handlers.NewScheduleHandler(a.ScheduleService, validator, a.Logger, a.ErrorHandler,
		customMiddleware.AdminToken(a.Config.Security.AdminTokenHash, a.Logger, a.ErrorHandler))
	preferenceHandler := handlers.NewPreferenceHandler(a.PreferenceService, identity, validator, a.Logger, a.ErrorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		r.Mount("/schedule", scheduleHandler.Routes())
		r.Mount("/preferences", preferenceHandler.Routes())
	})

	r.Post("/preferences/theme/toggle", preferenceHandler.ToggleForm)
}

// setupPageRoutes configures the server-rendered page and its assets
func (a *Application) setupPageRoutes(r chi.Router) {
	identity := handlers.NewClientIdentity(a.Config.Preferences.CookieName, a.Config.Preferences.CookieLifetime)
	pageHandler := handlers.NewPageHandler(a.ScheduleService, a.PreferenceService, identity,
		a.html, config.AppVersion, a.Logger, a.ErrorHandler)

	r.Get("/", pageHandler.Index)

	r.Route("/static", func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.SetHeader("Cache-Control", "public, max-age=3600"))
		r.Handle("/*", http.StripPrefix("/static", http.FileServerFS(render.Static())))
	})
}

func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			customMiddleware.AdminTokenHeader,
			customMiddleware.RequestIDHeader,
		},
		ExposedHeaders: []string{customMiddleware.RequestIDHeader},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start performs the initial load and starts the background components. A
// failed initial load is logged, not returned: the page reports it and later
// reloads may succeed.
func (a *Application) Start(ctx context.Context) error {
	a.WebSocketHub.Start()

	if status, err := a.ScheduleService.Reload(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Initial schedule load failed",
			slog.String("state", status.State),
			slog.String("error", err.Error()))
	}

	if a.Refresher != nil {
		a.Refresher.Start(ctx)
	}
	if a.Watcher != nil {
		if err := a.Watcher.Start(ctx); err != nil {
			a.Logger.WarnContext(ctx, "Source watcher not started",
				slog.String("error", err.Error()))
			a.Watcher = nil
		}
	}

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)),
		slog.String("source", a.Source.Describe()))
	return nil
}

// Serve runs the HTTP server on l until it is shut down
func (a *Application) Serve(l net.Listener) error {
	if err := a.Server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Run starts the application and serves until ctx is cancelled, then shuts
// down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	l, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		stopErr := a.Stop(context.Background())
		return errors.Join(fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err), stopErr)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Serve(l)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Shutdown requested")
		return a.Stop(context.Background())
	})
	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.Refresher != nil {
		if err := a.Refresher.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("refresher stop: %w", err))
		}
	}
	if a.Watcher != nil {
		if err := a.Watcher.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("watcher stop: %w", err))
		}
	}
	a.WebSocketHub.Stop()

	if err := a.closeStores(); err != nil {
		errs = append(errs, err)
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.Info("Application shutdown complete")
	return errors.Join(errs...)
}

func (a *Application) closeStores() error {
	if a.PreferenceStore == nil {
		return nil
	}
	store := a.PreferenceStore
	a.PreferenceStore = nil
	if err := store.Close(); err != nil {
		return fmt.Errorf("preference store close: %w", err)
	}
	return nil
}
