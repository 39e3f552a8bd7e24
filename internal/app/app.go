// Package app is the composition root: it turns a Config into a running
// HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/pollylang/pollylang-backend/internal/adapter/postgres"
	"github.com/pollylang/pollylang-backend/internal/adapter/postgres/playersave"
	"github.com/pollylang/pollylang-backend/internal/adapter/postgres/user"
	"github.com/pollylang/pollylang-backend/internal/adapter/provider/llm"
	"github.com/pollylang/pollylang-backend/internal/adapter/provider/wordbank"
	"github.com/pollylang/pollylang-backend/internal/auth"
	"github.com/pollylang/pollylang-backend/internal/cache"
	"github.com/pollylang/pollylang-backend/internal/config"
	"github.com/pollylang/pollylang-backend/internal/domain"
	"github.com/pollylang/pollylang-backend/internal/observability"
	authsvc "github.com/pollylang/pollylang-backend/internal/service/auth"
	"github.com/pollylang/pollylang-backend/internal/service/dialogue"
	savesvc "github.com/pollylang/pollylang-backend/internal/service/playersave"
	"github.com/pollylang/pollylang-backend/internal/service/vocabulary"
	"github.com/pollylang/pollylang-backend/internal/transport/middleware"
	"github.com/pollylang/pollylang-backend/internal/transport/rest"
)

// App owns the HTTP server and everything that must be closed after it.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	server  *http.Server
	closers []func(context.Context) error
}

// Run loads configuration, builds the application and serves until ctx is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(os.Stderr, cfg.Log)
	logger.Info("starting application", buildAttrs(), slog.String("log_level", cfg.Log.Level))

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// New wires every component described by cfg. Accounts and saves are only
// mounted when a database DSN is configured.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: logger}

	tp, err := observability.InitTracing(ctx, observability.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: Version,
		Environment:    cfg.Tracing.Environment,
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
		Headers:        cfg.Tracing.Headers,
		Insecure:       cfg.Tracing.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.closers = append(a.closers, tp.Shutdown)

	dialogueSvc, err := newDialogueService(cfg, logger)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	handlers := rest.Handlers{
		Dialogue: rest.NewDialogueHandler(dialogueSvc, logger),
	}
	checks := map[string]rest.Pinger{}
	var session middleware.Middleware

	if cfg.Database.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })
		checks["database"] = pool

		if cfg.Database.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				a.close(ctx)
				return nil, fmt.Errorf("migrate database: %w", err)
			}
			logger.Info("migrations applied", slog.Any("versions", applied))
		}

		sessions := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.CookieName, cfg.Auth.SessionTTL, cfg.Auth.SecureCookie)
		hasher := auth.NewPasswordHasher(auth.ScryptParams{
			N:      cfg.Auth.ScryptN,
			R:      cfg.Auth.ScryptR,
			P:      cfg.Auth.ScryptP,
			KeyLen: cfg.Auth.ScryptKeyLen,
		})

		accounts := authsvc.NewService(logger, user.New(pool), postgres.NewTxManager(pool), hasher, sessions)
		saves := savesvc.NewService(logger, playersave.New(pool), domain.MaxSaveBytes)

		handlers.Auth = rest.NewAuthHandler(accounts, sessions, logger)
		handlers.Saves = rest.NewSaveHandler(saves, logger)
		session = middleware.Session(sessions)
	} else {
		logger.Warn("no database configured; accounts and saves are disabled")
	}

	handlers.Health = rest.NewHealthHandler(BuildVersion(), checks)

	var tracing middleware.Middleware
	if tp.IsEnabled() {
		tracing = middleware.Tracing(tp.Tracer("pollylang/http"))
	}

	handler := middleware.Chain(
		middleware.Recovery(logger),
		tracing,
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		session,
		middleware.Logger(logger),
		middleware.MaxBody(cfg.Server.MaxBodyBytes),
	)(rest.NewRouter(handlers))

	a.server = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	return a, nil
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler { return a.server.Handler }

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout and releases resources.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", slog.String("addr", a.server.Addr))
		errCh <- a.server.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("http shutdown: %w", err)
		}
		a.close(shutdownCtx)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
		a.close(context.WithoutCancel(ctx))
	}
	return runErr
}

// close releases resources in reverse order of acquisition.
func (a *App) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.log.Warn("close resource", slog.String("error", err.Error()))
		}
	}
	a.closers = nil
}

func newDialogueService(cfg *config.Config, logger *slog.Logger) (*dialogue.Service, error) {
	policy, err := dialogue.ParsePolicy(cfg.Dialogue.Policy)
	if err != nil {
		return nil, fmt.Errorf("dialogue policy: %w", err)
	}
	fallbacks, err := dialogue.ParseFallbacks(cfg.Dialogue.Fallbacks)
	if err != nil {
		return nil, fmt.Errorf("dialogue fallbacks: %w", err)
	}

	bankCache, err := cache.New[domain.Bank](cfg.Cache.BankSize)
	if err != nil {
		return nil, fmt.Errorf("bank cache: %w", err)
	}
	rulesCache, err := cache.New[domain.LevelRules](cfg.Cache.RulesSize)
	if err != nil {
		return nil, fmt.Errorf("rules cache: %w", err)
	}

	resources := wordbank.NewProvider(wordbank.Config{
		BaseURL:   cfg.Resources.BaseURL,
		BankPath:  cfg.Resources.BankPath,
		RulesPath: cfg.Resources.RulesPath,
		Timeout:   cfg.Resources.FetchTimeout,
	}, logger)

	client := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   int(cfg.LLM.MaxTokens),
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	return dialogue.NewService(logger,
		vocabulary.NewBankStore(logger, resources, bankCache, cfg.Dialogue.Cumulative, cfg.Dialogue.MaxTier),
		vocabulary.NewRuleStore(logger, resources, rulesCache),
		client,
		dialogue.Settings{
			Policy:      policy,
			Threshold:   cfg.Dialogue.Threshold,
			MaxAttempts: cfg.Dialogue.MaxAttempts,
			Ceiling:     cfg.Dialogue.Ceiling,
			SliceLimit:  cfg.Dialogue.SliceLimit,
			Fallbacks:   fallbacks,
		},
	), nil
}
