package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spinshelf/spinshelf-backend/internal/clients"
	"github.com/spinshelf/spinshelf-backend/internal/db"
	"github.com/spinshelf/spinshelf-backend/internal/handlers"
	"github.com/spinshelf/spinshelf-backend/internal/middleware"
	"github.com/spinshelf/spinshelf-backend/internal/observability"
	"github.com/spinshelf/spinshelf-backend/internal/platform/gcs"
	"github.com/spinshelf/spinshelf-backend/internal/platform/logger"
	"github.com/spinshelf/spinshelf-backend/internal/platform/openai"
	"github.com/spinshelf/spinshelf-backend/internal/platform/redisx"
	"github.com/spinshelf/spinshelf-backend/internal/prompts"
	"github.com/spinshelf/spinshelf-backend/internal/repos"
	"github.com/spinshelf/spinshelf-backend/internal/server"
	"github.com/spinshelf/spinshelf-backend/internal/services"
)

// App owns the wired object graph and the HTTP server lifecycle.
type App struct {
	log *logger.Logger
	cfg Config
	srv *http.Server
}

// New builds the full dependency graph: platform clients first, then repos,
// services, handlers, router.
func New(log *logger.Logger, cfg Config) (*App, error) {
	prompts.RegisterAll()
	observability.Init(log)

	gdb, err := db.Open(log)
	if err != nil {
		return nil, err
	}

	rdb, err := redisx.NewClient(log)
	if err != nil {
		log.Warn("redis unavailable, using in-process fallbacks", "err", err.Error())
		rdb = nil
	}

	model, err := openai.NewClient(log)
	if err != nil {
		return nil, err
	}

	itunes := clients.NewITunesClient(log)
	caa := clients.NewCoverArtClient(log)
	lrclib := clients.NewLrclibClient(log)
	discogs := clients.NewDiscogsClient(log)

	users := repos.NewUserRepo(gdb)
	subs := repos.NewSubscriptionRepo(gdb)

	auth, err := services.NewAuthService(log, users)
	if err != nil {
		return nil, err
	}
	plan := services.NewPlanService(subs)
	ai := services.NewAIService(log, model, itunes, caa)
	lyrics := services.NewLyricsService(log, lrclib)
	prices := services.NewPriceService(log, discogs, rdb)

	// Placeholder covers need a bucket; without one the endpoint reports
	// itself unconfigured instead of blocking startup.
	var coverart *services.CoverArtService
	if bucket, err := gcs.NewBucketService(context.Background(), log); err != nil {
		log.Warn("cover bucket unavailable, placeholder covers disabled", "err", err.Error())
	} else {
		coverart, err = services.NewCoverArtService(log, bucket)
		if err != nil {
			return nil, err
		}
	}

	router := server.NewRouter(server.Deps{
		Log:         log,
		Auth:        handlers.NewAuthHandler(log, auth),
		AI:          handlers.NewAIHandler(log, ai, lyrics, plan),
		Records:     handlers.NewRecordsHandler(log, prices, coverart),
		RequireAuth: middleware.RequireAuth(log, auth),
		RateLimit:   middleware.NewRateLimiter(log, rdb).Middleware(),
	})

	return &App{
		log: log,
		cfg: cfg,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves until SIGINT/SIGTERM, then drains connections.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, a.log, "spinshelf-backend")
	if err != nil {
		a.log.Warn("tracing init failed", "err", err.Error())
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", "addr", a.srv.Addr, "mode", a.cfg.Mode)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if shutdownTracing != nil {
		defer shutdownTracing(shutdownCtx)
	}
	return a.srv.Shutdown(shutdownCtx)
}
