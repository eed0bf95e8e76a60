package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-builder/internal/adapter/http"
	"resume-builder/internal/adapter/persist"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/dashboard"
	"resume-builder/internal/export"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/metrics"
	"resume-builder/internal/refdata"
	"resume-builder/internal/registration"
	"resume-builder/internal/session"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Error("database not available", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
		if cfg.Database.RunMigrations {
			if err := migration.RunMigrations(ctx, pool); err != nil {
				os.Exit(1)
			}
		}
	} else {
		log.Warn("warning: DATABASE_URL not set, resumes will not be persisted")
	}

	refs, err := refdata.Load(cfg.Refdata.Dir)
	if err != nil {
		log.Error("load reference data", "dir", cfg.Refdata.Dir, "error", err)
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	exporter := export.NewExporter(infra.NewChromedpSurface(cfg.Render.ChromePath), cfg.Render.Timeout, log,
		export.WithConcurrency(cfg.Render.Concurrency))

	deps := httpadapter.Deps{
		Sessions:     session.NewRegistry(),
		Refs:         refs,
		Registration: registration.New(refs),
		Metrics:      m,
		Gatherer:     prometheus.DefaultGatherer,
		Logger:       log,
	}

	var (
		saver  usecase.Saver
		source dashboard.Source
	)
	saveURL := cfg.Save.URL
	if pool != nil {
		db := repo.Pool{Pool: pool}
		users := repo.NewUsersRepo(db)
		deps.Resumes = repo.NewResumeRepo(db, log)
		deps.UserStore = users
		source = users
		if saveURL == "" {
			saveURL = "http://127.0.0.1:" + cfg.Server.Port + "/api/save-resume"
		}
	}
	if saveURL != "" {
		saver = persist.NewClient(saveURL,
			persist.WithHTTPClient(&http.Client{Timeout: cfg.Save.Timeout}),
			persist.WithRetry(cfg.Save.Attempts, 500*time.Millisecond),
			persist.WithLogger(log),
		)
	}
	if cfg.Dashboard.DataFile != "" {
		source = dashboard.FileSource{Path: cfg.Dashboard.DataFile}
	}
	deps.Users = dashboard.NewStore(source)
	if err := deps.Users.Refresh(ctx); err != nil {
		log.Warn("warning: failed to load dashboard users", "error", err)
	}
	deps.Processor = usecase.NewProcessor(saver, exporter, m, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: httpadapter.ErrorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	httpadapter.NewHandler(deps).Register(app)

	go expireSessions(ctx, deps.Sessions, cfg.Server.SessionTTL, m, log)

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Error("server failed", "error", err)
			stop()
		}
	}()
	log.Info("server started", "port", cfg.Server.Port)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}

func expireSessions(ctx context.Context, reg *session.Registry, ttl time.Duration, m *metrics.Metrics, log *slog.Logger) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := reg.Expire(ttl, now); n > 0 {
				log.Info("sessions expired", "count", n)
			}
			m.ActiveSessions.Set(float64(reg.Len()))
		}
	}
}
