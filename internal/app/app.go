package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"NewsHarvester/internal/config"
	"NewsHarvester/internal/infrastructure/extract"
	"NewsHarvester/internal/infrastructure/feed"
	"NewsHarvester/internal/infrastructure/llm"
	"NewsHarvester/internal/infrastructure/scheduler"
	"NewsHarvester/internal/infrastructure/storage"
	"NewsHarvester/internal/infrastructure/telegram"
	"NewsHarvester/internal/logging"
	"NewsHarvester/internal/ports"
	"NewsHarvester/internal/retry"
	"NewsHarvester/internal/usecase"
	"NewsHarvester/pkg/logger"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	scheduler *usecase.Scheduler
	db        *sql.DB
	logger    *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	repository := storage.NewPostgresRepository(db)

	policy := retry.Default()

	source := feed.NewFetcher(
		&http.Client{Timeout: cfg.HTTP.FeedTimeout()},
		cfg.HTTP.UserAgent,
		policy,
		baseLogger.With("component", "feed"),
	)

	extractor := extract.NewChain(
		&http.Client{Timeout: cfg.HTTP.PageTimeout()},
		cfg.HTTP.UserAgent,
		policy,
		baseLogger.With("component", "extract"),
	)

	var rewriter ports.Rewriter
	if cfg.Rewrite.Enabled && cfg.Rewrite.APIKey != "" {
		rewriter = llm.NewRewriteClient(cfg.Rewrite, policy, baseLogger.With("component", "rewrite"))
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	importer := usecase.NewImporter(usecase.ImporterDeps{
		Source:     source,
		Extractor:  extractor,
		Rewriter:   rewriter,
		Repository: repository,
		AuthorName: cfg.Import.AuthorName,
		Workers:    cfg.Import.ItemWorkers,
		Logger:     baseLogger.With("component", "importer"),
	})

	sched := usecase.NewScheduler(usecase.SchedulerDeps{
		Driver:   scheduler.NewCronDriver(logger.New("cron")),
		Importer: importer,
		Notifier: notifier,
		Jobs:     buildJobs(cfg),
		Logger:   baseLogger.With("component", "scheduler"),
	})

	return &Application{cfg: cfg, scheduler: sched, db: db, logger: baseLogger}, nil
}

// Scheduler exposes the manual control surface (trigger/status/start/stop).
func (a *Application) Scheduler() *usecase.Scheduler {
	return a.scheduler
}

// Run starts the scheduled jobs and blocks until ctx is cancelled, then
// stops cooperatively: future ticks are prevented, in-flight runs finish.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.StartAll(ctx); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	a.logger.Info("scheduler started", "jobs", len(a.cfg.Jobs))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.scheduler.StopAll(stopCtx); err != nil {
		return fmt.Errorf("stop jobs: %w", err)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	a.logger.Info("scheduler stopped")
	return nil
}

func buildJobs(cfg config.Config) []usecase.JobSpec {
	jobs := make([]usecase.JobSpec, 0, len(cfg.Jobs))
	for _, job := range cfg.Jobs {
		categories := make([]usecase.CategoryImport, 0, len(job.Categories))
		for _, cat := range job.Categories {
			categories = append(categories, usecase.CategoryImport{
				Name:        cat.Name,
				Slug:        cat.Slug,
				Feeds:       cat.Feeds,
				MaxArticles: cfg.Import.MaxArticlesPerCategory,
			})
		}
		jobs = append(jobs, usecase.JobSpec{
			Name:       job.Name,
			Interval:   job.Interval(),
			Categories: categories,
		})
	}
	return jobs
}
