package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/alexanderramin/plateplan/internal/adjust"
	"github.com/alexanderramin/plateplan/internal/cli"
	"github.com/alexanderramin/plateplan/internal/cli/formatter"
	"github.com/alexanderramin/plateplan/internal/config"
	"github.com/alexanderramin/plateplan/internal/customizer"
	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/entitlement"
	"github.com/alexanderramin/plateplan/internal/httpapi"
	"github.com/alexanderramin/plateplan/internal/llm"
	"github.com/alexanderramin/plateplan/internal/logging"
	"github.com/alexanderramin/plateplan/internal/notify"
	"github.com/alexanderramin/plateplan/internal/ratelimit"
	"github.com/alexanderramin/plateplan/internal/repository"
	"github.com/alexanderramin/plateplan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprint(os.Stderr, formatter.FormatError(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	templateRepo := repository.NewSQLiteTemplateRepo(database)
	slotRepo := repository.NewSQLiteSlotRepo(database)
	constraintRepo := repository.NewSQLiteConstraintRepo(database)
	deviationRepo := repository.NewSQLiteDeviationRepo(database)
	signalsRepo := repository.NewSQLiteSignalsRepo(database)
	profileRepo := repository.NewSQLiteUserProfileRepo(database)
	tierRepo := repository.NewSQLiteTierRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	events := notify.NewRegistry()
	if cfg.RedisAddr != "" {
		relay, err := notify.NewRedisRelay(ctx, cfg.RedisAddr, cfg.RedisChannel, log)
		if err != nil {
			return fmt.Errorf("connecting plan event relay: %w", err)
		}
		defer relay.Close()
		if err := relay.Listen(ctx, events); err != nil {
			return err
		}
		events.AddRelay(relay)
	}

	custom, closeLLM, err := buildCustomizer(ctx, cfg.LLM, log)
	if err != nil {
		return err
	}
	defer closeLLM()

	opts := service.PlanningOptions{
		MealSlots:               cfg.MealSlots,
		TopN:                    cfg.TopN,
		DailyCalories:           cfg.DailyCalories,
		SimplifyAfterDeviations: cfg.SimplifyAfterDeviations,
	}
	obs := service.NewLogUseCaseObserver(log)

	adjustSvc := service.NewAdjustService(
		constraintRepo, deviationRepo,
		entitlement.NewChecker(tierRepo, cfg.DefaultTier),
		adjust.NewEngine(), uow, events, log, opts, obs,
	)
	planSvc := service.NewPlanService(slotRepo, uow, events, log, obs)

	a := &cli.App{
		Personalize: service.NewPersonalizeService(service.PersonalizeDeps{
			Templates:   templateRepo,
			Constraints: constraintRepo,
			Signals:     signalsRepo,
			Profiles:    profileRepo,
			Customizer:  custom,
			Limiter:     ratelimit.New(cfg.RegenerationsPerHour, cfg.RegenerationBurst),
			Notifier:    events,
			UoW:         uow,
			Log:         log,
		}, opts, obs),
		Allocate:    service.NewAllocateService(templateRepo, constraintRepo, signalsRepo, uow, events, log, opts, obs),
		Adjust:      adjustSvc,
		Streak:      service.NewStreakService(slotRepo, obs),
		Plans:       planSvc,
		Deviations:  service.NewDeviationService(deviationRepo, adjustSvc, obs),
		Catalog:     service.NewCatalogService(templateRepo, uow, obs),
		CatalogDir:  cfg.CatalogDir,
		DefaultUser: cfg.DefaultUser,
	}

	// Detect interactive terminal for prompts and spinners.
	a.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	a.Serve = func(ctx context.Context) error {
		if cfg.LogMode == "prod" || cfg.LogMode == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := httpapi.NewRouter(httpapi.Deps{
			Personalize: a.Personalize,
			Allocate:    a.Allocate,
			Adjust:      a.Adjust,
			Streak:      a.Streak,
			Plans:       a.Plans,
			Deviations:  a.Deviations,
			Catalog:     a.Catalog,
			Events:      events,
			Log:         log,
			CORSOrigins: cfg.CORSOrigins,
		})
		return httpapi.NewServer(cfg.HTTPAddr, router, cfg.ShutdownTimeout, log).Run(ctx)
	}

	return cli.NewRootCmd(a).ExecuteContext(ctx)
}

// buildCustomizer returns the LLM-backed customizer when enabled and the
// scaling-only fallback otherwise. The returned func releases the client.
func buildCustomizer(ctx context.Context, cfg llm.LLMConfig, log *zap.Logger) (customizer.Customizer, func(), error) {
	noop := func() {}
	if !cfg.Enabled {
		return customizer.ScalingOnly{}, noop, nil
	}

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LogCalls {
		observer = llm.NewLogObserver(log)
	}
	client, err := llm.NewClient(ctx, cfg, observer)
	if err != nil {
		return nil, noop, fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}
	if !client.Available(ctx) {
		log.Warn("llm_unavailable", zap.String("provider", string(cfg.Provider)))
	}

	release := noop
	if c, ok := client.(io.Closer); ok {
		release = func() { _ = c.Close() }
	}
	return customizer.NewLLMCustomizer(client), release, nil
}
