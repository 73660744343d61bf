package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gigledger/gigledger/cmd/gigledger/cli"
	"github.com/gigledger/gigledger/internal/app"
	"github.com/gigledger/gigledger/internal/auth"
	"github.com/gigledger/gigledger/internal/budget"
	"github.com/gigledger/gigledger/internal/cache"
	"github.com/gigledger/gigledger/internal/catalog"
	"github.com/gigledger/gigledger/internal/dailyentry"
	"github.com/gigledger/gigledger/internal/dashboard"
	dashboardhttp "github.com/gigledger/gigledger/internal/dashboard/http"
	"github.com/gigledger/gigledger/internal/expense"
	"github.com/gigledger/gigledger/internal/goal"
	"github.com/gigledger/gigledger/internal/observability"
	"github.com/gigledger/gigledger/internal/onboarding"
	"github.com/gigledger/gigledger/internal/plan"
	"github.com/gigledger/gigledger/internal/reports"
	"github.com/gigledger/gigledger/internal/reports/export"
	reportshttp "github.com/gigledger/gigledger/internal/reports/http"
	"github.com/gigledger/gigledger/internal/revenue"
	"github.com/gigledger/gigledger/internal/worklog"
	"github.com/gigledger/gigledger/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		if err := runJobsCommand(ctx, cfg, os.Args[2:]); err != nil {
			logger.Error("jobs command", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	dashboardCache := cache.New(redisClient, cfg.DashboardCacheTTL)
	lookupCache := cache.New(redisClient, cfg.LookupCacheTTL)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, jobClient, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := auth.NewHandler(logger, authService)

	catalogService := catalog.NewService(catalog.NewRepository(dbpool), lookupCache)
	catalogHandlers := app.CatalogHandlers{
		Drivers:        catalog.NewHandler(logger, catalogService, catalog.KindDriver),
		Vehicles:       catalog.NewHandler(logger, catalogService, catalog.KindVehicle),
		Platforms:      catalog.NewHandler(logger, catalogService, catalog.KindPlatform),
		ExpenseTypes:   catalog.NewHandler(logger, catalogService, catalog.KindExpenseType),
		PaymentMethods: catalog.NewHandler(logger, catalogService, catalog.KindPaymentMethod),
	}

	revenueService := revenue.NewService(revenue.NewRepository(dbpool), dashboardCache)
	expenseService := expense.NewService(expense.NewRepository(dbpool), dashboardCache)
	workLogService := worklog.NewService(worklog.NewRepository(dbpool), dashboardCache)
	dailyEntryService := dailyentry.NewService(dbpool, dashboardCache)

	dashboardRepo := dashboard.NewRepository(dbpool)
	dashboardService := dashboard.NewService(dashboardRepo, dashboardCache)
	dashboardHandler := dashboardhttp.NewHandler(logger, dashboardService)

	planService := plan.NewService(plan.NewRepository(dbpool))
	reportService := reports.NewService(dashboardRepo)
	pdfRenderer := &export.PDFExporter{Endpoint: cfg.GotenbergURL, Client: http.DefaultClient}
	exporter := export.NewExporter(reportService, planService, pdfRenderer)
	reportsHandler := reportshttp.NewHandler(logger, reportService, exporter)

	goalHandler := goal.NewHandler(logger, goal.NewService(goal.NewRepository(dbpool), dashboardRepo))
	budgetHandler := budget.NewHandler(logger, budget.NewService(budget.NewRepository(dbpool)))
	onboardingHandler := onboarding.NewHandler(logger, onboarding.NewService(onboarding.NewRepository(dbpool)))

	revenueHandler := revenue.NewHandler(logger, revenueService)
	expenseHandler := expense.NewHandler(logger, expenseService)
	workLogHandler := worklog.NewHandler(logger, workLogService)
	dailyEntryHandler := dailyentry.NewHandler(logger, dailyEntryService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		AuthVerifier:      authService,
		Catalog:           catalogHandlers,
		RevenueHandler:    revenueHandler,
		ExpenseHandler:    expenseHandler,
		WorkLogHandler:    workLogHandler,
		DailyEntryHandler: dailyEntryHandler,
		DashboardHandler:  dashboardHandler,
		ReportsHandler:    reportsHandler,
		GoalHandler:       goalHandler,
		BudgetHandler:     budgetHandler,
		OnboardingHandler: onboardingHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// runJobsCommand handles `gigledger jobs trigger <name>` and
// `gigledger jobs pending` for manual queue management.
func runJobsCommand(ctx context.Context, cfg *app.Config, args []string) error {
	jc, err := cli.NewJobsCLI(cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer func() { _ = jc.Close() }()

	if len(args) == 0 {
		return fmt.Errorf("usage: gigledger jobs trigger <name> | gigledger jobs pending")
	}
	switch args[0] {
	case "trigger":
		if len(args) < 2 {
			return fmt.Errorf("usage: gigledger jobs trigger <name>")
		}
		info, err := jc.Trigger(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s (id %s)\n", info.Type, info.ID)
		return nil
	case "pending":
		pending, err := jc.Pending()
		if err != nil {
			return err
		}
		fmt.Printf("pending tasks: %d\n", pending)
		return nil
	default:
		return fmt.Errorf("unknown jobs subcommand %q", args[0])
	}
}
