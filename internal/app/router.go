package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gigledger/gigledger/internal/auth"
	"github.com/gigledger/gigledger/internal/budget"
	"github.com/gigledger/gigledger/internal/catalog"
	"github.com/gigledger/gigledger/internal/dailyentry"
	dashboardhttp "github.com/gigledger/gigledger/internal/dashboard/http"
	"github.com/gigledger/gigledger/internal/expense"
	"github.com/gigledger/gigledger/internal/goal"
	"github.com/gigledger/gigledger/internal/observability"
	"github.com/gigledger/gigledger/internal/onboarding"
	reportshttp "github.com/gigledger/gigledger/internal/reports/http"
	"github.com/gigledger/gigledger/internal/revenue"
	"github.com/gigledger/gigledger/internal/worklog"
	"github.com/gigledger/gigledger/jobs"
)

// CatalogHandlers groups the five lookup-kind handlers.
type CatalogHandlers struct {
	Drivers        *catalog.Handler
	Vehicles       *catalog.Handler
	Platforms      *catalog.Handler
	ExpenseTypes   *catalog.Handler
	PaymentMethods *catalog.Handler
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthHandler       *auth.Handler
	AuthVerifier      auth.TokenVerifier
	Catalog           CatalogHandlers
	RevenueHandler    *revenue.Handler
	ExpenseHandler    *expense.Handler
	WorkLogHandler    *worklog.Handler
	DailyEntryHandler *dailyentry.Handler
	DashboardHandler  *dashboardhttp.Handler
	ReportsHandler    *reportshttp.Handler
	GoalHandler       *goal.Handler
	BudgetHandler     *budget.Handler
	OnboardingHandler *onboarding.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with GigLedger defaults. Every
// route except health, metrics and the auth endpoints sits behind the
// bearer-token middleware.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountPublicRoutes)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(params.AuthVerifier))

		r.Route("/me", params.AuthHandler.MountProtectedRoutes)
		r.Route("/drivers", params.Catalog.Drivers.MountRoutes)
		r.Route("/vehicles", params.Catalog.Vehicles.MountRoutes)
		r.Route("/platforms", params.Catalog.Platforms.MountRoutes)
		r.Route("/expense-types", params.Catalog.ExpenseTypes.MountRoutes)
		r.Route("/payment-methods", params.Catalog.PaymentMethods.MountRoutes)
		r.Route("/revenues", params.RevenueHandler.MountRoutes)
		r.Route("/expenses", params.ExpenseHandler.MountRoutes)
		r.Route("/work-logs", params.WorkLogHandler.MountRoutes)
		r.Route("/daily-entries", params.DailyEntryHandler.MountRoutes)
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.Route("/reports", params.ReportsHandler.MountRoutes)
		r.Route("/goals", params.GoalHandler.MountRoutes)
		r.Route("/budgets", params.BudgetHandler.MountRoutes)
		r.Route("/onboarding", params.OnboardingHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
