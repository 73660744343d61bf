package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/dashboard"
	jobmetrics "github.com/gigledger/gigledger/internal/jobs"
	"github.com/gigledger/gigledger/internal/period"
)

const defaultWarmupWindowDays = 7

// DashboardWarmupJob pre-populates the current-month dashboard for
// users who recorded anything recently, so their first request after
// the cache TTL lapses is still a hit.
type DashboardWarmupJob struct {
	Dashboard *dashboard.Service
	Pool      *pgxpool.Pool
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(dashboardSvc *dashboard.Service, pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Dashboard: dashboardSvc,
		Pool:      pool,
		Logger:    logger,
		Metrics:   metrics,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes TaskTypeDashboardWarmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.ActiveWithinDays <= 0 {
		payload.ActiveWithinDays = defaultWarmupWindowDays
	}

	tracker := j.metrics().Track(TaskTypeDashboardWarmup)
	var resultErr error
	defer func() { resultErr = tracker.End(resultErr) }()

	logger := j.logger().With(slog.Int("active_within_days", payload.ActiveWithinDays))
	logger.Info("starting dashboard warmup")

	userIDs, err := j.activeUsers(ctx, payload.ActiveWithinDays)
	if err != nil {
		resultErr = err
		logger.Error("load active users", slog.Any("error", err))
		return resultErr
	}
	if len(userIDs) == 0 {
		logger.Info("no active users to warm")
		return resultErr
	}

	start := j.now()
	warmed := 0
	for _, userID := range userIDs {
		userCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		_, err := j.Dashboard.GetDashboard(userCtx, userID, dashboard.Filters{Period: period.ThisMonth})
		cancel()
		if err != nil {
			resultErr = err
			logger.Error("warm user", slog.Int64("user_id", userID), slog.Any("error", err))
			return resultErr
		}
		warmed++
	}

	logger.Info("completed dashboard warmup",
		slog.Int("users", warmed), slog.Duration("duration", time.Since(start)))
	return resultErr
}

// activeUsers returns owners of any ledger record written inside the
// window, discovered through the ownership relations.
func (j *DashboardWarmupJob) activeUsers(ctx context.Context, withinDays int) ([]int64, error) {
	if j.Pool == nil {
		return nil, errors.New("dashboard warmup: pool not configured")
	}
	since := j.now().AddDate(0, 0, -withinDays)
	const query = `
		SELECT DISTINCT u.id
		FROM users u
		WHERE EXISTS (
			SELECT 1 FROM drivers d
			JOIN revenues r ON r.driver_id = d.id
			WHERE d.user_id = u.id AND r.created_at >= $1)
		OR EXISTS (
			SELECT 1 FROM drivers d
			JOIN expenses e ON e.driver_id = d.id
			WHERE d.user_id = u.id AND e.created_at >= $1)
		OR EXISTS (
			SELECT 1 FROM drivers d
			JOIN work_logs w ON w.driver_id = d.id
			WHERE d.user_id = u.id AND w.created_at >= $1)
		ORDER BY u.id`

	rows, err := j.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskTypeDashboardWarmup))
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *DashboardWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
