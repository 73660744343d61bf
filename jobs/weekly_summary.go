package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/dashboard"
	jobmetrics "github.com/gigledger/gigledger/internal/jobs"
	"github.com/gigledger/gigledger/internal/mail"
	"github.com/gigledger/gigledger/internal/period"
)

// WeeklySummaryJob mails every user their past-week KPIs. Scheduled by
// cron each Monday morning.
type WeeklySummaryJob struct {
	Dashboard *dashboard.Service
	Pool      *pgxpool.Pool
	Enqueuer  MailEnqueuer
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// MailEnqueuer submits mail tasks back onto the queue so delivery gets
// its own retries.
type MailEnqueuer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// NewWeeklySummaryJob wires dependencies for the digest handler.
func NewWeeklySummaryJob(dashboardSvc *dashboard.Service, pool *pgxpool.Pool, enqueuer MailEnqueuer, logger *slog.Logger, metrics *jobmetrics.Metrics) *WeeklySummaryJob {
	return &WeeklySummaryJob{
		Dashboard: dashboardSvc,
		Pool:      pool,
		Enqueuer:  enqueuer,
		Logger:    logger,
		Metrics:   metrics,
	}
}

type summaryRecipient struct {
	ID    int64
	Email string
	Name  string
}

// Handle processes TaskTypeWeeklySummary tasks.
func (j *WeeklySummaryJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil || j.Enqueuer == nil {
		return errors.New("weekly summary: handler not configured")
	}

	tracker := j.metrics().Track(TaskTypeWeeklySummary)
	var resultErr error
	defer func() { resultErr = tracker.End(resultErr) }()

	recipients, err := j.fetchRecipients(ctx)
	if err != nil {
		resultErr = err
		j.logger().Error("load recipients", slog.Any("error", err))
		return resultErr
	}

	sent := 0
	for _, recipient := range recipients {
		userCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		result, err := j.Dashboard.GetDashboard(userCtx, recipient.ID, dashboard.Filters{Period: period.ThisWeek})
		cancel()
		if err != nil {
			resultErr = err
			j.logger().Error("compute weekly KPIs", slog.Int64("user_id", recipient.ID), slog.Any("error", err))
			return resultErr
		}
		msg := mail.WeeklySummaryMessage(recipient.Email, mail.WeeklySummaryData{
			Name:          recipient.Name,
			TotalRevenue:  result.KPIs.TotalRevenue,
			TotalExpenses: result.KPIs.TotalExpenses,
			NetProfit:     result.KPIs.NetProfit,
			TotalKm:       result.KPIs.TotalKm,
			TotalHours:    result.KPIs.TotalHours,
		})
		if _, err := j.Enqueuer.EnqueueSendEmail(ctx, SendEmailPayload{
			To: msg.To, Subject: msg.Subject, Body: msg.Body, Kind: "weekly_summary",
		}); err != nil {
			resultErr = err
			j.logger().Error("enqueue digest", slog.Int64("user_id", recipient.ID), slog.Any("error", err))
			return resultErr
		}
		sent++
	}

	j.logger().Info("completed weekly summary", slog.Int("digests", sent))
	return resultErr
}

func (j *WeeklySummaryJob) fetchRecipients(ctx context.Context) ([]summaryRecipient, error) {
	if j.Pool == nil {
		return nil, errors.New("weekly summary: pool not configured")
	}
	rows, err := j.Pool.Query(ctx,
		"SELECT id, email, COALESCE(name, '') FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := make([]summaryRecipient, 0)
	for rows.Next() {
		var r summaryRecipient
		if err := rows.Scan(&r.ID, &r.Email, &r.Name); err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}

func (j *WeeklySummaryJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeWeeklySummary))
	}
	return slog.Default().With(slog.String("job", TaskTypeWeeklySummary))
}

func (j *WeeklySummaryJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}
