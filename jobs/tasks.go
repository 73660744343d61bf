package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail delivers one transactional email.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeDashboardWarmup pre-computes dashboards for active users.
	TaskTypeDashboardWarmup = "dashboard:warmup"
	// TaskTypeWeeklySummary mails each user their weekly KPI digest.
	TaskTypeWeeklySummary = "summary:weekly"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Kind    string `json:"kind"`
}

// NewSendEmailTask constructs a mail delivery task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// DashboardWarmupPayload narrows the warmup to users active within the
// given number of days. Zero means the default window.
type DashboardWarmupPayload struct {
	ActiveWithinDays int `json:"activeWithinDays"`
}

// NewDashboardWarmupTask constructs a warmup task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDashboardWarmup, data), nil
}

// NewWeeklySummaryTask constructs the weekly digest task.
func NewWeeklySummaryTask() *asynq.Task {
	return asynq.NewTask(TaskTypeWeeklySummary, nil)
}
