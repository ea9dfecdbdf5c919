package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/jihowes/free-trial-snetinal-sub000/internal/emails"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/dates"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/metrics"
)

const (
	reminderJobName = "trial_reminders"
	// one reminder per trial per day at most
	notifyGuardWindow = 24 * time.Hour
)

var reminderThresholds = []int{1, 7}

// trialSource is the slice of the trial repository the job needs.
type trialSource interface {
	ListDueForReminder(ctx context.Context, targets []time.Time, notifiedBefore time.Time, limit int) ([]models.Trial, error)
	MarkNotified(ctx context.Context, trialID uuid.UUID, at time.Time) error
}

// userSource resolves trial owners to their email address.
type userSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// reminderSender delivers one countdown email.
type reminderSender interface {
	SendReminder(ctx context.Context, userID uuid.UUID, recipient string, data emails.ReminderData) (string, error)
}

// ReminderResult reports the outcome for one trial in a dispatch run.
type ReminderResult struct {
	TrialID       uuid.UUID `json:"trial_id"`
	ServiceName   string    `json:"service_name"`
	Recipient     string    `json:"recipient"`
	ThresholdDays int       `json:"threshold_days"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
}

// ReminderSummary aggregates one dispatch run.
type ReminderSummary struct {
	Message         string           `json:"message"`
	ProcessedTrials int              `json:"processed_trials"`
	EmailsSent      int              `json:"emails_sent"`
	Errors          int              `json:"errors"`
	Timestamp       time.Time        `json:"timestamp"`
	Results         []ReminderResult `json:"results"`
}

// ReminderJobParams bundle the reminder job dependencies.
type ReminderJobParams struct {
	Trials     trialSource
	Users      userSource
	Emails     reminderSender
	Logger     *logger.Logger
	Metrics    *metrics.CronJobMetrics
	BatchLimit int
	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

// ReminderJob emails owners of trials ending in 1 or 7 days. Failed sends
// leave last_notified untouched so the next daily run retries them.
type ReminderJob struct {
	trials     trialSource
	users      userSource
	emails     reminderSender
	logg       *logger.Logger
	metrics    *metrics.CronJobMetrics
	batchLimit int
	now        func() time.Time
}

// NewReminderJob wires the reminder job.
func NewReminderJob(params ReminderJobParams) (*ReminderJob, error) {
	if params.Trials == nil {
		return nil, fmt.Errorf("trial source required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user source required")
	}
	if params.Emails == nil {
		return nil, fmt.Errorf("email sender required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ReminderJob{
		trials:     params.Trials,
		users:      params.Users,
		emails:     params.Emails,
		logg:       params.Logger,
		metrics:    params.Metrics,
		batchLimit: params.BatchLimit,
		now:        clock,
	}, nil
}

// Name implements Job.
func (j *ReminderJob) Name() string {
	return reminderJobName
}

// Run implements Job.
func (j *ReminderJob) Run(ctx context.Context) error {
	_, err := j.Execute(ctx)
	return err
}

// Execute performs one dispatch cycle and returns its summary. The returned
// error aggregates per-trial failures; a single bad trial never aborts the
// rest of the batch.
func (j *ReminderJob) Execute(ctx context.Context) (ReminderSummary, error) {
	now := j.now()
	summary := ReminderSummary{Timestamp: now}

	targets := make([]time.Time, 0, len(reminderThresholds))
	for _, days := range reminderThresholds {
		targets = append(targets, dates.UTCEndOfDayAfter(now, days))
	}

	due, err := j.trials.ListDueForReminder(ctx, targets, now.Add(-notifyGuardWindow), j.batchLimit)
	if err != nil {
		summary.Message = "reminder scan failed"
		return summary, fmt.Errorf("list due trials: %w", err)
	}

	var runErr error
	for _, trial := range due {
		days := dates.DaysRemainingAt(trial.EndDate, now.UTC())
		matched := false
		for _, threshold := range reminderThresholds {
			if days == threshold {
				matched = true
				break
			}
		}
		if !matched {
			// the stored instant matched but the day distance no longer does
			continue
		}

		summary.ProcessedTrials++
		result := j.dispatch(ctx, trial, days, now)
		summary.Results = append(summary.Results, result)
		if result.Success {
			summary.EmailsSent++
		} else {
			summary.Errors++
			runErr = multierr.Append(runErr, fmt.Errorf("trial %s: %s", result.TrialID, result.Error))
		}
	}

	if j.metrics != nil && summary.EmailsSent > 0 {
		j.metrics.AddEmailsSent(reminderJobName, summary.EmailsSent)
	}

	summary.Message = fmt.Sprintf("processed %d trials, sent %d reminders, %d errors",
		summary.ProcessedTrials, summary.EmailsSent, summary.Errors)
	ctx = j.logg.WithFields(ctx, map[string]any{
		"processed": summary.ProcessedTrials,
		"sent":      summary.EmailsSent,
		"errors":    summary.Errors,
	})
	j.logg.Info(ctx, "reminder dispatch complete")
	return summary, runErr
}

func (j *ReminderJob) dispatch(ctx context.Context, trial models.Trial, thresholdDays int, now time.Time) ReminderResult {
	result := ReminderResult{
		TrialID:       trial.ID,
		ServiceName:   trial.ServiceName,
		ThresholdDays: thresholdDays,
	}

	owner, err := j.users.FindByID(ctx, trial.UserID)
	if err != nil {
		result.Error = fmt.Sprintf("resolve owner: %v", err)
		return result
	}
	result.Recipient = owner.Email

	data := emails.ReminderData{
		ServiceName:   trial.ServiceName,
		DaysRemaining: thresholdDays,
		EndDate:       trial.EndDate.UTC().Format("2 January 2006"),
	}
	if trial.Cost != nil {
		data.Cost = "$" + trial.Cost.StringFixed(2)
	}

	if _, err := j.emails.SendReminder(ctx, owner.ID, owner.Email, data); err != nil {
		result.Error = fmt.Sprintf("send reminder: %v", err)
		return result
	}

	if err := j.trials.MarkNotified(ctx, trial.ID, now); err != nil {
		// the email went out; log the stamp failure but count the send
		trialCtx := j.logg.WithTrialID(ctx, trial.ID.String())
		j.logg.Error(trialCtx, "mark notified failed", err)
	}

	result.Success = true
	return result
}
