package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/admin/tg-bots/stars-bot/internal/ports/jobs"
	"github.com/admin/tg-bots/stars-bot/internal/ports/service"
)

// DefaultRetryDelays now + 1m + 10m + 30m
var DefaultRetryDelays = []time.Duration{
	1 * time.Minute,
	10 * time.Minute,
	30 * time.Minute,
}

// Scheduler управляет запуском периодических джоб
type Scheduler struct {
	jobs           []jobs.Job
	retryDelays    []time.Duration
	alerterService service.IAlerterService
	log            *slog.Logger
}

// NewScheduler создаёт новый планировщик джоб
func NewScheduler(log *slog.Logger, alerterService service.IAlerterService) *Scheduler {
	return &Scheduler{
		jobs:           make([]jobs.Job, 0),
		retryDelays:    DefaultRetryDelays,
		alerterService: alerterService,
		log:            log,
	}
}

// WithRetryDelays задержки между повторами упавшей джобы
func (s *Scheduler) WithRetryDelays(delays []time.Duration) *Scheduler {
	s.retryDelays = delays
	return s
}

// Register регистрирует джобу в планировщике
func (s *Scheduler) Register(job jobs.Job) {
	s.jobs = append(s.jobs, job)
	s.log.Debug("job registered", "job_name", job.Name(), "total_jobs", len(s.jobs))
}

// Start запускает все зарегистрированные джобы и блокирует до отмены ctx
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.jobs) == 0 {
		s.log.Warn("no jobs registered, scheduler not started")
		return nil
	}

	s.log.Info("starting job scheduler", "jobs_count", len(s.jobs))

	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func(job jobs.Job) {
			defer wg.Done()
			s.runJob(ctx, job)
		}(job)
	}

	wg.Wait()
	s.log.Info("job scheduler stopped")
	return nil
}

// runJob запускает отдельную джобу в цикле
func (s *Scheduler) runJob(ctx context.Context, job jobs.Job) {
	jobName := job.Name()

	for {
		now := time.Now()
		duration := job.NextRun(now).Sub(now)

		timer := time.NewTimer(duration)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("job stopped by context", "job_name", jobName)
			return
		case <-timer.C:
			attemptErrors, err := s.executeJobWithRetry(ctx, job)
			if err != nil {
				s.log.Error("job failed after all retries",
					"job_name", jobName,
					"error", err,
					"attempts", len(attemptErrors),
				)
				s.sendAlert(ctx, jobName, attemptErrors)
			} else {
				s.log.Info("job executed successfully", "job_name", jobName)
			}
		}
	}
}

// jobAttemptError представляет ошибку конкретной попытки выполнения джобы
type jobAttemptError struct {
	attempt int
	err     error
}

// executeJobWithRetry выполняет джобу с retry при ошибках.
// Возвращает ошибки всех попыток и финальную ошибку.
func (s *Scheduler) executeJobWithRetry(ctx context.Context, job jobs.Job) ([]jobAttemptError, error) {
	jobName := job.Name()
	var attemptErrors []jobAttemptError

	err := job.Run(ctx)
	if err == nil {
		return nil, nil
	}
	attemptErrors = append(attemptErrors, jobAttemptError{attempt: 1, err: err})
	s.log.Warn("job execution failed, will retry",
		"job_name", jobName,
		"attempt", 1,
		"retries_remaining", len(s.retryDelays),
		"error", err,
	)

	for i, retryDelay := range s.retryDelays {
		attemptNum := i + 2
		timer := time.NewTimer(retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return attemptErrors, ctx.Err()
		case <-timer.C:
		}

		err := job.Run(ctx)
		if err == nil {
			return nil, nil
		}
		attemptErrors = append(attemptErrors, jobAttemptError{attempt: attemptNum, err: err})
		s.log.Warn("job retry failed",
			"job_name", jobName,
			"attempt", attemptNum,
			"retries_remaining", len(s.retryDelays)-i-1,
			"error", err,
		)
	}

	return attemptErrors, fmt.Errorf("all retry attempts failed (total attempts: %d)", 1+len(s.retryDelays))
}

// sendAlert алертит на финальную ошибку после ретраев
func (s *Scheduler) sendAlert(ctx context.Context, jobName string, attemptErrors []jobAttemptError) {
	if s.alerterService == nil || ctx.Err() != nil {
		return
	}

	var errorLines []string
	for _, attemptErr := range attemptErrors {
		errorLines = append(errorLines, fmt.Sprintf("Попытка %d: %s", attemptErr.attempt, attemptErr.err.Error()))
	}

	var message strings.Builder
	message.WriteString("⚠️ Финальная ошибка планировщика, ретраи исчерпаны\n\n")
	message.WriteString(fmt.Sprintf("Джоба: %s\n\n", jobName))
	message.WriteString("Ошибки попыток:\n")
	message.WriteString(strings.Join(errorLines, "\n"))

	if alertErr := s.alerterService.SendAlert(ctx, message.String()); alertErr != nil {
		s.log.Warn("failed to send job failure alert",
			"job_name", jobName,
			"error", alertErr,
		)
	}
}
