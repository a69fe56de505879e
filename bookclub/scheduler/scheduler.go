// Package scheduler drives the bot's day cycle: the evening check-in, two
// reminders, the midnight close, the nightly report and the Sunday digest,
// all pinned to the configured timezone.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/okubot/bookclub/bookclub/clock"
)

// Job is one scheduled task. Next computes the first firing strictly after
// the given instant; Run receives the instant the job fired at.
type Job struct {
	Name string
	Next func(after time.Time) time.Time
	Run  func(ctx context.Context, fired time.Time) error
}

// Scheduler fires jobs at wall-clock instants. It sleeps until the nearest
// due job rather than polling, so clock timezone changes only need a
// restart, not special handling.
type Scheduler struct {
	clock clock.Clock
	jobs  []Job
}

func New(clk clock.Clock) *Scheduler {
	return &Scheduler{clock: clk}
}

func (s *Scheduler) Add(job Job) {
	s.jobs = append(s.jobs, job)
}

// Start runs the firing loop until ctx is done. Job failures are logged
// and never stop the loop.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	if len(s.jobs) == 0 {
		return
	}

	next := make([]time.Time, len(s.jobs))
	now := s.clock.Now()
	for i, job := range s.jobs {
		next[i] = job.Next(now)
		slog.Info("Job scheduled",
			slog.String("type", "sched"),
			slog.String("job", job.Name),
			slog.Time("at", next[i]))
	}

	for {
		idx := 0
		for i := range next {
			if next[i].Before(next[idx]) {
				idx = i
			}
		}

		timer := time.NewTimer(time.Until(next[idx]))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		job := s.jobs[idx]
		fired := next[idx]
		start := time.Now()
		if err := job.Run(ctx, fired); err != nil {
			slog.Error("Job failed",
				slog.String("type", "sched"),
				slog.String("job", job.Name),
				slog.Duration("took", time.Since(start)),
				slog.Any("error", err))
		} else {
			slog.Info("Job completed",
				slog.String("type", "sched"),
				slog.String("job", job.Name),
				slog.Duration("took", time.Since(start)))
		}

		next[idx] = job.Next(fired)
	}
}

// DailyAt builds a Next function firing every day at hour:minute in the
// clock's zone.
func DailyAt(clk clock.Clock, hour, minute int) func(time.Time) time.Time {
	return func(after time.Time) time.Time {
		after = after.In(clk.Now().Location())
		candidate := time.Date(after.Year(), after.Month(), after.Day(), hour, minute, 0, 0, after.Location())
		if !candidate.After(after) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate
	}
}

// WeeklyAt builds a Next function firing once a week on the given weekday.
func WeeklyAt(clk clock.Clock, day time.Weekday, hour, minute int) func(time.Time) time.Time {
	return func(after time.Time) time.Time {
		after = after.In(clk.Now().Location())
		candidate := time.Date(after.Year(), after.Month(), after.Day(), hour, minute, 0, 0, after.Location())
		for candidate.Weekday() != day || !candidate.After(after) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate
	}
}
