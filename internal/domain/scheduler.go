package domain

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Scheduler dispatches posts whose launch window has arrived. Scheduled
// dispatches use the same adapter registry as immediate ones; outcomes per
// platform stay independent.
type Scheduler struct {
	repo     ScheduleRepository
	registry *Registry
	session  func() *Session
	notifier Notifier
	logger   *slog.Logger
}

// NewScheduler creates a scheduler. session is consulted at dispatch time so
// a credential established after arming still applies; it may return nil,
// in which case live-platform posts resolve as precondition failures.
func NewScheduler(repo ScheduleRepository, registry *Registry, session func() *Session, notifier Notifier, logger *slog.Logger) *Scheduler {
	return &Scheduler{repo: repo, registry: registry, session: session, notifier: notifier, logger: logger}
}

// Start runs the dispatch loop. It checks immediately on start and then
// repeats at the given interval, blocking until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	s.runDue(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

func (s *Scheduler) runDue(ctx context.Context) {
	due, err := s.repo.DueScheduledPosts(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("query due scheduled posts failed", "error", err)
		return
	}

	for _, post := range due {
		s.dispatch(ctx, post)
	}
}

func (s *Scheduler) dispatch(ctx context.Context, post ScheduledPost) {
	v := Variant{Text: post.Text, MediaRef: post.MediaRef}
	var session *Session
	if s.session != nil {
		session = s.session()
	}

	var failures []string
	for _, id := range post.Platforms {
		out := s.registry.Dispatch(ctx, id, v, session)
		if s.notifier != nil {
			s.notifier.Notify(Event{
				Type:     "scheduled_publish",
				Platform: id,
				Success:  out.Success,
				Detail:   outcomeDetail(out),
				At:       time.Now().UTC(),
			})
		}
		if !out.Success {
			failures = append(failures, string(id)+": "+out.Err.Message)
		}
	}

	status := ScheduledSent
	errMsg := ""
	if len(failures) > 0 {
		status = ScheduledFailed
		errMsg = strings.Join(failures, "; ")
	}
	if err := s.repo.ResolveScheduledPost(ctx, post.ID, status, errMsg); err != nil {
		s.logger.Error("resolve scheduled post failed", "id", post.ID, "error", err)
		return
	}
	s.logger.Info("scheduled post dispatched", "id", post.ID, "status", status, "platforms", len(post.Platforms))
}
