/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vrognas/positron-redmine/internal/analytics"
	"github.com/vrognas/positron-redmine/internal/config"
	"github.com/vrognas/positron-redmine/internal/redmine"
)

// RedmineClient is the slice of the client the service consumes.
type RedmineClient interface {
	IssuesAssignedToMe(ctx context.Context) (*redmine.IssuePage, error)
	IssueByID(ctx context.Context, id int) (*redmine.Issue, error)
	Projects(ctx context.Context) ([]redmine.Project, error)
}

// Service wires the Redmine client to the analytics engine for the CLI, HTTP
// and cron surfaces.
type Service struct {
	cfg  config.Config
	log  zerolog.Logger
	rm   RedmineClient
	calc *analytics.Calculator
}

func New(cfg config.Config, log zerolog.Logger, rm RedmineClient) *Service {
	return &Service{cfg: cfg, log: log, rm: rm, calc: analytics.NewCalculator()}
}

// AssignedIssues returns the caller's open issues.
func (s *Service) AssignedIssues(ctx context.Context) ([]redmine.Issue, error) {
	page, err := s.rm.IssuesAssignedToMe(ctx)
	if err != nil {
		return nil, err
	}
	return page.Issues, nil
}

// Projects returns every visible project.
func (s *Service) Projects(ctx context.Context) ([]redmine.Project, error) {
	return s.rm.Projects(ctx)
}

// Workload summarizes the caller's assigned issues as of today. A zero today
// means the current date.
func (s *Service) Workload(ctx context.Context, today time.Time) (analytics.WorkloadSummary, error) {
	issues, err := s.AssignedIssues(ctx)
	if err != nil {
		return analytics.WorkloadSummary{}, err
	}
	return analytics.CalculateWorkload(issues, s.cfg.Schedule, today), nil
}

// IssueFlexibility fetches one issue and computes its schedule slack. A nil
// result means the issue lacks the data to compute it.
func (s *Service) IssueFlexibility(ctx context.Context, issueID int, today time.Time) (*analytics.Flexibility, error) {
	if today.IsZero() {
		today = time.Now()
	}
	issue, err := s.rm.IssueByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	return s.calc.Calculate(*issue, s.cfg.Schedule, today), nil
}

// ClearFlexibilityCache drops memoized flexibility results; long-running
// surfaces call this when the day rolls over.
func (s *Service) ClearFlexibilityCache() { s.calc.Clear() }

// RunWorkloadDigest computes the workload summary and logs it. Invoked by the
// cron scheduler and the admin endpoint.
func (s *Service) RunWorkloadDigest(ctx context.Context) error {
	summary, err := s.Workload(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("digest: workload failed")
		return err
	}
	ev := s.log.Info().
		Float64("estimated", summary.TotalEstimated).
		Float64("spent", summary.TotalSpent).
		Float64("remaining", summary.Remaining).
		Float64("available_this_week", summary.AvailableThisWeek).
		Float64("buffer", summary.Buffer)
	urgent := make([]string, 0, len(summary.TopUrgent))
	for _, issue := range summary.TopUrgent {
		urgent = append(urgent, issue.Subject)
	}
	ev.Strs("top_urgent", urgent).Msg("digest: workload")
	return nil
}
