package analytics

import (
	"sort"
	"time"

	"github.com/vrognas/positron-redmine/internal/redmine"
)

// topUrgentLimit caps the ranked urgency list.
const topUrgentLimit = 3

// WorkloadSummary aggregates estimated/spent/remaining hours across a set of
// issues against the hours available in the current calendar week.
type WorkloadSummary struct {
	TotalEstimated    float64
	TotalSpent        float64
	Remaining         float64
	AvailableThisWeek float64
	Buffer            float64
	// TopUrgent holds up to 3 open, due-dated issues ascending by due date.
	TopUrgent []redmine.Issue
}

// CalculateWorkload summarizes issues under schedule as of today. A zero today
// means the current date. Issues without an estimate are excluded from the
// hour sums but still considered for urgency ranking.
func CalculateWorkload(issues []redmine.Issue, schedule WeeklySchedule, today time.Time) WorkloadSummary {
	if today.IsZero() {
		today = time.Now()
	}

	var s WorkloadSummary
	for _, issue := range issues {
		if issue.EstimatedHours == nil {
			continue
		}
		estimate := *issue.EstimatedHours
		spent := 0.0
		if issue.SpentHours != nil {
			spent = *issue.SpentHours
		}
		s.TotalEstimated += estimate
		s.TotalSpent += spent
		// Overspent issues contribute no negative work, unlike the signed
		// per-issue flexibility remainder.
		if left := estimate - spent; left > 0 {
			s.Remaining += left
		}
	}

	s.AvailableThisWeek = AvailableHours(schedule, today, endOfWeek(today))
	s.Buffer = s.AvailableThisWeek - s.Remaining
	s.TopUrgent = topUrgent(issues)
	return s
}

// endOfWeek is the Sunday closing the calendar week containing t.
func endOfWeek(t time.Time) time.Time {
	d := dateOnly(t)
	for d.Weekday() != time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// topUrgent ranks open issues that carry a due date, ascending by due date,
// ties broken by input order. Closed and due-date-less issues are excluded,
// never substituted.
func topUrgent(issues []redmine.Issue) []redmine.Issue {
	candidates := make([]redmine.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.DoneRatio < 100 && issue.DueDate != nil {
			candidates = append(candidates, issue)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DueDate.Before(candidates[j].DueDate.Time)
	})
	if len(candidates) > topUrgentLimit {
		candidates = candidates[:topUrgentLimit]
	}
	return candidates
}
