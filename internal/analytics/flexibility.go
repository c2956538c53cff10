// Package analytics derives scheduling health from issue data: per-issue
// flexibility against a weekly working-hours template and an aggregate
// workload summary.
package analytics

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/vrognas/positron-redmine/internal/redmine"
)

// WeeklySchedule maps each weekday to the hours available for work that day.
// A day with 0 scheduled hours (a weekend, say) contributes nothing.
type WeeklySchedule map[time.Weekday]float64

// DefaultSchedule is 8 hours Monday through Friday.
func DefaultSchedule() WeeklySchedule {
	return WeeklySchedule{
		time.Monday:    8,
		time.Tuesday:   8,
		time.Wednesday: 8,
		time.Thursday:  8,
		time.Friday:    8,
	}
}

// AvailableHours sums the schedule's per-weekday hours for each calendar day
// in [from, to] inclusive. Hour-of-day components of from/to are ignored.
func AvailableHours(schedule WeeklySchedule, from, to time.Time) float64 {
	from = dateOnly(from)
	to = dateOnly(to)
	total := 0.0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		total += schedule[d.Weekday()]
	}
	return total
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FlexStatus classifies an issue's schedule slack.
type FlexStatus string

const (
	StatusOnTrack    FlexStatus = "on-track"
	StatusAtRisk     FlexStatus = "at-risk"
	StatusOverbooked FlexStatus = "overbooked"
	StatusCompleted  FlexStatus = "completed"
)

// Flexibility is the percentage slack of one issue: Initial at the issue's
// original start, Remaining as of the reference date.
type Flexibility struct {
	Initial   int
	Remaining int
	Status    FlexStatus
}

// Calculator memoizes flexibility results keyed by everything the computation
// reads: the issue's scheduling state, the schedule and the reference date. A
// re-fetched issue whose hours or dates moved computes fresh; Clear only bounds
// cache growth in long-running processes.
type Calculator struct {
	mu    sync.Mutex
	cache map[string]Flexibility
}

func NewCalculator() *Calculator {
	return &Calculator{cache: make(map[string]Flexibility)}
}

// Clear drops every memoized result.
func (c *Calculator) Clear() {
	c.mu.Lock()
	c.cache = make(map[string]Flexibility)
	c.mu.Unlock()
}

// Calculate returns the flexibility of issue under schedule as of today, or
// nil when the issue lacks a due date or a positive estimate.
func (c *Calculator) Calculate(issue redmine.Issue, schedule WeeklySchedule, today time.Time) *Flexibility {
	if issue.DueDate == nil || issue.EstimatedHours == nil || *issue.EstimatedHours <= 0 {
		return nil
	}
	key := cacheKey(issue, schedule, today)
	c.mu.Lock()
	if f, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return &f
	}
	c.mu.Unlock()

	f := calculate(issue, schedule, today)
	c.mu.Lock()
	c.cache[key] = f
	c.mu.Unlock()
	return &f
}

func calculate(issue redmine.Issue, schedule WeeklySchedule, today time.Time) Flexibility {
	estimate := *issue.EstimatedHours
	spent := 0.0
	if issue.SpentHours != nil {
		spent = *issue.SpentHours
	}
	start := today
	if issue.StartDate != nil {
		start = issue.StartDate.Time
	}
	due := issue.DueDate.Time

	initial := percentSlack(AvailableHours(schedule, start, due), estimate)

	// The per-issue remainder keeps its sign: overspent issues go negative
	// instead of clamping to zero like the workload aggregate does.
	remainingEstimate := estimate - spent
	remaining := 0
	if remainingEstimate > 0 {
		remaining = percentSlack(AvailableHours(schedule, today, due), remainingEstimate)
	}

	f := Flexibility{Initial: initial, Remaining: remaining}
	switch {
	case issue.DoneRatio >= 100:
		f.Status = StatusCompleted
	case remainingEstimate <= 0:
		// Nothing left to schedule.
		f.Status = StatusOnTrack
	case remaining < 0:
		f.Status = StatusOverbooked
	case remaining < 20:
		f.Status = StatusAtRisk
	default:
		f.Status = StatusOnTrack
	}
	return f
}

// percentSlack is the rounded percentage by which available exceeds needed.
func percentSlack(available, needed float64) int {
	return int(math.Round((available/needed - 1) * 100))
}

// cacheKey covers every input calculate reads: a re-fetched issue with new
// spent hours, dates or done ratio must miss the cache. Estimate and due date
// are non-nil here; Calculate filters those out first.
func cacheKey(issue redmine.Issue, schedule WeeklySchedule, today time.Time) string {
	spent := 0.0
	if issue.SpentHours != nil {
		spent = *issue.SpentHours
	}
	start := ""
	if issue.StartDate != nil {
		start = issue.StartDate.String()
	}
	return fmt.Sprintf("%d|%g|%g|%s|%s|%d|%s|%v",
		issue.ID, *issue.EstimatedHours, spent, start, issue.DueDate.String(),
		issue.DoneRatio, dateOnly(today).Format("2006-01-02"), fingerprint(schedule))
}

func fingerprint(schedule WeeklySchedule) [7]float64 {
	var fp [7]float64
	for wd, h := range schedule {
		fp[int(wd)] = h
	}
	return fp
}
