package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrognas/positron-redmine/internal/redmine"
)

func fp(v float64) *float64 { return &v }

func dp(year int, month time.Month, day int) *redmine.Date {
	d := redmine.NewDate(year, month, day)
	return &d
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestAvailableHours(t *testing.T) {
	sched := DefaultSchedule()

	t.Run("full working week", func(t *testing.T) {
		// Mon 2025-11-03 through Fri 2025-11-07.
		assert.Equal(t, 40.0, AvailableHours(sched, day(2025, time.November, 3), day(2025, time.November, 7)))
	})

	t.Run("weekend contributes nothing", func(t *testing.T) {
		assert.Equal(t, 0.0, AvailableHours(sched, day(2025, time.November, 8), day(2025, time.November, 9)))
	})

	t.Run("single day inclusive", func(t *testing.T) {
		assert.Equal(t, 8.0, AvailableHours(sched, day(2025, time.November, 3), day(2025, time.November, 3)))
	})

	t.Run("spans weekend", func(t *testing.T) {
		// Fri through Mon: two working days.
		assert.Equal(t, 16.0, AvailableHours(sched, day(2025, time.November, 7), day(2025, time.November, 10)))
	})

	t.Run("hour-of-day ignored", func(t *testing.T) {
		from := time.Date(2025, time.November, 3, 23, 50, 0, 0, time.UTC)
		to := time.Date(2025, time.November, 3, 0, 10, 0, 0, time.UTC)
		assert.Equal(t, 8.0, AvailableHours(sched, from, to))
	})

	t.Run("custom schedule", func(t *testing.T) {
		partTime := WeeklySchedule{time.Monday: 4, time.Wednesday: 4}
		assert.Equal(t, 8.0, AvailableHours(partTime, day(2025, time.November, 3), day(2025, time.November, 7)))
	})
}

func TestCalculate(t *testing.T) {
	sched := DefaultSchedule()
	today := day(2025, time.November, 3) // Monday

	t.Run("comfortable slack is on-track", func(t *testing.T) {
		// 10 working days (80h) against a 40h estimate.
		issue := redmine.Issue{
			ID:             1,
			StartDate:      dp(2025, time.November, 3),
			DueDate:        dp(2025, time.November, 14),
			EstimatedHours: fp(40),
		}
		f := NewCalculator().Calculate(issue, sched, today)
		require.NotNil(t, f)
		assert.Equal(t, 100, f.Initial)
		assert.Equal(t, 100, f.Remaining)
		assert.Equal(t, StatusOnTrack, f.Status)
	})

	t.Run("negative slack is overbooked", func(t *testing.T) {
		// Thu+Fri give 16h; 30h still needed.
		issue := redmine.Issue{
			ID:             2,
			StartDate:      dp(2025, time.November, 3),
			DueDate:        dp(2025, time.November, 14),
			EstimatedHours: fp(30),
		}
		f := NewCalculator().Calculate(issue, sched, day(2025, time.November, 13))
		require.NotNil(t, f)
		assert.Equal(t, -47, f.Remaining)
		assert.Equal(t, StatusOverbooked, f.Status)
	})

	t.Run("thin slack is at-risk", func(t *testing.T) {
		// 40h available against 35h remaining: 14% slack.
		issue := redmine.Issue{
			ID:             3,
			StartDate:      dp(2025, time.November, 3),
			DueDate:        dp(2025, time.November, 7),
			EstimatedHours: fp(40),
			SpentHours:     fp(5),
		}
		f := NewCalculator().Calculate(issue, sched, today)
		require.NotNil(t, f)
		assert.Equal(t, 14, f.Remaining)
		assert.Equal(t, StatusAtRisk, f.Status)
	})

	t.Run("done ratio 100 is completed", func(t *testing.T) {
		issue := redmine.Issue{
			ID:             4,
			DueDate:        dp(2025, time.November, 14),
			EstimatedHours: fp(40),
			SpentHours:     fp(40),
			DoneRatio:      100,
		}
		f := NewCalculator().Calculate(issue, sched, today)
		require.NotNil(t, f)
		assert.Equal(t, StatusCompleted, f.Status)
	})

	t.Run("overspent but open is on-track with zero remaining", func(t *testing.T) {
		issue := redmine.Issue{
			ID:             5,
			DueDate:        dp(2025, time.November, 14),
			EstimatedHours: fp(10),
			SpentHours:     fp(12),
			DoneRatio:      80,
		}
		f := NewCalculator().Calculate(issue, sched, today)
		require.NotNil(t, f)
		assert.Equal(t, 0, f.Remaining)
		assert.Equal(t, StatusOnTrack, f.Status)
	})

	t.Run("missing start date falls back to today", func(t *testing.T) {
		issue := redmine.Issue{
			ID:             6,
			DueDate:        dp(2025, time.November, 7),
			EstimatedHours: fp(20),
		}
		f := NewCalculator().Calculate(issue, sched, today)
		require.NotNil(t, f)
		assert.Equal(t, f.Initial, f.Remaining)
	})

	t.Run("nil without due date", func(t *testing.T) {
		issue := redmine.Issue{ID: 7, EstimatedHours: fp(40)}
		assert.Nil(t, NewCalculator().Calculate(issue, sched, today))
	})

	t.Run("nil without estimate", func(t *testing.T) {
		issue := redmine.Issue{ID: 8, DueDate: dp(2025, time.November, 14)}
		assert.Nil(t, NewCalculator().Calculate(issue, sched, today))
	})

	t.Run("nil on zero estimate", func(t *testing.T) {
		issue := redmine.Issue{ID: 9, DueDate: dp(2025, time.November, 14), EstimatedHours: fp(0)}
		assert.Nil(t, NewCalculator().Calculate(issue, sched, today))
	})
}

func TestCalculator_Memoization(t *testing.T) {
	sched := DefaultSchedule()
	today := day(2025, time.November, 3)
	issue := redmine.Issue{
		ID:             1,
		StartDate:      dp(2025, time.November, 3),
		DueDate:        dp(2025, time.November, 14),
		EstimatedHours: fp(40),
	}

	calc := NewCalculator()
	first := calc.Calculate(issue, sched, today)
	second := calc.Calculate(issue, sched, today)
	require.NotNil(t, first)
	assert.Equal(t, *first, *second)
	assert.Len(t, calc.cache, 1)

	// A different reference date is a distinct entry.
	calc.Calculate(issue, sched, day(2025, time.November, 4))
	assert.Len(t, calc.cache, 2)

	// So is a different schedule.
	calc.Calculate(issue, WeeklySchedule{time.Monday: 4}, today)
	assert.Len(t, calc.cache, 3)

	calc.Clear()
	assert.Empty(t, calc.cache)

	again := calc.Calculate(issue, sched, today)
	require.NotNil(t, again)
	assert.Equal(t, *first, *again)
}

func TestCalculator_RecomputesWhenIssueChanges(t *testing.T) {
	sched := DefaultSchedule()
	today := day(2025, time.November, 3)
	issue := redmine.Issue{
		ID:             1,
		StartDate:      dp(2025, time.November, 3),
		DueDate:        dp(2025, time.November, 14),
		EstimatedHours: fp(40),
	}

	calc := NewCalculator()
	before := calc.Calculate(issue, sched, today)
	require.NotNil(t, before)
	assert.Equal(t, 100, before.Remaining)

	// Same issue re-fetched after time was logged: 5h left against 80h.
	issue.SpentHours = fp(35)
	after := calc.Calculate(issue, sched, today)
	require.NotNil(t, after)
	assert.Equal(t, 1500, after.Remaining)

	// A moved due date misses the cache too.
	issue.DueDate = dp(2025, time.November, 7)
	moved := calc.Calculate(issue, sched, today)
	require.NotNil(t, moved)
	assert.Equal(t, 700, moved.Remaining)

	// Progress marking alone changes the status.
	issue.DoneRatio = 100
	done := calc.Calculate(issue, sched, today)
	require.NotNil(t, done)
	assert.Equal(t, StatusCompleted, done.Status)
}
