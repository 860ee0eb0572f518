package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleksi/flextime-engine/engine"
)

// issuesOf filters a report down to one issue label.
func issuesOf(report engine.ValidationReport, category string) []engine.Issue {
	var out []engine.Issue
	for _, issue := range report.Issues {
		if issue.Category == category {
			out = append(out, issue)
		}
	}
	return out
}

func TestValidate_CleanDataHasNoIssues(t *testing.T) {
	eng := newEngine(t, testSettings(), "",
		closed("jobb", monday, 7.5),
		closed("jobb", tuesday, 8),
	)

	report, err := eng.Validate(at(2025, time.June, 11, 9, 0))
	require.NoError(t, err)

	assert.Empty(t, report.Issues)
	assert.Equal(t, 2, report.EntriesChecked)
	assert.Zero(t, report.EntriesWithIssues)
}

func TestValidate_MissingNameAndStartTime(t *testing.T) {
	// GIVEN: One entry with no name, one with no start time
	// WHEN: Validating
	// THEN: Both are errors; the no-start entry never reaches duration checks

	end := monday.Add(8 * time.Hour)
	eng := newEngine(t, testSettings(), "",
		engine.RawEntry{Name: "", StartTime: monday, EndTime: &end},
		engine.RawEntry{Name: "jobb"},
	)

	report, err := eng.Validate(at(2025, time.June, 11, 9, 0))
	require.NoError(t, err)

	assert.Len(t, issuesOf(report, engine.IssueMissingName), 1)
	assert.Len(t, issuesOf(report, engine.IssueMissingStartTime), 1)
	assert.Equal(t, 2, report.CountBySeverity(engine.SeverityError))
}

func TestValidate_DurationTiers(t *testing.T) {
	// GIVEN: Entries at every duration tier: negative, over-max, very long,
	//        zero, and a normal one
	// WHEN: Validating
	// THEN: Each lands in its tier, mutually exclusive per entry

	negEnd := monday.Add(-1 * time.Hour)
	eng := newEngine(t, testSettings(), "",
		engine.RawEntry{Name: "jobb", StartTime: monday, EndTime: &negEnd}, // negative
		closed("jobb", tuesday, 30),                                       // > 24h max
		closed("jobb", at(2025, time.June, 11, 0, 0), 17),                 // > 16h long session
		closed("jobb", at(2025, time.June, 12, 8, 0), 0),                  // zero
		closed("jobb", at(2025, time.June, 13, 8, 0), 7.5),                // clean
	)

	report, err := eng.Validate(at(2025, time.June, 16, 9, 0))
	require.NoError(t, err)

	neg := issuesOf(report, engine.IssueNegativeDuration)
	require.Len(t, neg, 1)
	assert.Equal(t, engine.SeverityError, neg[0].Severity)

	excess := issuesOf(report, engine.IssueExcessiveDuration)
	require.Len(t, excess, 1)
	assert.Equal(t, engine.SeverityError, excess[0].Severity)

	long := issuesOf(report, engine.IssueVeryLongSession)
	require.Len(t, long, 1)
	assert.Equal(t, engine.SeverityWarning, long[0].Severity)

	zero := issuesOf(report, engine.IssueZeroDuration)
	require.Len(t, zero, 1)
	assert.Equal(t, engine.SeverityInfo, zero[0].Severity)

	assert.Equal(t, 4, report.EntriesWithIssues)
}

func TestValidate_FutureDatedEntry(t *testing.T) {
	eng := newEngine(t, testSettings(), "",
		closed("jobb", at(2025, time.June, 20, 8, 0), 7.5),
	)

	report, err := eng.Validate(at(2025, time.June, 9, 9, 0))
	require.NoError(t, err)

	future := issuesOf(report, engine.IssueFutureDate)
	require.Len(t, future, 1)
	assert.Equal(t, engine.SeverityInfo, future[0].Severity)
	assert.Equal(t, engine.NewDay(2025, time.June, 20), future[0].Date)
}

func TestValidate_LongRunningTimer(t *testing.T) {
	// GIVEN: A timer started 13 hours before "now" (threshold 12)
	// WHEN: Validating
	// THEN: One warning, carrying the elapsed hours

	eng := newEngine(t, testSettings(), "",
		open("jobb", at(2025, time.June, 9, 1, 0)),
	)

	report, err := eng.Validate(at(2025, time.June, 9, 14, 0))
	require.NoError(t, err)

	warnings := issuesOf(report, engine.IssueLongRunningTimer)
	require.Len(t, warnings, 1)
	assert.Equal(t, engine.SeverityWarning, warnings[0].Severity)
	assert.InDelta(t, 13.0, warnings[0].Entry.Duration, 0.01)
}

func TestValidate_FreshTimerDoesNotWarn(t *testing.T) {
	eng := newEngine(t, testSettings(), "",
		open("jobb", at(2025, time.June, 9, 8, 0)),
	)

	report, err := eng.Validate(at(2025, time.June, 9, 10, 0))
	require.NoError(t, err)
	assert.Empty(t, issuesOf(report, engine.IssueLongRunningTimer))
}

func TestValidate_HighWeeklyHours(t *testing.T) {
	// GIVEN: 56 hours logged Monday-Friday of the current week (threshold 55)
	// WHEN: Validating on Friday evening
	// THEN: One informational finding on the week total

	eng := newEngine(t, testSettings(), "",
		closed("jobb", monday, 12),
		closed("jobb", tuesday, 12),
		closed("jobb", at(2025, time.June, 11, 8, 0), 12),
		closed("jobb", at(2025, time.June, 12, 8, 0), 12),
		closed("jobb", at(2025, time.June, 13, 8, 0), 8),
	)

	report, err := eng.Validate(at(2025, time.June, 13, 20, 0))
	require.NoError(t, err)

	week := issuesOf(report, engine.IssueHighWeeklyHours)
	require.Len(t, week, 1)
	assert.Equal(t, engine.SeverityInfo, week[0].Severity)
}

func TestValidate_EntryCountedOnceAcrossIssues(t *testing.T) {
	// An entry can trip several checks (long session + future date) but
	// counts once in EntriesWithIssues.

	eng := newEngine(t, testSettings(), "",
		closed("jobb", at(2025, time.June, 20, 0, 0), 17),
	)

	report, err := eng.Validate(at(2025, time.June, 9, 9, 0))
	require.NoError(t, err)

	assert.Len(t, report.Issues, 2)
	assert.Equal(t, 1, report.EntriesWithIssues)
}

func TestValidate_StructuralAndDurationIssuesShareOneEntry(t *testing.T) {
	// GIVEN: A single entry that is both nameless and a 17h session
	// WHEN: Validating
	// THEN: Two issues, but one entry with issues: the raw-list pass and the
	//       bucket pass attribute to the same logical entry

	end := monday.Add(17 * time.Hour)
	eng := newEngine(t, testSettings(), "",
		engine.RawEntry{Name: "", StartTime: monday, EndTime: &end},
	)

	report, err := eng.Validate(at(2025, time.June, 16, 9, 0))
	require.NoError(t, err)

	assert.Len(t, issuesOf(report, engine.IssueMissingName), 1)
	assert.Len(t, issuesOf(report, engine.IssueVeryLongSession), 1)
	assert.Len(t, report.Issues, 2)
	assert.Equal(t, 1, report.EntriesWithIssues)
}

func TestValidate_CustomThresholds(t *testing.T) {
	settings := testSettings()
	settings.Thresholds.LongSessionHours = 6

	eng := newEngine(t, settings, "", closed("jobb", monday, 7))

	report, err := eng.Validate(at(2025, time.June, 10, 9, 0))
	require.NoError(t, err)
	assert.Len(t, issuesOf(report, engine.IssueVeryLongSession), 1)
}
