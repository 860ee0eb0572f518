/*
validate.go - Data-quality Validator

PURPOSE:
  One deterministic pass over every entry producing a three-tier issue list.
  Validation never mutates or excludes entries: a negative duration still
  participates in flextime arithmetic, it just gets reported here. The pass
  is total - data problems become issues, never errors.

TIERS:
  error   - missing name, missing start time, negative duration, duration
            over the configured maximum
  warning - very long closed session, long-running active timer
  info    - zero-duration entries, future-dated entries, high current-week
            total
*/
package engine

import (
	"fmt"
	"time"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue labels, stable identifiers for the presentation layer.
const (
	IssueMissingName       = "Missing Name"
	IssueMissingStartTime  = "Missing Start Time"
	IssueNegativeDuration  = "Negative Duration"
	IssueExcessiveDuration = "Excessive Duration"
	IssueVeryLongSession   = "Very Long Session"
	IssueLongRunningTimer  = "Long-Running Timer"
	IssueZeroDuration      = "Zero Duration"
	IssueFutureDate        = "Future Date"
	IssueHighWeeklyHours   = "High Weekly Hours"
)

// EntrySnapshot is a compact copy of the offending entry for display.
type EntrySnapshot struct {
	Name     string
	Start    string
	End      string
	Duration float64
}

// Issue is one data-quality finding.
type Issue struct {
	Severity    Severity
	Category    string
	Description string
	Date        Day
	Entry       EntrySnapshot
}

// ValidationReport is the full result of one validation pass.
type ValidationReport struct {
	Issues            []Issue
	EntriesChecked    int
	EntriesWithIssues int
}

func (r ValidationReport) CountBySeverity(sev Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

// Validate runs the data-quality pass as of the given instant. It examines
// the raw list for structural problems and the normalized closed/active
// entries for duration problems.
func (e *Engine) Validate(asOf time.Time) (ValidationReport, error) {
	if !e.processed {
		return ValidationReport{}, ErrNotProcessed
	}

	v := &validation{
		report:  ValidationReport{EntriesChecked: len(e.raw)},
		flagged: make(map[int]bool),
	}
	th := e.settings.Thresholds
	today := DayOf(asOf)

	for i, r := range e.raw {
		if r.Name == "" {
			v.add(i, Issue{
				Severity:    SeverityError,
				Category:    IssueMissingName,
				Description: "entry has no category name",
				Date:        DayOf(r.StartTime),
				Entry:       rawSnapshot(r),
			})
		}
		if r.StartTime.IsZero() {
			v.add(i, Issue{
				Severity:    SeverityError,
				Category:    IssueMissingStartTime,
				Description: "entry has no start time; skipping further checks",
				Entry:       rawSnapshot(r),
			})
		}
	}

	for _, day := range sortedDays(e.buckets) {
		for _, entry := range e.buckets[day] {
			d := entry.Duration.Float64()
			switch {
			case entry.Duration.IsNegative():
				v.add(entry.rawIndex, Issue{
					Severity:    SeverityError,
					Category:    IssueNegativeDuration,
					Description: fmt.Sprintf("duration is %.2fh; end time precedes start time", d),
					Date:        day,
					Entry:       entrySnapshot(entry),
				})
			case d > th.MaxDurationHours:
				v.add(entry.rawIndex, Issue{
					Severity:    SeverityError,
					Category:    IssueExcessiveDuration,
					Description: fmt.Sprintf("duration %.2fh exceeds the %.0fh maximum", d, th.MaxDurationHours),
					Date:        day,
					Entry:       entrySnapshot(entry),
				})
			case d > th.LongSessionHours:
				v.add(entry.rawIndex, Issue{
					Severity:    SeverityWarning,
					Category:    IssueVeryLongSession,
					Description: fmt.Sprintf("session of %.2fh is unusually long", d),
					Date:        day,
					Entry:       entrySnapshot(entry),
				})
			case entry.Duration.IsZero():
				v.add(entry.rawIndex, Issue{
					Severity:    SeverityInfo,
					Category:    IssueZeroDuration,
					Description: "entry has zero duration",
					Date:        day,
					Entry:       entrySnapshot(entry),
				})
			}

			if day.After(today) {
				v.add(entry.rawIndex, Issue{
					Severity:    SeverityInfo,
					Category:    IssueFutureDate,
					Description: fmt.Sprintf("entry is dated %s, after today", day),
					Date:        day,
					Entry:       entrySnapshot(entry),
				})
			}
		}
	}

	for _, a := range e.active.Entries {
		elapsed := a.Elapsed(asOf).Float64()
		if elapsed > th.LongTimerHours {
			v.add(a.rawIndex, Issue{
				Severity:    SeverityWarning,
				Category:    IssueLongRunningTimer,
				Description: fmt.Sprintf("timer has been running for %.1fh", elapsed),
				Date:        a.Date,
				Entry: EntrySnapshot{
					Name:     a.Name,
					Start:    a.StartTime.Format(time.RFC3339),
					Duration: elapsed,
				},
			})
		}
	}

	if week, err := e.WeekHours(asOf); err == nil {
		if w := week.Float64(); w > th.HighWeeklyHours {
			v.report.Issues = append(v.report.Issues, Issue{
				Severity:    SeverityInfo,
				Category:    IssueHighWeeklyHours,
				Description: fmt.Sprintf("current week totals %.1fh, above the %.0fh threshold", w, th.HighWeeklyHours),
				Date:        today,
			})
		}
	}

	return v.report, nil
}

type validation struct {
	report  ValidationReport
	flagged map[int]bool
}

// add appends the issue and counts the owning raw entry once, no matter how
// many passes flag it.
func (v *validation) add(rawIndex int, issue Issue) {
	v.report.Issues = append(v.report.Issues, issue)
	if !v.flagged[rawIndex] {
		v.flagged[rawIndex] = true
		v.report.EntriesWithIssues++
	}
}

func rawSnapshot(r RawEntry) EntrySnapshot {
	s := EntrySnapshot{Name: r.Name}
	if !r.StartTime.IsZero() {
		s.Start = r.StartTime.Format(time.RFC3339)
	}
	if r.EndTime != nil {
		s.End = r.EndTime.Format(time.RFC3339)
	}
	return s
}

func entrySnapshot(e *TimeEntry) EntrySnapshot {
	return EntrySnapshot{
		Name:     e.Name,
		Start:    e.StartTime.Format(time.RFC3339),
		End:      e.EndTime.Format(time.RFC3339),
		Duration: e.Duration.Float64(),
	}
}
