/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the API. Hours cross the wire as float64; the decimal
  precision lives inside the engine and is rounded once, here, at the
  serialization boundary.

SEE ALSO:
  - handlers.go: fills these from engine results
*/
package api

import (
	"time"

	"github.com/fleksi/flextime-engine/engine"
	"github.com/fleksi/flextime-engine/store"
)

// =============================================================================
// ENTRIES
// =============================================================================

type EntryDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
}

type CreateEntryRequest struct {
	Name      string  `json:"name"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
}

type StartTimerRequest struct {
	Name string `json:"name"`
}

func toEntryDTO(e store.Entry) EntryDTO {
	dto := EntryDTO{
		ID:        e.ID,
		Name:      e.Name,
		StartTime: e.StartTime.Format(time.RFC3339),
	}
	if e.EndTime != nil {
		s := e.EndTime.Format(time.RFC3339)
		dto.EndTime = &s
	}
	return dto
}

// =============================================================================
// BALANCE
// =============================================================================

type BalanceDTO struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Balance float64 `json:"balance"`
}

type CurrentBalanceDTO struct {
	AsOf         string  `json:"as_of"`
	Balance      float64 `json:"balance"`
	TodayHours   float64 `json:"today_hours"`
	WeekHours    float64 `json:"week_hours"`
	OngoingHours float64 `json:"ongoing_hours"`
}

// =============================================================================
// DAYS AND GROUPS
// =============================================================================

type DayEntryDTO struct {
	Name     string  `json:"name"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Duration float64 `json:"duration"`
	Flextime float64 `json:"flextime"`
}

type DayDTO struct {
	Date     string        `json:"date"`
	Goal     float64       `json:"goal"`
	Worked   float64       `json:"worked"`
	Flextime float64       `json:"flextime"`
	Delta    float64       `json:"delta"`
	Entries  []DayEntryDTO `json:"entries"`
	Holiday  *HolidayDTO   `json:"holiday,omitempty"`
}

func toDayEntryDTO(e *engine.TimeEntry) DayEntryDTO {
	return DayEntryDTO{
		Name:     e.Name,
		Start:    e.StartTime.Format(time.RFC3339),
		End:      e.EndTime.Format(time.RFC3339),
		Duration: e.Duration.Float64(),
		Flextime: e.Flextime.Float64(),
	}
}

func toDayDTO(s engine.DaySummary) DayDTO {
	dto := DayDTO{
		Date:     s.Date.String(),
		Goal:     s.Goal.Float64(),
		Worked:   s.Worked.Float64(),
		Flextime: s.Flextime.Float64(),
		Delta:    s.Delta.Float64(),
		Entries:  make([]DayEntryDTO, 0, len(s.Entries)),
	}
	for _, e := range s.Entries {
		dto.Entries = append(dto.Entries, toDayEntryDTO(e))
	}
	if s.Holiday != nil {
		h := toHolidayDTO(*s.Holiday)
		dto.Holiday = &h
	}
	return dto
}

// GroupsDTO is the month -> ISO week -> entries display rollup.
type GroupsDTO map[string]map[int][]DayEntryDTO

// =============================================================================
// STATISTICS
// =============================================================================

type CategoryStatsDTO struct {
	Days           int     `json:"days"`
	Hours          float64 `json:"hours"`
	PlannedDays    int     `json:"planned_days"`
	MaxDaysPerYear int     `json:"max_days_per_year,omitempty"`
}

type StatsDTO struct {
	Timeframe       string                      `json:"timeframe"`
	AsOf            string                      `json:"as_of"`
	TotalHours      float64                     `json:"total_hours"`
	TotalFlextime   float64                     `json:"total_flextime"`
	Categories      map[string]CategoryStatsDTO `json:"categories"`
	WeekendDays     int                         `json:"weekend_days"`
	WeekendHours    float64                     `json:"weekend_hours"`
	WorkdayCount    int                         `json:"workday_count"`
	WorkloadPercent float64                     `json:"workload_percent,omitempty"`
}

func toStatsDTO(s engine.Stats) StatsDTO {
	dto := StatsDTO{
		Timeframe:       string(s.Timeframe),
		AsOf:            s.AsOf.String(),
		TotalHours:      s.TotalHours.Float64(),
		TotalFlextime:   s.TotalFlextime.Float64(),
		Categories:      make(map[string]CategoryStatsDTO, len(s.Categories)),
		WeekendDays:     s.WeekendDays,
		WeekendHours:    s.WeekendHours.Float64(),
		WorkdayCount:    s.WorkdayCount,
		WorkloadPercent: s.WorkloadPercent,
	}
	for id, row := range s.Categories {
		dto.Categories[string(id)] = CategoryStatsDTO{
			Days:           row.Days,
			Hours:          row.Hours.Float64(),
			PlannedDays:    row.PlannedDays,
			MaxDaysPerYear: row.MaxDaysPerYear,
		}
	}
	return dto
}

type AveragesDTO struct {
	HoursPerDay  float64 `json:"hours_per_day"`
	HoursPerWeek float64 `json:"hours_per_week"`
	DaysCounted  int     `json:"days_counted"`
}

// =============================================================================
// VALIDATION
// =============================================================================

type IssueDTO struct {
	Severity    string           `json:"severity"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        string           `json:"date,omitempty"`
	Entry       EntrySnapshotDTO `json:"entry"`
}

type EntrySnapshotDTO struct {
	Name     string  `json:"name"`
	Start    string  `json:"start,omitempty"`
	End      string  `json:"end,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

type ValidationDTO struct {
	Issues            []IssueDTO `json:"issues"`
	EntriesChecked    int        `json:"entries_checked"`
	EntriesWithIssues int        `json:"entries_with_issues"`
	Errors            int        `json:"errors"`
	Warnings          int        `json:"warnings"`
	Infos             int        `json:"infos"`
}

func toValidationDTO(r engine.ValidationReport) ValidationDTO {
	dto := ValidationDTO{
		Issues:            make([]IssueDTO, 0, len(r.Issues)),
		EntriesChecked:    r.EntriesChecked,
		EntriesWithIssues: r.EntriesWithIssues,
		Errors:            r.CountBySeverity(engine.SeverityError),
		Warnings:          r.CountBySeverity(engine.SeverityWarning),
		Infos:             r.CountBySeverity(engine.SeverityInfo),
	}
	for _, issue := range r.Issues {
		d := IssueDTO{
			Severity:    string(issue.Severity),
			Category:    issue.Category,
			Description: issue.Description,
			Entry: EntrySnapshotDTO{
				Name:     issue.Entry.Name,
				Start:    issue.Entry.Start,
				End:      issue.Entry.End,
				Duration: issue.Entry.Duration,
			},
		}
		if !issue.Date.IsZero() {
			d.Date = issue.Date.String()
		}
		dto.Issues = append(dto.Issues, d)
	}
	return dto
}

// =============================================================================
// HOLIDAYS
// =============================================================================

type HolidayDTO struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	HalfDay     bool   `json:"half_day"`
}

func toHolidayDTO(h engine.HolidayInfo) HolidayDTO {
	return HolidayDTO{
		Date:        h.Date.String(),
		Type:        string(h.Type),
		Description: h.Description,
		HalfDay:     h.HalfDay,
	}
}

type HolidaysDTO struct {
	Status   LoadStatusDTO `json:"status"`
	Holidays []HolidayDTO  `json:"holidays"`
	Text     string        `json:"text"`
}

type LoadStatusDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	Warning string `json:"warning,omitempty"`
}

type UpdateHolidaysRequest struct {
	Text string `json:"text"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
