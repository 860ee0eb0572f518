/*
holidays.go - Holiday declaration parsing and loading

PURPOSE:
  Parses the line-oriented declaration source into the holiday map. Loading
  is the engine's single asynchronous boundary: the source read is I/O owned
  by a collaborator, and every outcome (loaded, no source, read error) is
  non-fatal - the map is simply left empty or partially populated and the
  status object describes what happened.

LINE FORMAT:
  - YYYY-MM-DD: <type>: <description>
  - YYYY-MM-DD: <type>:half: <description>

  Non-matching lines are silently ignored, so the source can live inside a
  larger note.
*/
package engine

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"strings"
)

// HolidaySource reads the raw declaration text. Implemented by collaborators
// (the store, a file reader); the engine never touches I/O itself.
type HolidaySource interface {
	ReadDeclarations(ctx context.Context) (string, error)
}

// HolidaySourceFunc adapts a function to the HolidaySource interface.
type HolidaySourceFunc func(ctx context.Context) (string, error)

func (f HolidaySourceFunc) ReadDeclarations(ctx context.Context) (string, error) {
	return f(ctx)
}

// LoadStatus reports the outcome of a holiday load. All outcomes are
// non-fatal; Warning carries the reason when Success is false or when the
// source parsed to nothing.
type LoadStatus struct {
	Success bool
	Message string
	Count   int
	Warning string
}

var declarationLine = regexp.MustCompile(
	`^\s*-\s*(\d{4}-\d{2}-\d{2})\s*:\s*([^:]+?)\s*(?::\s*(half)\s*)?:\s*(.*?)\s*$`,
)

// ParseHolidayDeclarations scans the text line by line and collects every
// recognized declaration, keyed by date. Later declarations for the same
// date win.
func ParseHolidayDeclarations(text string) HolidayMap {
	holidays := make(HolidayMap)
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		m := declarationLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		date, err := ParseDay(m[1])
		if err != nil {
			continue // matched shape but impossible date, e.g. 2025-13-40
		}
		holidays[date] = HolidayInfo{
			Date:        date,
			Type:        NormalizeCategory(m[2]),
			Description: m[4],
			HalfDay:     m[3] == "half",
		}
	}
	return holidays
}

// LoadHolidays populates the engine's holiday map from the source. A nil
// source and a failed read both leave the map empty and the engine
// consistent.
func (e *Engine) LoadHolidays(ctx context.Context, src HolidaySource) LoadStatus {
	e.holidays = make(HolidayMap)
	e.rebind()

	if src == nil {
		return LoadStatus{Success: false, Message: "no holiday declaration source configured"}
	}

	text, err := src.ReadDeclarations(ctx)
	if err != nil {
		return LoadStatus{
			Success: false,
			Message: "holiday declarations unavailable",
			Warning: err.Error(),
		}
	}

	e.holidays = ParseHolidayDeclarations(text)
	e.rebind()

	status := LoadStatus{
		Success: true,
		Message: fmt.Sprintf("loaded %d holiday declarations", len(e.holidays)),
		Count:   len(e.holidays),
	}
	if len(e.holidays) == 0 && strings.TrimSpace(text) != "" {
		status.Warning = "no declarations recognized in source"
	}
	return status
}
